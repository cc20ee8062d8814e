package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OKResponse respuesta mínima de éxito para operaciones sin cuerpo.
type OKResponse struct {
	OK bool `json:"ok"`
}
