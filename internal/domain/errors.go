package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrTitleRequired       = errors.New("el título es obligatorio para la API REST (POST/PUT)")
	ErrMissingCarrier      = errors.New("falta el payload de la transportadora")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrUserNotFound        = errors.New("operador no encontrado")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrMissingConfig       = errors.New("configuración incompleta")
	ErrRegistryUnavailable = errors.New("registro de transportadoras no disponible")
	ErrMalformedDocument   = errors.New("documento JSON malformado")
)
