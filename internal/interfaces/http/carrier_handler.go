package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulcrum-shipping/internal/application/carrier"
	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
)

// CarrierHandler API de administración de transportadoras (protegido, rol admin).
type CarrierHandler struct {
	reconcile       *carrier.ReconcileUseCase
	admin           *carrier.AdminUseCase
	defaultStoreKey string
}

// NewCarrierHandler construye el handler; defaultStoreKey aplica cuando no llega ?store=.
func NewCarrierHandler(reconcile *carrier.ReconcileUseCase, admin *carrier.AdminUseCase, defaultStoreKey string) *CarrierHandler {
	if defaultStoreKey == "" {
		defaultStoreKey = filestore.DefaultStoreKey
	}
	return &CarrierHandler{reconcile: reconcile, admin: admin, defaultStoreKey: defaultStoreKey}
}

func (h *CarrierHandler) storeKey(raw string) string {
	if raw == "" {
		return h.defaultStoreKey
	}
	return filestore.NormalizeStoreKey(raw)
}

// errorStatus traduce los errores de dominio a la respuesta HTTP.
func errorStatus(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMissingCarrier):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_CARRIER", Message: "carrier.code es requerido"})
	case errors.Is(err, domain.ErrTitleRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TITLE_REQUIRED", Message: "carrier.title es requerido"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrMissingConfig):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "MISSING_CONFIG", Message: "registro de comercio no configurado"})
	case errors.Is(err, domain.ErrRegistryUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REGISTRY_UNAVAILABLE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// List godoc
// @Summary      Listar transportadoras con su personalización
// @Tags         carriers
// @Produce      json
// @Security     BearerAuth
// @Param        store  query  string  false  "códigos de tienda separados por coma"
// @Success      200   {object}  dto.CarrierListResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/carriers [get]
func (h *CarrierHandler) List(c *fiber.Ctx) error {
	out, err := h.admin.List(c.UserContext(), h.storeKey(c.Query("store")))
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Crear o reemplazar transportadora
// @Description  Publica la definición nativa en el registro y guarda los campos personalizados.
// @Tags         carriers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        store  query  string  false  "clave de tienda"
// @Success      200   {object}  dto.ReconcileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/carriers [post]
func (h *CarrierHandler) Upsert(c *fiber.Ctx) error {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payload := body
	if inner, ok := body["carrier"].(map[string]any); ok {
		payload = inner
	}
	out, err := h.reconcile.Reconcile(c.UserContext(), h.storeKey(c.Query("store")), payload)
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar transportadora
// @Tags         carriers
// @Produce      json
// @Security     BearerAuth
// @Param        code   path   string  true   "código"
// @Param        store  query  string  false  "clave de tienda"
// @Success      200   {object}  dto.DeleteCarrierResponse
// @Router       /api/carriers/{code} [delete]
func (h *CarrierHandler) Delete(c *fiber.Ctx) error {
	out, err := h.admin.Delete(c.UserContext(), h.storeKey(c.Query("store")), c.Params("code"))
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(out)
}

// Stores godoc
// @Summary      Vistas de tienda del registro
// @Tags         carriers
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.StoresResponse
// @Router       /api/stores [get]
func (h *CarrierHandler) Stores(c *fiber.Ctx) error {
	out, err := h.admin.Stores(c.UserContext())
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(out)
}

// CustomerGroups godoc
// @Summary      Grupos de clientes del registro
// @Tags         carriers
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.CustomerGroupsResponse
// @Router       /api/customer-groups [get]
func (h *CarrierHandler) CustomerGroups(c *fiber.Ctx) error {
	out, err := h.admin.CustomerGroups(c.UserContext())
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(out)
}

// Customizations godoc
// @Summary      Personalizaciones guardadas de una tienda
// @Tags         carriers
// @Produce      json
// @Security     BearerAuth
// @Param        storeKey  path  string  true  "clave de tienda"
// @Success      200   {object}  dto.CustomizationListResponse
// @Router       /api/customizations/{storeKey} [get]
func (h *CarrierHandler) Customizations(c *fiber.Ctx) error {
	out, err := h.admin.Customizations(c.UserContext(), h.storeKey(c.Params("storeKey")))
	if err != nil {
		return errorStatus(c, err)
	}
	return c.JSON(out)
}
