package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulcrum-shipping/internal/application/resolution"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// ShippingHandler atiende el webhook de métodos de envío del checkout.
type ShippingHandler struct {
	uc  *resolution.ResolveUseCase
	log *logger.Logger
}

// NewShippingHandler construye el handler.
func NewShippingHandler(uc *resolution.ResolveUseCase, log *logger.Logger) *ShippingHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ShippingHandler{uc: uc, log: log}
}

// ShippingMethods godoc
// @Summary      Resolver métodos de envío
// @Description  Siempre responde 200: sin ofertas devuelve una operación de diagnóstico.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200   {array}   dto.ShippingOperation
// @Router       /webhooks/shipping-methods [post]
func (h *ShippingHandler) ShippingMethods(c *fiber.Ctx) error {
	payload := decodeWebhookBody(c.Body())
	res := h.uc.Resolve(c.UserContext(), payload)
	h.log.Info().Str("status", string(res.Status)).Int("offers", len(res.Offers)).
		Int("excluded", len(res.Excluded)).Msg("webhook shipping-methods")
	return c.Status(fiber.StatusOK).JSON(res.Operations())
}

// decodeWebhookBody acepta JSON directo o JSON en base64 y desenvuelve "rateRequest".
// Un cuerpo ilegible se trata como objeto vacío.
func decodeWebhookBody(body []byte) any {
	body = bytes.TrimSpace(body)
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		decoded, derr := base64.StdEncoding.DecodeString(string(body))
		if derr != nil || json.Unmarshal(decoded, &payload) != nil {
			return map[string]any{}
		}
	}
	if m, ok := payload.(map[string]any); ok {
		if inner, ok := m["rateRequest"]; ok && inner != nil {
			return inner
		}
	}
	if payload == nil {
		return map[string]any{}
	}
	return payload
}
