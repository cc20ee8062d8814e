// Package resolution orquesta la resolución de ofertas de envío para un carrito: lee las
// transportadoras del registro, carga su personalización y aplica el evaluador.
package resolution

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/checkout"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/shipping"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// Status resultado global de una resolución.
type Status string

const (
	StatusResolved    Status = "resolved"
	StatusNoMatch     Status = "no_match"
	StatusSkipped     Status = "skipped"
	StatusConfigError Status = "config_error"
)

// Mensajes de los centinelas; viajan como título de la operación de diagnóstico.
const (
	MessageNoMatch        = "No matching carriers after filters"
	MessageMissingBaseURL = "Missing COMMERCE_BASE_URL"
)

// Valores del diagnóstico "source" según haya o no repositorio de personalizaciones.
const (
	SourceWithStore    = "REST + Files (min/max + stores + groups)"
	SourceRegistryOnly = "REST (min/max + stores + groups)"
)

const bodySnippetLen = 160

var whitespaceRe = regexp.MustCompile(`\s+`)

// Exclusion transportadora descartada y su motivo, para diagnóstico.
type Exclusion struct {
	Code   string
	Reason shipping.Reason
	Detail string
}

// Result ofertas aceptadas en orden del registro o un centinela con mensaje.
type Result struct {
	Status   Status
	Offers   []entity.Offer
	Excluded []Exclusion
	Cart     entity.CartContext
	Message  string
}

// Operations convierte el resultado en la respuesta del webhook. Los centinelas producen
// una única operación de diagnóstico.
func (r Result) Operations() []dto.ShippingOperation {
	if r.Status != StatusResolved {
		return []dto.ShippingOperation{dto.NewErrorOperation(r.Message)}
	}
	ops := make([]dto.ShippingOperation, 0, len(r.Offers))
	for _, o := range r.Offers {
		ops = append(ops, dto.NewOfferOperation(o))
	}
	return ops
}

// ResolveUseCase caso de uso del webhook de métodos de envío.
// registry nil equivale a COMMERCE_BASE_URL ausente; repo nil a almacenamiento no disponible.
type ResolveUseCase struct {
	registry repository.CarrierRegistry
	repo     repository.CustomizationRepository
	storeKey string
	cfg      shipping.Config
	log      *logger.Logger
}

// NewResolveUseCase construye el caso de uso.
func NewResolveUseCase(registry repository.CarrierRegistry, repo repository.CustomizationRepository, storeKey string, cfg shipping.Config, log *logger.Logger) *ResolveUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ResolveUseCase{registry: registry, repo: repo, storeKey: storeKey, cfg: cfg, log: log}
}

// Resolve nunca devuelve error: cualquier fallo termina en un centinela.
func (uc *ResolveUseCase) Resolve(ctx context.Context, payload any) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error().Interface("panic", r).Msg("resolución abortada")
			res = Result{Status: StatusSkipped, Message: fmt.Sprintf("Exception: %v", r)}
		}
	}()

	cart := checkout.Extract(payload)
	uc.log.Info().Str("cart_total", cart.Total.String()).Int("item_count", cart.ItemCount).
		Str("store", cart.StoreOrUnknown()).Msg("carrito interpretado")

	if uc.registry == nil {
		return Result{Status: StatusConfigError, Cart: cart, Message: MessageMissingBaseURL}
	}

	carriers, call, err := uc.registry.ListCarriers(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("registro de transportadoras no disponible")
		return Result{Status: StatusSkipped, Cart: cart, Message: "REST fetch error: " + err.Error()}
	}
	if !call.Success {
		uc.log.Warn().Int("status", call.StatusCode).Msg("registro de transportadoras respondió con error")
		return Result{Status: StatusSkipped, Cart: cart, Message: fmt.Sprintf("REST HTTP %d %s", call.StatusCode, snippet(call.Body))}
	}

	return uc.evaluate(ctx, carriers, cart)
}

func (uc *ResolveUseCase) evaluate(ctx context.Context, carriers []entity.NativeCarrier, cart entity.CartContext) Result {
	source := SourceRegistryOnly
	if uc.repo != nil {
		source = SourceWithStore
	}

	res := Result{Status: StatusResolved, Cart: cart, Offers: []entity.Offer{}}
	for _, native := range carriers {
		key := shipping.CodeKey(native)
		out := shipping.Evaluate(native, uc.customization(ctx, key), cart, uc.cfg)
		if !out.Included() {
			uc.log.Debug().Str("code", key).Str("reason", string(out.Reason)).Str("detail", out.Detail).Msg("transportadora excluida")
			res.Excluded = append(res.Excluded, Exclusion{Code: key, Reason: out.Reason, Detail: out.Detail})
			continue
		}
		offer := out.Offer
		offer.Diagnostics = append([]entity.Diagnostic{{Key: "source", Value: source}}, offer.Diagnostics...)
		res.Offers = append(res.Offers, offer)
	}

	if len(res.Offers) == 0 {
		res.Status = StatusNoMatch
		res.Message = MessageNoMatch
	}
	return res
}

// customization degrada a registro vacío ante cualquier fallo del repositorio.
func (uc *ResolveUseCase) customization(ctx context.Context, code string) entity.Customization {
	if uc.repo == nil {
		return entity.Customization{}
	}
	c, err := uc.repo.Get(ctx, uc.storeKey, code)
	if err != nil {
		uc.log.Warn().Err(err).Str("code", code).Msg("personalización no disponible; se usa registro vacío")
		return entity.Customization{}
	}
	return c
}

func snippet(body string) string {
	s := strings.TrimSpace(whitespaceRe.ReplaceAllString(body, " "))
	if r := []rune(s); len(r) > bodySnippetLen {
		s = string(r[:bodySnippetLen])
	}
	return s
}
