// Package carrier contiene los casos de uso de administración de transportadoras:
// reconciliación con el registro externo, listado enriquecido y borrado.
package carrier

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/shipping"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// Presence estado de una transportadora en el registro según el sondeo GET.
type Presence int

const (
	PresenceUnknown Presence = iota
	PresenceAbsent
	PresencePresent
	PresenceIndeterminate
)

func (p Presence) String() string {
	switch p {
	case PresenceAbsent:
		return "absent"
	case PresencePresent:
		return "present"
	case PresenceIndeterminate:
		return "indeterminate"
	}
	return "unknown"
}

const probeFailedText = "Unable to determine existence (GET failed)"

// ReconcileUseCase publica la definición nativa en el registro y fusiona los campos
// personalizados en el repositorio.
type ReconcileUseCase struct {
	registry repository.CarrierRegistry
	repo     repository.CustomizationRepository
	log      *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(registry repository.CarrierRegistry, repo repository.CustomizationRepository, log *logger.Logger) *ReconcileUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReconcileUseCase{registry: registry, repo: repo, log: log}
}

// Reconcile valida el payload, hace upsert en el registro y, si prospera, guarda la
// personalización en storeKey. Los fallos del registro no son error: vuelven con OK=false.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, storeKey string, payload map[string]any) (*dto.ReconcileResponse, error) {
	if uc.registry == nil {
		return nil, domain.ErrMissingConfig
	}
	native := shipping.BuildNativePayload(payload)
	if native.Code == "" {
		return nil, domain.ErrMissingCarrier
	}
	if !native.HasTitle() {
		return nil, domain.ErrTitleRequired
	}

	up, err := uc.Upsert(ctx, native)
	if err != nil {
		return nil, err
	}
	if !up.Success {
		uc.log.Warn().Str("code", native.Code).Str("method", up.Method).Int("status", up.StatusCode).Msg("upsert en el registro falló")
		return &dto.ReconcileResponse{
			OK:             false,
			Message:        registryMessage(up.Body),
			Status:         up.StatusCode,
			Method:         up.Method,
			RequestCarrier: &native,
			Data:           up.Body,
		}, nil
	}

	patch := shipping.BuildPatch(shipping.NewPatchRequest(payload))
	received := make(map[string]any, len(patch))
	for k, v := range patch {
		received[k] = v
	}
	patch["code"] = native.Code

	resp := &dto.ReconcileResponse{
		OK:             true,
		Method:         up.Method,
		Carrier:        &native,
		Commerce:       up.Body,
		ReceivedCustom: received,
	}
	// La escritura es best-effort: un fallo no invalida el upsert del registro.
	saved, err := uc.repo.Upsert(ctx, storeKey, patch)
	if err != nil {
		uc.log.Warn().Err(err).Str("code", native.Code).Str("store_key", storeKey).Msg("no se pudo guardar la personalización")
		empty := dto.NewCustomizationView(entity.Customization{})
		resp.SavedCustom = &empty
		return resp, nil
	}
	view := dto.NewCustomizationView(saved)
	resp.SavedCustom = &view
	return resp, nil
}

// Probe sondea el registro: 404 es ausente, 2xx presente y cualquier otra cosa indeterminado.
func (uc *ReconcileUseCase) Probe(ctx context.Context, code string) (Presence, repository.CallResult) {
	_, res, err := uc.registry.GetByCode(ctx, code)
	switch {
	case err != nil:
		res.Body = err.Error()
		return PresenceIndeterminate, res
	case res.StatusCode == http.StatusNotFound:
		return PresenceAbsent, res
	case res.Success:
		return PresencePresent, res
	}
	return PresenceIndeterminate, res
}

// Upsert aplica la máquina de estados: ausente → POST; presente → DELETE+POST (REPLACED)
// con PUT de respaldo; indeterminado → fallo con el estado del sondeo.
func (uc *ReconcileUseCase) Upsert(ctx context.Context, p entity.CarrierPayload) (repository.CallResult, error) {
	presence, probe := uc.Probe(ctx, p.Code)
	uc.log.Debug().Str("code", p.Code).Str("presence", presence.String()).Msg("sondeo del registro")

	switch presence {
	case PresenceAbsent:
		return uc.registry.Create(ctx, p)
	case PresencePresent:
		rep, err := uc.registry.Replace(ctx, p.Code, p)
		if err == nil && rep.Success {
			return rep, nil
		}
		put, perr := uc.registry.Update(ctx, p.Code, p)
		if perr == nil && put.Success {
			return put, nil
		}
		if err != nil {
			return repository.CallResult{}, err
		}
		return rep, nil
	}

	status := probe.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	body := probe.Body
	if body == "" {
		body = probeFailedText
	}
	return repository.CallResult{Success: false, StatusCode: status, Body: body, Method: http.MethodGet}, nil
}

// registryMessage extrae message/parameters del cuerpo JSON del registro o devuelve el texto.
func registryMessage(body string) string {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		for _, k := range []string{"message", "parameters"} {
			switch v := parsed[k].(type) {
			case string:
				if v != "" {
					return v
				}
			case nil:
			default:
				raw, _ := json.Marshal(v)
				return string(raw)
			}
		}
	} else if body != "" {
		return body
	}
	return "Commerce API error"
}
