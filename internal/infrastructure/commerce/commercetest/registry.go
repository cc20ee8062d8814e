// Package commercetest ofrece un registro de transportadoras en memoria para tests.
package commercetest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
)

var _ repository.CarrierRegistry = (*Registry)(nil)

// Registry implementación en memoria. Los campos Fail* fuerzan respuestas concretas por
// operación (LIST, GET, POST, PUT, DELETE, STORES, GROUPS); Err simula fallo de transporte.
type Registry struct {
	mu       sync.Mutex
	carriers []entity.NativeCarrier
	Stores   []entity.StoreView
	Groups   []entity.CustomerGroup

	FailStatus map[string]int
	Err        error
	Calls      []string
}

// New crea el registro con las transportadoras dadas, en ese orden.
func New(carriers ...entity.NativeCarrier) *Registry {
	return &Registry{carriers: append([]entity.NativeCarrier{}, carriers...), FailStatus: map[string]int{}}
}

// Carriers copia del estado actual.
func (r *Registry) Carriers() []entity.NativeCarrier {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.NativeCarrier{}, r.carriers...)
}

// Methods copia de las llamadas registradas.
func (r *Registry) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.Calls...)
}

func (r *Registry) begin(op string) (repository.CallResult, bool) {
	r.Calls = append(r.Calls, op)
	if status, ok := r.FailStatus[op]; ok {
		return repository.CallResult{StatusCode: status, Body: `{"message":"forced failure"}`, Method: method(op)}, true
	}
	return repository.CallResult{}, false
}

func method(op string) string {
	switch op {
	case "LIST", "STORES", "GROUPS":
		return http.MethodGet
	}
	return op
}

func ok(op string, body any) repository.CallResult {
	raw, _ := json.Marshal(body)
	return repository.CallResult{Success: true, StatusCode: http.StatusOK, Body: string(raw), Method: method(op)}
}

func (r *Registry) index(code string) int {
	for i, c := range r.carriers {
		if c.Code == code {
			return i
		}
	}
	return -1
}

func fromPayload(p entity.CarrierPayload) entity.NativeCarrier {
	nc := entity.NativeCarrier{
		Code:      p.Code,
		Title:     p.Title,
		Stores:    p.Stores,
		Countries: p.Countries,
		SortOrder: p.SortOrder,
	}
	if p.Active != nil {
		nc.Active = *p.Active
	}
	if p.TrackingAvailable != nil {
		nc.TrackingAvailable = *p.TrackingAvailable
	}
	if p.ShippingLabelsAvailable != nil {
		nc.ShippingLabelsAvailable = *p.ShippingLabelsAvailable
	}
	return nc
}

func (r *Registry) ListCarriers(_ context.Context) ([]entity.NativeCarrier, repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, repository.CallResult{Method: http.MethodGet}, r.Err
	}
	if res, failed := r.begin("LIST"); failed {
		return nil, res, nil
	}
	out := append([]entity.NativeCarrier{}, r.carriers...)
	return out, ok("LIST", out), nil
}

func (r *Registry) GetByCode(_ context.Context, code string) (*entity.NativeCarrier, repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, repository.CallResult{Method: http.MethodGet}, r.Err
	}
	if res, failed := r.begin(http.MethodGet); failed {
		return nil, res, nil
	}
	i := r.index(code)
	if i < 0 {
		return nil, repository.CallResult{StatusCode: http.StatusNotFound, Body: `{"message":"not found"}`, Method: http.MethodGet}, nil
	}
	nc := r.carriers[i]
	return &nc, ok(http.MethodGet, nc), nil
}

func (r *Registry) Create(_ context.Context, p entity.CarrierPayload) (repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return repository.CallResult{Method: http.MethodPost}, r.Err
	}
	return r.create(p), nil
}

func (r *Registry) create(p entity.CarrierPayload) repository.CallResult {
	if res, failed := r.begin(http.MethodPost); failed {
		return res
	}
	if r.index(p.Code) >= 0 {
		return repository.CallResult{StatusCode: http.StatusBadRequest, Body: `{"message":"carrier already exists"}`, Method: http.MethodPost}
	}
	r.carriers = append(r.carriers, fromPayload(p))
	return ok(http.MethodPost, p)
}

func (r *Registry) Replace(_ context.Context, code string, p entity.CarrierPayload) (repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return repository.CallResult{Method: http.MethodPost}, r.Err
	}
	r.delete(code)
	res := r.create(p)
	if res.Success {
		res.Method = "REPLACED"
	}
	return res, nil
}

func (r *Registry) Update(_ context.Context, code string, p entity.CarrierPayload) (repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return repository.CallResult{Method: http.MethodPut}, r.Err
	}
	if res, failed := r.begin(http.MethodPut); failed {
		return res, nil
	}
	i := r.index(code)
	if i < 0 {
		return repository.CallResult{StatusCode: http.StatusNotFound, Method: http.MethodPut}, nil
	}
	r.carriers[i] = fromPayload(p)
	return ok(http.MethodPut, p), nil
}

func (r *Registry) Delete(_ context.Context, code string) (repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return repository.CallResult{Method: http.MethodDelete}, r.Err
	}
	return r.delete(code), nil
}

func (r *Registry) delete(code string) repository.CallResult {
	if res, failed := r.begin(http.MethodDelete); failed {
		return res
	}
	i := r.index(code)
	if i < 0 {
		return repository.CallResult{StatusCode: http.StatusNotFound, Body: `{"message":"not found"}`, Method: http.MethodDelete}
	}
	r.carriers = append(r.carriers[:i], r.carriers[i+1:]...)
	return repository.CallResult{Success: true, StatusCode: http.StatusOK, Body: "true", Method: http.MethodDelete}
}

func (r *Registry) ListStores(_ context.Context) ([]entity.StoreView, repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, repository.CallResult{Method: http.MethodGet}, r.Err
	}
	if res, failed := r.begin("STORES"); failed {
		return nil, res, nil
	}
	return append([]entity.StoreView{}, r.Stores...), ok("STORES", r.Stores), nil
}

func (r *Registry) ListCustomerGroups(_ context.Context) ([]entity.CustomerGroup, repository.CallResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, repository.CallResult{Method: http.MethodGet}, r.Err
	}
	if res, failed := r.begin("GROUPS"); failed {
		return nil, res, nil
	}
	return append([]entity.CustomerGroup{}, r.Groups...), ok("GROUPS", r.Groups), nil
}
