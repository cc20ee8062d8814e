// Package commerce implementa el puerto CarrierRegistry sobre la API REST de Commerce.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
	"github.com/jhoicas/fulcrum-shipping/pkg/config"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa CarrierRegistry.
var _ repository.CarrierRegistry = (*Client)(nil)

const (
	carriersPath       = "V1/oope_shipping_carrier"
	storeConfigsPath   = "V1/store/storeConfigs"
	customerGroupsPath = "V1/customerGroups/search?searchCriteria[page_size]=1000"

	// Límite de lectura de respuestas; el listado de transportadoras es pequeño.
	maxBodyBytes = 4 << 20
)

// Client adaptador REST del registro de transportadoras.
// Usa net/http; la autenticación la pone el transporte de oauth2.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente según la configuración: client credentials si hay
// ClientID y TokenURL, token estático si no. Sin COMMERCE_BASE_URL devuelve ErrMissingConfig.
func NewClient(cfg config.CommerceConfig, log *logger.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("COMMERCE_BASE_URL: %w", domain.ErrMissingConfig)
	}
	base := &http.Client{Timeout: cfg.Timeout}
	// El contexto solo lleva el cliente HTTP base para pedir tokens.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	var hc *http.Client
	switch {
	case cfg.UsesOAuth():
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		hc = cc.Client(ctx)
	case cfg.StaticToken != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.StaticToken}))
	default:
		hc = base
	}
	hc.Timeout = cfg.Timeout
	return NewClientWithHTTP(cfg.BaseURL, hc, log), nil
}

// NewClientWithHTTP permite inyectar el *http.Client (tests, transportes propios).
func NewClientWithHTTP(baseURL string, hc *http.Client, log *logger.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{baseURL: NormalizeBaseURL(baseURL), httpClient: hc, log: log}
}

// NormalizeBaseURL recorta espacios y garantiza exactamente una "/" final.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/") + "/"
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, body any) (repository.CallResult, []byte, error) {
	res := repository.CallResult{Method: method}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return res, nil, fmt.Errorf("commerce: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return res, nil, fmt.Errorf("commerce: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return res, nil, fmt.Errorf("commerce: timeout o cancelación: %w", ctx.Err())
		}
		return res, nil, fmt.Errorf("commerce: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return res, nil, fmt.Errorf("commerce: leer respuesta: %w", err)
	}
	res.StatusCode = resp.StatusCode
	res.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	res.Body = string(raw)

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("commerce REST")
	return res, raw, nil
}

func carrierPath(code string) string {
	return carriersPath + "/" + url.PathEscape(code)
}

// ── Transportadoras ───────────────────────────────────────────────────────────

// ListCarriers devuelve las transportadoras en el orden del registro. Un cuerpo que no es
// un arreglo JSON se reporta como llamada fallida.
func (c *Client) ListCarriers(ctx context.Context) ([]entity.NativeCarrier, repository.CallResult, error) {
	res, raw, err := c.do(ctx, http.MethodGet, carriersPath, nil)
	if err != nil || !res.Success {
		return nil, res, err
	}
	rows, ok := decodeArray(raw)
	if !ok {
		res.Success = false
		return nil, res, nil
	}
	out := make([]entity.NativeCarrier, 0, len(rows))
	for _, r := range rows {
		if m, ok := r.(map[string]any); ok {
			out = append(out, toNativeCarrier(m))
		}
	}
	return out, res, nil
}

// GetByCode consulta una transportadora; 404 devuelve nil sin error.
func (c *Client) GetByCode(ctx context.Context, code string) (*entity.NativeCarrier, repository.CallResult, error) {
	res, raw, err := c.do(ctx, http.MethodGet, carrierPath(code), nil)
	if err != nil || !res.Success {
		return nil, res, err
	}
	doc, err := decode(raw)
	if err != nil {
		return nil, res, nil
	}
	switch t := doc.(type) {
	case map[string]any:
		nc := toNativeCarrier(t)
		return &nc, res, nil
	case []any:
		for _, r := range t {
			if m, ok := r.(map[string]any); ok {
				if nc := toNativeCarrier(m); nc.Code == code {
					return &nc, res, nil
				}
			}
		}
	}
	return nil, res, nil
}

// Create POST {carrier: payload}.
func (c *Client) Create(ctx context.Context, payload entity.CarrierPayload) (repository.CallResult, error) {
	res, _, err := c.do(ctx, http.MethodPost, carriersPath, carrierEnvelope{Carrier: payload})
	return res, err
}

// Update PUT sobre el código; algunas instalaciones lo aceptan sin aplicar cambios.
func (c *Client) Update(ctx context.Context, code string, payload entity.CarrierPayload) (repository.CallResult, error) {
	res, _, err := c.do(ctx, http.MethodPut, carrierPath(code), carrierEnvelope{Carrier: payload})
	return res, err
}

// Replace borra (ignorando el resultado) y vuelve a crear. Si el POST prospera el método
// reportado es REPLACED.
func (c *Client) Replace(ctx context.Context, code string, payload entity.CarrierPayload) (repository.CallResult, error) {
	if res, err := c.Delete(ctx, code); err != nil || !res.Success {
		c.log.Debug().Str("code", code).Int("status", res.StatusCode).Msg("DELETE previo al reemplazo ignorado")
	}
	res, err := c.Create(ctx, payload)
	if err == nil && res.Success {
		res.Method = "REPLACED"
	}
	return res, err
}

// Delete DELETE sobre el código.
func (c *Client) Delete(ctx context.Context, code string) (repository.CallResult, error) {
	res, _, err := c.do(ctx, http.MethodDelete, carrierPath(code), nil)
	return res, err
}

type carrierEnvelope struct {
	Carrier entity.CarrierPayload `json:"carrier"`
}

// ── Tiendas y grupos ──────────────────────────────────────────────────────────

// ListStores devuelve las vistas de tienda ordenadas por id descendente.
func (c *Client) ListStores(ctx context.Context) ([]entity.StoreView, repository.CallResult, error) {
	res, raw, err := c.do(ctx, http.MethodGet, storeConfigsPath, nil)
	if err != nil || !res.Success {
		return nil, res, err
	}
	rows, ok := decodeItems(raw)
	if !ok {
		res.Success = false
		return nil, res, nil
	}
	out := make([]entity.StoreView, 0, len(rows))
	for _, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if sv, ok := toStoreView(m); ok {
			out = append(out, sv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, res, nil
}

// ListCustomerGroups devuelve los grupos de clientes; el código vacío se rellena con "Group <id>".
func (c *Client) ListCustomerGroups(ctx context.Context) ([]entity.CustomerGroup, repository.CallResult, error) {
	res, raw, err := c.do(ctx, http.MethodGet, customerGroupsPath, nil)
	if err != nil || !res.Success {
		return nil, res, err
	}
	rows, ok := decodeItems(raw)
	if !ok {
		res.Success = false
		return nil, res, nil
	}
	out := make([]entity.CustomerGroup, 0, len(rows))
	for _, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		id, ok := intField(m["id"])
		if !ok {
			continue
		}
		code, ok := tolerant.NonBlank(m["code"])
		if !ok {
			code = fmt.Sprintf("Group %d", id)
		}
		out = append(out, entity.CustomerGroup{ID: id, Code: code})
	}
	return out, res, nil
}
