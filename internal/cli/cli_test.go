package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulcrum-shipping/internal/application/auth"
	"github.com/jhoicas/fulcrum-shipping/internal/application/carrier"
	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/application/resolution"
	"github.com/jhoicas/fulcrum-shipping/internal/bootstrap"
	"github.com/jhoicas/fulcrum-shipping/internal/cli"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/shipping"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/commerce/commercetest"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
	"github.com/jhoicas/fulcrum-shipping/pkg/config"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	reg  *commercetest.Registry
	repo *filestore.CustomizationRepo
	app  *bootstrap.App
}

func newEnv(t *testing.T, carriers ...entity.NativeCarrier) *env {
	t.Helper()
	store, err := filestore.NewFSStoreWithFs(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	repo := filestore.NewCustomizationRepository(store, "", logger.Nop())
	ops := filestore.NewOperatorRepository(store, "")
	reg := commercetest.New(carriers...)
	return &env{reg: reg, repo: repo, app: &bootstrap.App{
		StoreKey:    "default",
		Registry:    reg,
		Repo:        repo,
		Operators:   ops,
		ResolveUC:   resolution.NewResolveUseCase(reg, repo, "default", shipping.DefaultConfig(), logger.Nop()),
		ReconcileUC: carrier.NewReconcileUseCase(reg, repo, logger.Nop()),
		AdminUC:     carrier.NewAdminUseCase(reg, repo, logger.Nop()),
		AuthUC:      auth.NewAuthUseCase(ops, auth.JWTConfig{Secret: "s", ExpMinutes: 5}),
	}}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	build := func(context.Context, *config.Config, *logger.Logger) (*bootstrap.App, error) { return e.app, nil }
	load := func() (*config.Config, error) { return &config.Config{}, nil }
	cmd := cli.NewRootCmd(build, load, &out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ──────────────────────────────────────────────────────────────────────────────
// carriers
// ──────────────────────────────────────────────────────────────────────────────

const syncYAML = `
store: b2b, default
carriers:
  - code: FUL
    title: Fulcrum Express
    active: true
    stores: [default]
    price: 12
    minimum: 30
  - code: NOT
`

func TestSync_ReconciliaYReportaFallos(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, "carriers.yaml", syncYAML)

	out, err := e.run(t, "carriers", "sync", path)
	require.Error(t, err, "la segunda entrada no tiene título")
	assert.Contains(t, out, "#1 FUL: POST")
	assert.Contains(t, out, "#2 NOT: error")

	require.Len(t, e.reg.Carriers(), 1)
	c, err := e.repo.Get(context.Background(), "b2b,default", "FUL")
	require.NoError(t, err)
	require.NotNil(t, c.Price)
	assert.Equal(t, "12", c.Price.String())
}

func TestSync_FailFast(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, "carriers.yaml", "carriers:\n  - code: A\n  - code: B\n    title: B\n")

	out, err := e.run(t, "carriers", "sync", "--fail-fast", path)
	require.Error(t, err)
	assert.NotContains(t, out, "#2")
	assert.Empty(t, e.reg.Carriers())
}

func TestSync_YAMLInvalido(t *testing.T) {
	e := newEnv(t)
	path := writeFile(t, "carriers.yaml", "carriers: [::")
	_, err := e.run(t, "carriers", "sync", path)
	assert.Error(t, err)
}

func TestList_Tabla(t *testing.T) {
	e := newEnv(t, entity.NativeCarrier{Code: "FUL", Title: "Fulcrum", Active: true, Stores: []string{"default"}})
	_, err := e.repo.Upsert(context.Background(), "default", entity.CustomizationPatch{"code": "FUL", "price": 9.5})
	require.NoError(t, err)

	out, err := e.run(t, "carriers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "FUL")
	assert.Contains(t, out, "9.5")
}

func TestDelete(t *testing.T) {
	e := newEnv(t, entity.NativeCarrier{Code: "FUL", Title: "Fulcrum"})
	out, err := e.run(t, "carriers", "delete", "FUL")
	require.NoError(t, err)
	assert.Contains(t, out, "FUL: registro=true")
	assert.Empty(t, e.reg.Carriers())
}

// ──────────────────────────────────────────────────────────────────────────────
// operators / resolve
// ──────────────────────────────────────────────────────────────────────────────

func TestOperators_AddYList(t *testing.T) {
	e := newEnv(t)
	t.Setenv("CARRIERCTL_PASSWORD", "secreto-123")

	out, err := e.run(t, "operators", "add", "--email", "ana@example.com", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com (admin)")

	out, err = e.run(t, "operators", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com")
}

func TestResolve_ImprimeOperaciones(t *testing.T) {
	e := newEnv(t, entity.NativeCarrier{Code: "FUL", Title: "Fulcrum", Active: true})
	_, err := e.repo.Upsert(context.Background(), "default", entity.CustomizationPatch{"code": "FUL", "stores": []any{"*"}, "price": 4})
	require.NoError(t, err)
	path := writeFile(t, "cart.yaml", "rateRequest:\n  grand_total: 20\n  store_code: default\n")

	out, err := e.run(t, "resolve", path)
	require.NoError(t, err)

	var ops []dto.ShippingOperation
	require.NoError(t, json.Unmarshal([]byte(out), &ops))
	require.Len(t, ops, 1)
	assert.Equal(t, "FUL", ops[0].Value.CarrierCode)
	assert.Equal(t, 4.0, ops[0].Value.Price)
}
