// Package bootstrap arma los casos de uso a partir de la configuración; lo comparten el
// servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fulcrum-shipping/internal/application/auth"
	"github.com/jhoicas/fulcrum-shipping/internal/application/carrier"
	"github.com/jhoicas/fulcrum-shipping/internal/application/resolution"
	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/shipping"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/commerce"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/postgres"
	"github.com/jhoicas/fulcrum-shipping/pkg/config"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// App casos de uso listos para inyectar.
type App struct {
	StoreKey    string
	Registry    repository.CarrierRegistry
	Repo        repository.CustomizationRepository
	Operators   repository.OperatorRepository
	ResolveUC   *resolution.ResolveUseCase
	ReconcileUC *carrier.ReconcileUseCase
	AdminUC     *carrier.AdminUseCase
	AuthUC      *auth.AuthUseCase

	close func()
}

// Close libera las conexiones del almacenamiento.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// ShippingConfig traduce la sección SHIPPING_* a la configuración del evaluador.
func ShippingConfig(cfg config.ShippingConfig) (shipping.Config, error) {
	store, err := shipping.ParseStorePolicy(cfg.StorePolicy)
	if err != nil {
		return shipping.Config{}, err
	}
	group, err := shipping.ParseGroupPolicy(cfg.GroupPolicy)
	if err != nil {
		return shipping.Config{}, err
	}
	return shipping.Config{
		DefaultPrice: decimal.NewFromFloat(cfg.DefaultPrice),
		Policy: shipping.FilterPolicy{
			Store:       store,
			Group:       group,
			GuestGating: cfg.GuestGating,
		},
	}, nil
}

// New construye almacenamiento, registro y casos de uso. Sin COMMERCE_BASE_URL el registro
// queda nil: la resolución responde con el centinela de configuración y la API con 503.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	shipCfg, err := ShippingConfig(cfg.Shipping)
	if err != nil {
		return nil, err
	}

	store, closer, err := filestore.NewByteStore(ctx, cfg.Storage, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("almacenamiento %q: %w", cfg.Storage.Type, err)
	}
	repo := filestore.NewCustomizationRepository(store, cfg.Storage.Prefix, log.Component("customizations"))
	operators, err := operatorRepository(ctx, store)
	if err != nil {
		closer()
		return nil, err
	}

	var registry repository.CarrierRegistry
	client, err := commerce.NewClient(cfg.Commerce, log.Component("commerce"))
	switch {
	case err == nil:
		registry = client
	case errors.Is(err, domain.ErrMissingConfig):
		log.Warn().Msg("COMMERCE_BASE_URL no configurado; el registro de transportadoras queda deshabilitado")
	default:
		closer()
		return nil, err
	}

	storeKey := filestore.NormalizeStoreKey(cfg.Storage.StoreKey)
	return &App{
		StoreKey:    storeKey,
		Registry:    registry,
		Repo:        repo,
		Operators:   operators,
		ResolveUC:   resolution.NewResolveUseCase(registry, repo, storeKey, shipCfg, log.Component("resolution")),
		ReconcileUC: carrier.NewReconcileUseCase(registry, repo, log.Component("reconcile")),
		AdminUC:     carrier.NewAdminUseCase(registry, repo, log.Component("admin")),
		AuthUC: auth.NewAuthUseCase(operators, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		close: closer,
	}, nil
}

// operatorRepository usa una tabla propia cuando el almacenamiento es PostgreSQL; en el
// resto de backends los operadores viven en un documento JSON.
func operatorRepository(ctx context.Context, store repository.ByteStore) (repository.OperatorRepository, error) {
	if fs, ok := store.(*postgres.FileStore); ok {
		repo := postgres.NewOperatorRepository(fs.Querier())
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	}
	return filestore.NewOperatorRepository(store, ""), nil
}
