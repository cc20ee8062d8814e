package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
)

// DefaultOperatorsKey documento con los operadores del panel.
const DefaultOperatorsKey = "fulcrum/operators.json"

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo implementación del puerto OperatorRepository sobre un ByteStore.
type OperatorRepo struct {
	store repository.ByteStore
	key   string
	locks *keyedMutex
}

// NewOperatorRepository construye el repositorio; key vacío usa DefaultOperatorsKey.
func NewOperatorRepository(store repository.ByteStore, key string) *OperatorRepo {
	if key == "" {
		key = DefaultOperatorsKey
	}
	return &OperatorRepo{store: store, key: key, locks: newKeyedMutex()}
}

func (r *OperatorRepo) load(ctx context.Context) ([]*entity.Operator, error) {
	data, err := r.store.Read(ctx, r.key)
	if errors.Is(err, domain.ErrNotFound) {
		return []*entity.Operator{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer operadores: %w", err)
	}
	var ops []*entity.Operator
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedDocument, r.key, err)
	}
	return ops, nil
}

// Create agrega un operador; el email es único sin distinguir mayúsculas.
func (r *OperatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	unlock := r.locks.Lock(r.key)
	defer unlock()

	ops, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, o := range ops {
		if strings.EqualFold(o.Email, op.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	ops = append(ops, op)
	data, err := json.MarshalIndent(ops, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar operadores: %w", err)
	}
	return r.store.Write(ctx, r.key, data)
}

// FindByEmail devuelve nil, nil si no existe.
func (r *OperatorRepo) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	ops, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range ops {
		if strings.EqualFold(o.Email, strings.TrimSpace(email)) {
			return o, nil
		}
	}
	return nil, nil
}

// List devuelve todos los operadores.
func (r *OperatorRepo) List(ctx context.Context) ([]*entity.Operator, error) {
	return r.load(ctx)
}
