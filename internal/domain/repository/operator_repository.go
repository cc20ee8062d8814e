package repository

import (
	"context"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
)

// OperatorRepository define el puerto de persistencia para Operator (DIP).
type OperatorRepository interface {
	Create(ctx context.Context, op *entity.Operator) error
	// FindByEmail devuelve nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.Operator, error)
	List(ctx context.Context) ([]*entity.Operator, error)
}
