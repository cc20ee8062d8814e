package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

const operatorsSchemaSQL = `
	CREATE TABLE IF NOT EXISTS fulcrum_operators (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		status        TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS fulcrum_operators_email_idx ON fulcrum_operators (lower(email))`

const operatorColumns = `id, email, password_hash, name, role, status, created_at, updated_at`

// OperatorRepo implementación del puerto OperatorRepository sobre PostgreSQL.
type OperatorRepo struct {
	q Querier
}

// NewOperatorRepository construye el adaptador de persistencia para operadores.
func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// EnsureSchema crea la tabla y el índice único por email.
func (r *OperatorRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, operatorsSchemaSQL); err != nil {
		return fmt.Errorf("crear tabla fulcrum_operators: %w", err)
	}
	return nil
}

// Create persiste un nuevo operador.
func (r *OperatorRepo) Create(ctx context.Context, op *entity.Operator) error {
	query := `INSERT INTO fulcrum_operators (` + operatorColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Email, op.PasswordHash, op.Name, op.Role, op.Status, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert operator: %w", err)
	}
	return nil
}

// FindByEmail busca sin distinguir mayúsculas; nil, nil si no existe.
func (r *OperatorRepo) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM fulcrum_operators WHERE lower(email) = $1 LIMIT 1`
	var o entity.Operator
	err := r.q.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&o.ID, &o.Email, &o.PasswordHash, &o.Name, &o.Role, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator by email: %w", err)
	}
	return &o, nil
}

// List operadores por fecha de alta.
func (r *OperatorRepo) List(ctx context.Context) ([]*entity.Operator, error) {
	rows, err := r.q.Query(ctx, `SELECT `+operatorColumns+` FROM fulcrum_operators ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operator
	for rows.Next() {
		var o entity.Operator
		if err := rows.Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Name, &o.Role, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan operator: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
