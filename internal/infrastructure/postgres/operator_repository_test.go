package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/postgres"
)

// stubQuerier devuelve respuestas fijas y guarda los argumentos recibidos.
type stubQuerier struct {
	execErr error
	row     pgx.Row
	args    []any
}

func (s *stubQuerier) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	s.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), s.execErr
}

func (s *stubQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no soportado")
}

func (s *stubQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	s.args = args
	return s.row
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestOperatorRepo_EmailDuplicado(t *testing.T) {
	q := &stubQuerier{execErr: &pgconn.PgError{Code: "23505"}}
	repo := postgres.NewOperatorRepository(q)

	err := repo.Create(context.Background(), &entity.Operator{ID: "1", Email: "a@example.com", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestOperatorRepo_CreateErrorGenerico(t *testing.T) {
	q := &stubQuerier{execErr: errors.New("conexión cerrada")}
	err := postgres.NewOperatorRepository(q).Create(context.Background(), &entity.Operator{ID: "1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestOperatorRepo_FindByEmailNormaliza(t *testing.T) {
	q := &stubQuerier{row: errRow{err: pgx.ErrNoRows}}
	op, err := postgres.NewOperatorRepository(q).FindByEmail(context.Background(), "  Ana@Example.com ")
	require.NoError(t, err)
	assert.Nil(t, op)
	assert.Equal(t, []any{"ana@example.com"}, q.args)
}
