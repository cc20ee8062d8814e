package auth_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulcrum-shipping/internal/application/auth"
	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/infrastructure/filestore"
	pkgjwt "github.com/jhoicas/fulcrum-shipping/pkg/jwt"
)

const secret = "test-secret"

func newUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	s, err := filestore.NewFSStoreWithFs(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	repo := filestore.NewOperatorRepository(s, "")
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "fulcrum-test"})
}

func TestRegisterYLogin(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	op, err := uc.RegisterOperator(ctx, dto.RegisterOperatorRequest{Email: "ana@example.com", Password: "secreto-123", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", op.Name, "sin nombre se usa el email")
	assert.Equal(t, "active", op.Status)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "secreto-123"})
	require.NoError(t, err)
	assert.Equal(t, op.ID, resp.Operator.ID)

	userID, role, err := pkgjwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestRegister_Validaciones(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.RegisterOperator(ctx, dto.RegisterOperatorRequest{Email: "a@example.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterOperator(ctx, dto.RegisterOperatorRequest{Email: "a@example.com", Password: "secreto-123", Role: "bodeguero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	op, err := uc.RegisterOperator(ctx, dto.RegisterOperatorRequest{Email: "a@example.com", Password: "secreto-123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, op.Role, "rol por defecto")

	_, err = uc.RegisterOperator(ctx, dto.RegisterOperatorRequest{Email: "A@example.com", Password: "secreto-456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_Fallos(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.RegisterOperator(ctx, dto.RegisterOperatorRequest{Email: "a@example.com", Password: "secreto-123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListOperators_SinHash(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.RegisterOperator(ctx, dto.RegisterOperatorRequest{Email: "a@example.com", Password: "secreto-123"})
	require.NoError(t, err)

	ops, err := uc.ListOperators(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "a@example.com", ops[0].Email)
}
