package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fulcrum-shipping/internal/application/dto"
	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación de operadores: alta y login.
type AuthUseCase struct {
	operatorRepo repository.OperatorRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(operatorRepo repository.OperatorRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{operatorRepo: operatorRepo, jwtCfg: jwtCfg}
}

// RegisterOperator crea un operador: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterOperator(ctx context.Context, in dto.RegisterOperatorRequest) (*dto.OperatorResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleViewer
	}
	if role != entity.RoleAdmin && role != entity.RoleViewer {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.operatorRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	op := &entity.Operator{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.operatorRepo.Create(ctx, op); err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// Login verifica email/password, genera JWT y retorna token + operador.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := uc.operatorRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if op.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, op.ID, op.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		Operator: *toOperatorResponse(op),
	}, nil
}

// ListOperators devuelve los operadores sin sus hashes.
func (uc *AuthUseCase) ListOperators(ctx context.Context) ([]dto.OperatorResponse, error) {
	ops, err := uc.operatorRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OperatorResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, *toOperatorResponse(op))
	}
	return out, nil
}

func toOperatorResponse(o *entity.Operator) *dto.OperatorResponse {
	if o == nil {
		return nil
	}
	return &dto.OperatorResponse{
		ID:        o.ID,
		Email:     o.Email,
		Name:      o.Name,
		Role:      o.Role,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
