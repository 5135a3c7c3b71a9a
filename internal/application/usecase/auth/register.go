package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/user"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/auth"
	"github.com/minhle/career-os/pkg/logger"
)

type RegisterUseCase struct {
	userRepo    user.Repository
	profileRepo profile.Repository
	jwtSvc      *auth.JWTService
	logger      logger.Logger
}

func NewRegisterUseCase(userRepo user.Repository, profileRepo profile.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtSvc:      jwtSvc,
		logger:      log,
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type RegisterOutput struct {
	UserID      uuid.UUID
	AccessToken string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || len(input.Password) < 8 {
		return nil, apperror.NewInvalidInput("email is required and password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	// Profile row exists from first sign-in; onboarding fills it in later.
	p := &profile.Profile{
		UserID:      u.ID,
		DisplayName: input.Name,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := uc.profileRepo.Upsert(ctx, p); err != nil {
		uc.logger.Error("Failed to create initial profile", err, zap.String("user_id", u.ID.String()))
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	return &RegisterOutput{UserID: u.ID, AccessToken: token}, nil
}

var ErrInvalidCredentials = errors.New("email or password is incorrect")
