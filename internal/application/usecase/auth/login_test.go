package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/user"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/auth"
	"github.com/minhle/career-os/pkg/logger"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*user.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return apperror.NewConflict("user", "email", u.Email)
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type fakeProfileRepo struct{}

func (fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return &profile.Profile{UserID: userID}, nil
}
func (fakeProfileRepo) Upsert(_ context.Context, _ *profile.Profile) error          { return nil }
func (fakeProfileRepo) SetResumeURL(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func TestLogin_MatchesEmailCaseInsensitively(t *testing.T) {
	userRepo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)

	register := NewRegisterUseCase(userRepo, fakeProfileRepo{}, jwtSvc, logger.NewNop())
	login := NewLoginUseCase(userRepo, jwtSvc, logger.NewNop())

	_, err := register.Execute(context.Background(), RegisterInput{
		Email:    "Alice@Example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	// The user retypes the email exactly as they registered it.
	out, err := login.Execute(context.Background(), LoginInput{
		Email:    "Alice@Example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	out, err = login.Execute(context.Background(), LoginInput{
		Email:    " alice@example.com ",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)

	register := NewRegisterUseCase(userRepo, fakeProfileRepo{}, jwtSvc, logger.NewNop())
	login := NewLoginUseCase(userRepo, jwtSvc, logger.NewNop())

	_, err := register.Execute(context.Background(), RegisterInput{
		Email:    "bob@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	_, err = login.Execute(context.Background(), LoginInput{
		Email:    "bob@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	login := NewLoginUseCase(newFakeUserRepo(), auth.NewJWTService("test-secret", time.Hour), logger.NewNop())

	_, err := login.Execute(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
