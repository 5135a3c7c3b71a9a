package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the onboarding state of a single user: who they are and what
// job they are working toward. One row per user, created on first sign-up.
type Profile struct {
	UserID              uuid.UUID `json:"user_id"`
	DisplayName         string    `json:"display_name"`
	TargetJob           string    `json:"target_job"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	ResumeURL           *string   `json:"resume_url,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Repository interface {
	// GetByUserID returns the stored profile, or a zero-value profile for the
	// user when none exists yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	SetResumeURL(ctx context.Context, userID uuid.UUID, url string) error
}
