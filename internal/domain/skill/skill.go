package skill

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Source string

const (
	SourceManual Source = "manual"
	SourceResume Source = "resume"
)

// UserSkill is a skill a user claims to have, unique per (user, name).
type UserSkill struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserSkill, error)
	// ReplaceManual swaps the user's manually selected skills for the given
	// set, leaving resume-sourced skills untouched.
	ReplaceManual(ctx context.Context, userID uuid.UUID, names []string) error
	// MergeResume inserts resume-extracted skills, skipping names the user
	// already has from any source.
	MergeResume(ctx context.Context, userID uuid.UUID, names []string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// CatalogRepository maintains the global skill catalog that learning path
// skills must belong to. Names proposed by the generator are upserted so the
// subset invariant holds by construction.
type CatalogRepository interface {
	EnsureNames(ctx context.Context, names []string) error
	ListNames(ctx context.Context) ([]string, error)
}
