package path

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPathNotFound = errors.New("learning path not found")

type PathType string

const (
	TypeRecommended  PathType = "recommended"
	TypeEasier       PathType = "easier"
	TypeProfessional PathType = "professional"
)

// Types lists the three path variants every generation must produce, in
// presentation order.
var Types = []PathType{TypeRecommended, TypeEasier, TypeProfessional}

// SkillItem is one skill inside a learning path, with the generator's
// ordering hints.
type SkillItem struct {
	Name           string `json:"name"`
	Priority       int    `json:"priority"`
	EstimatedHours int    `json:"estimated_hours"`
}

// LearningPath is one of the three AI-proposed curricula for a user.
// Paths from the same request share a generation id; persisting a new
// generation replaces the previous one wholesale.
type LearningPath struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"user_id"`
	Type             PathType    `json:"type"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Skills           []SkillItem `json:"skills"`
	DurationEstimate string      `json:"duration_estimate"`
	MarketDemand     string      `json:"market_demand"`
	IsSelected       bool        `json:"is_selected"`
	Generation       uuid.UUID   `json:"generation"`
	CreatedAt        time.Time   `json:"created_at"`
}

// HasSkill reports whether the path includes the named skill.
func (p *LearningPath) HasSkill(name string) bool {
	for _, s := range p.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

type Repository interface {
	// ReplaceGeneration atomically deletes the user's previous paths (and,
	// via cascade, their roadmaps and progress) and inserts the new ones.
	ReplaceGeneration(ctx context.Context, userID uuid.UUID, paths []*LearningPath) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*LearningPath, error)
	GetByID(ctx context.Context, userID, pathID uuid.UUID) (*LearningPath, error)
	// Select marks the given path selected and clears any previous selection
	// in the same transaction.
	Select(ctx context.Context, userID, pathID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
