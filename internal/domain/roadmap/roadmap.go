package roadmap

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrRoadmapNotFound = errors.New("skill roadmap not found")

type Subtopic struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Topic struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subtopics   []Subtopic `json:"subtopics"`
}

// Roadmap is the per-skill curriculum of a learning path, stored verbatim as
// the generator produced it: an ordered list of topics with subtopics.
type Roadmap struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PathID    uuid.UUID `json:"path_id"`
	SkillName string    `json:"skill_name"`
	Topics    []Topic   `json:"topics"`
	CreatedAt time.Time `json:"created_at"`
}

// FindSubtopic looks up a subtopic by topic and subtopic id.
func (r *Roadmap) FindSubtopic(topicID, subtopicID string) (*Topic, *Subtopic, bool) {
	for ti := range r.Topics {
		t := &r.Topics[ti]
		if t.ID != topicID {
			continue
		}
		for si := range t.Subtopics {
			if t.Subtopics[si].ID == subtopicID {
				return t, &t.Subtopics[si], true
			}
		}
	}
	return nil, nil, false
}

// SubtopicCount returns the total number of subtopics across all topics.
func (r *Roadmap) SubtopicCount() int {
	n := 0
	for _, t := range r.Topics {
		n += len(t.Subtopics)
	}
	return n
}

type Repository interface {
	// Upsert stores the roadmap, overwriting a previous roadmap for the same
	// (user, path, skill).
	Upsert(ctx context.Context, r *Roadmap) error
	GetByID(ctx context.Context, userID, roadmapID uuid.UUID) (*Roadmap, error)
	GetBySkill(ctx context.Context, userID, pathID uuid.UUID, skillName string) (*Roadmap, error)
	ListByPath(ctx context.Context, userID, pathID uuid.UUID) ([]*Roadmap, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
