package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProgressNotFound = errors.New("topic progress not found")

type LessonSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LessonContent is the lazily generated lesson for one subtopic. The section
// title list is fixed on the first generation; sections fill in one call at a
// time and are never regenerated.
type LessonContent struct {
	SectionTitles []string        `json:"section_titles"`
	Sections      []LessonSection `json:"sections"`
}

// Complete reports whether every planned section has content.
func (lc *LessonContent) Complete() bool {
	return len(lc.SectionTitles) > 0 && len(lc.Sections) >= len(lc.SectionTitles)
}

// TopicProgress is the completion record for a single subtopic within a
// roadmap, unique per (user, roadmap, topic, subtopic).
type TopicProgress struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	RoadmapID     uuid.UUID      `json:"roadmap_id"`
	TopicID       string         `json:"topic_id"`
	SubtopicID    string         `json:"subtopic_id"`
	Completed     bool           `json:"completed"`
	CompletionPct int            `json:"completion_pct"`
	Lesson        *LessonContent `json:"lesson,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// Summary is the per-roadmap aggregate driving the dashboard.
type Summary struct {
	RoadmapID          uuid.UUID `json:"roadmap_id"`
	SkillName          string    `json:"skill_name"`
	CompletedSubtopics int       `json:"completed_subtopics"`
	TotalSubtopics     int       `json:"total_subtopics"`
}

type Repository interface {
	Get(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) (*TopicProgress, error)
	Upsert(ctx context.Context, p *TopicProgress) error
	ListByRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) ([]*TopicProgress, error)
	CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteByRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
