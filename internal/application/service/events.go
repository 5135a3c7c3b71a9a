package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventPathsGenerated    = "paths.generated"
	EventRoadmapGenerated  = "roadmap.generated"
	EventSubtopicCompleted = "subtopic.completed"
	EventQuizGraded        = "quiz.graded"
)

// LearningEvent reports a generation that changed a user's curriculum.
type LearningEvent struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	PathID     uuid.UUID `json:"path_id,omitempty"`
	SkillName  string    `json:"skill_name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProgressEvent reports a completion-state change. The worker folds these
// into per-user dashboard counters.
type ProgressEvent struct {
	Type       string    `json:"type"`
	UserID     uuid.UUID `json:"user_id"`
	RoadmapID  uuid.UUID `json:"roadmap_id"`
	TopicID    string    `json:"topic_id"`
	SubtopicID string    `json:"subtopic_id"`
	ScorePct   int       `json:"score_pct,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher is the outbound port to the event broker. Publishing is
// best-effort: usecases log failures and carry on.
type EventPublisher interface {
	PublishLearning(ctx context.Context, evt LearningEvent) error
	PublishProgress(ctx context.Context, evt ProgressEvent) error
}
