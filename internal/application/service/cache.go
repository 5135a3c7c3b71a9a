package service

import (
	"context"

	"github.com/google/uuid"
)

// LessonCache is the fast-path copy of generated lesson content, keyed by
// (user, roadmap, topic, subtopic). The progress row in Postgres stays the
// durable copy; a cache miss is never an error.
type LessonCache interface {
	GetLesson(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) ([]byte, bool, error)
	SetLesson(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string, payload []byte) error
}

// QuizCache holds the last generated quiz per subtopic so grading can check
// answers against what was actually delivered.
type QuizCache interface {
	GetQuiz(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) ([]byte, bool, error)
	SetQuiz(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string, payload []byte) error
}

// DashboardCounters are the worker-maintained per-user counters shown on the
// dashboard. Reads fall back to the database when the counter is cold.
// Whatever deletes progress rows must Reset the counter; the worker re-seeds
// a missing counter from the database on the next completion event.
type DashboardCounters interface {
	IncrCompleted(ctx context.Context, userID uuid.UUID) error
	GetCompleted(ctx context.Context, userID uuid.UUID) (int, bool, error)
	SetCompleted(ctx context.Context, userID uuid.UUID, count int) error
	Reset(ctx context.Context, userID uuid.UUID) error
}
