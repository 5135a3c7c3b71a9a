package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/pkg/apperror"
)

type postgresProgressRepo struct {
	db *pgxpool.Pool
}

func NewPostgresProgressRepo(db *pgxpool.Pool) progress.Repository {
	return &postgresProgressRepo{db: db}
}

func scanProgress(row pgx.Row) (*progress.TopicProgress, error) {
	p := &progress.TopicProgress{}
	var lessonBytes []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.RoadmapID,
		&p.TopicID,
		&p.SubtopicID,
		&p.Completed,
		&p.CompletionPct,
		&lessonBytes,
		&p.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, progress.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to scan progress row: %w", err)
	}

	if len(lessonBytes) > 0 {
		lesson := &progress.LessonContent{}
		if err := json.Unmarshal(lessonBytes, lesson); err == nil {
			p.Lesson = lesson
		}
	}
	return p, nil
}

func (r *postgresProgressRepo) Get(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) (*progress.TopicProgress, error) {
	query := `
		SELECT id, user_id, roadmap_id, topic_id, subtopic_id, completed, completion_pct, lesson_content, completed_at
		FROM topic_progress
		WHERE user_id = $1 AND roadmap_id = $2 AND topic_id = $3 AND subtopic_id = $4
	`
	return scanProgress(r.db.QueryRow(ctx, query, userID, roadmapID, topicID, subtopicID))
}

func (r *postgresProgressRepo) Upsert(ctx context.Context, p *progress.TopicProgress) error {
	var lessonBytes []byte
	if p.Lesson != nil {
		var err error
		lessonBytes, err = json.Marshal(p.Lesson)
		if err != nil {
			return apperror.NewInternal("failed to marshal lesson content", err)
		}
	}

	query := `
		INSERT INTO topic_progress (id, user_id, roadmap_id, topic_id, subtopic_id, completed, completion_pct, lesson_content, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, roadmap_id, topic_id, subtopic_id) DO UPDATE SET
			completed = EXCLUDED.completed,
			completion_pct = EXCLUDED.completion_pct,
			lesson_content = EXCLUDED.lesson_content,
			completed_at = EXCLUDED.completed_at
	`
	if _, err := r.db.Exec(ctx, query,
		p.ID, p.UserID, p.RoadmapID, p.TopicID, p.SubtopicID,
		p.Completed, p.CompletionPct, lessonBytes, p.CompletedAt,
	); err != nil {
		return apperror.NewInternal("failed to upsert topic progress", err)
	}
	return nil
}

func (r *postgresProgressRepo) ListByRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) ([]*progress.TopicProgress, error) {
	query := `
		SELECT id, user_id, roadmap_id, topic_id, subtopic_id, completed, completion_pct, lesson_content, completed_at
		FROM topic_progress
		WHERE user_id = $1 AND roadmap_id = $2
	`
	rows, err := r.db.Query(ctx, query, userID, roadmapID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query topic progress", err)
	}
	defer rows.Close()

	records := make([]*progress.TopicProgress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func (r *postgresProgressRepo) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM topic_progress WHERE user_id = $1 AND completed`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, apperror.NewInternal("failed to count completed subtopics", err)
	}
	return n, nil
}

func (r *postgresProgressRepo) DeleteByRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM topic_progress WHERE user_id = $1 AND roadmap_id = $2`,
		userID, roadmapID,
	); err != nil {
		return apperror.NewInternal("failed to delete roadmap progress", err)
	}
	return nil
}

func (r *postgresProgressRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM topic_progress WHERE user_id = $1`, userID); err != nil {
		return apperror.NewInternal("failed to delete user progress", err)
	}
	return nil
}
