package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/apperror"
)

type postgresRoadmapRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRoadmapRepo(db *pgxpool.Pool) roadmap.Repository {
	return &postgresRoadmapRepo{db: db}
}

func scanRoadmap(row pgx.Row) (*roadmap.Roadmap, error) {
	rm := &roadmap.Roadmap{}
	var topicsBytes []byte

	err := row.Scan(
		&rm.ID,
		&rm.UserID,
		&rm.PathID,
		&rm.SkillName,
		&topicsBytes,
		&rm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roadmap.ErrRoadmapNotFound
		}
		return nil, fmt.Errorf("failed to scan roadmap row: %w", err)
	}

	if err := json.Unmarshal(topicsBytes, &rm.Topics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roadmap topics: %w", err)
	}
	return rm, nil
}

func (r *postgresRoadmapRepo) Upsert(ctx context.Context, rm *roadmap.Roadmap) error {
	topicsBytes, err := json.Marshal(rm.Topics)
	if err != nil {
		return apperror.NewInternal("failed to marshal roadmap topics", err)
	}

	// Regenerating keeps the original roadmap id so progress rows for the
	// old content are removed by the caller, not orphaned.
	query := `
		INSERT INTO skill_roadmaps (id, user_id, path_id, skill_name, topics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, path_id, skill_name) DO UPDATE SET
			topics = EXCLUDED.topics,
			created_at = EXCLUDED.created_at
	`
	if _, err := r.db.Exec(ctx, query,
		rm.ID, rm.UserID, rm.PathID, rm.SkillName, topicsBytes, rm.CreatedAt,
	); err != nil {
		return apperror.NewInternal("failed to upsert roadmap", err)
	}
	return nil
}

func (r *postgresRoadmapRepo) GetByID(ctx context.Context, userID, roadmapID uuid.UUID) (*roadmap.Roadmap, error) {
	query := `
		SELECT id, user_id, path_id, skill_name, topics, created_at
		FROM skill_roadmaps
		WHERE user_id = $1 AND id = $2
	`
	return scanRoadmap(r.db.QueryRow(ctx, query, userID, roadmapID))
}

func (r *postgresRoadmapRepo) GetBySkill(ctx context.Context, userID, pathID uuid.UUID, skillName string) (*roadmap.Roadmap, error) {
	query := `
		SELECT id, user_id, path_id, skill_name, topics, created_at
		FROM skill_roadmaps
		WHERE user_id = $1 AND path_id = $2 AND skill_name = $3
	`
	return scanRoadmap(r.db.QueryRow(ctx, query, userID, pathID, skillName))
}

func (r *postgresRoadmapRepo) ListByPath(ctx context.Context, userID, pathID uuid.UUID) ([]*roadmap.Roadmap, error) {
	query := `
		SELECT id, user_id, path_id, skill_name, topics, created_at
		FROM skill_roadmaps
		WHERE user_id = $1 AND path_id = $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID, pathID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query roadmaps", err)
	}
	defer rows.Close()

	roadmaps := make([]*roadmap.Roadmap, 0)
	for rows.Next() {
		rm, err := scanRoadmap(rows)
		if err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, rm)
	}
	return roadmaps, rows.Err()
}

func (r *postgresRoadmapRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM skill_roadmaps WHERE user_id = $1`, userID); err != nil {
		return apperror.NewInternal("failed to delete roadmaps", err)
	}
	return nil
}
