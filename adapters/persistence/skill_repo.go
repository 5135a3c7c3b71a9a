package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/career-os/internal/domain/skill"
	"github.com/minhle/career-os/pkg/apperror"
)

type postgresSkillRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSkillRepo(db *pgxpool.Pool) skill.Repository {
	return &postgresSkillRepo{db: db}
}

func (r *postgresSkillRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*skill.UserSkill, error) {
	query, args, err := psql.Select("id", "user_id", "skill_name", "source", "created_at").
		From("user_skills").
		Where("user_id = ?", userID).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build skill query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query user skills", err)
	}
	defer rows.Close()

	skills := make([]*skill.UserSkill, 0)
	for rows.Next() {
		s := &skill.UserSkill{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Source, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *postgresSkillRepo) ReplaceManual(ctx context.Context, userID uuid.UUID, names []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM user_skills WHERE user_id = $1 AND source = $2`,
		userID, skill.SourceManual,
	); err != nil {
		return apperror.NewInternal("failed to clear manual skills", err)
	}

	for _, name := range names {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_skills (id, user_id, skill_name, source, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, skill_name) DO NOTHING
		`, uuid.New(), userID, name, skill.SourceManual, time.Now().UTC()); err != nil {
			return apperror.NewInternal("failed to insert manual skill", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit skill replacement", err)
	}
	return nil
}

func (r *postgresSkillRepo) MergeResume(ctx context.Context, userID uuid.UUID, names []string) error {
	for _, name := range names {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO user_skills (id, user_id, skill_name, source, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, skill_name) DO NOTHING
		`, uuid.New(), userID, name, skill.SourceResume, time.Now().UTC()); err != nil {
			return apperror.NewInternal("failed to merge resume skill", err)
		}
	}
	return nil
}

func (r *postgresSkillRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
		return apperror.NewInternal("failed to delete user skills", err)
	}
	return nil
}

type postgresCatalogRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepo(db *pgxpool.Pool) skill.CatalogRepository {
	return &postgresCatalogRepo{db: db}
}

func (r *postgresCatalogRepo) EnsureNames(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO skill_catalog (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, name); err != nil {
			return apperror.NewInternal("failed to upsert catalog skill", err)
		}
	}
	return nil
}

func (r *postgresCatalogRepo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM skill_catalog ORDER BY name`)
	if err != nil {
		return nil, apperror.NewInternal("failed to query skill catalog", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
