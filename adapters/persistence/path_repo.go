package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/domain/path"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type postgresPathRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPathRepo(db *pgxpool.Pool, logger logger.Logger) path.Repository {
	return &postgresPathRepo{db: db, logger: logger}
}

const pathColumns = `id, user_id, path_type, title, description, skills, duration_estimate, market_demand, is_selected, generation, created_at`

func scanPath(row pgx.Row) (*path.LearningPath, error) {
	p := &path.LearningPath{}
	var skillsBytes []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Type,
		&p.Title,
		&p.Description,
		&skillsBytes,
		&p.DurationEstimate,
		&p.MarketDemand,
		&p.IsSelected,
		&p.Generation,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, path.ErrPathNotFound
		}
		return nil, fmt.Errorf("failed to scan learning path row: %w", err)
	}

	if err := json.Unmarshal(skillsBytes, &p.Skills); err != nil {
		p.Skills = []path.SkillItem{}
	}
	return p, nil
}

func (r *postgresPathRepo) ReplaceGeneration(ctx context.Context, userID uuid.UUID, paths []*path.LearningPath) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	// Roadmaps and progress hang off learning_paths with ON DELETE CASCADE,
	// so replacing the generation also clears derived state.
	if _, err := tx.Exec(ctx, `DELETE FROM learning_paths WHERE user_id = $1`, userID); err != nil {
		return apperror.NewInternal("failed to delete previous generation", err)
	}

	for _, p := range paths {
		skillsBytes, err := json.Marshal(p.Skills)
		if err != nil {
			return apperror.NewInternal("failed to marshal path skills", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO learning_paths (`+pathColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, p.ID, p.UserID, p.Type, p.Title, p.Description, skillsBytes,
			p.DurationEstimate, p.MarketDemand, p.IsSelected, p.Generation, p.CreatedAt,
		); err != nil {
			return apperror.NewInternal("failed to insert learning path", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit path generation", err)
	}

	r.logger.Info("Replaced learning path generation",
		zap.String("user_id", userID.String()), zap.Int("paths", len(paths)))
	return nil
}

func (r *postgresPathRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*path.LearningPath, error) {
	query, args, err := psql.Select(pathColumns).
		From("learning_paths").
		Where("user_id = ?", userID).
		OrderBy("array_position(ARRAY['recommended','easier','professional'], path_type)").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build path query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query learning paths", err)
	}
	defer rows.Close()

	paths := make([]*path.LearningPath, 0)
	for rows.Next() {
		p, err := scanPath(rows)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (r *postgresPathRepo) GetByID(ctx context.Context, userID, pathID uuid.UUID) (*path.LearningPath, error) {
	query, args, err := psql.Select(pathColumns).
		From("learning_paths").
		Where("user_id = ? AND id = ?", userID, pathID).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build path query", err)
	}
	return scanPath(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresPathRepo) Select(ctx context.Context, userID, pathID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE learning_paths SET is_selected = FALSE WHERE user_id = $1 AND is_selected`,
		userID,
	); err != nil {
		return apperror.NewInternal("failed to clear previous selection", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE learning_paths SET is_selected = TRUE WHERE user_id = $1 AND id = $2`,
		userID, pathID,
	)
	if err != nil {
		return apperror.NewInternal("failed to select learning path", err)
	}
	if tag.RowsAffected() == 0 {
		return path.ErrPathNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit path selection", err)
	}
	return nil
}

func (r *postgresPathRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM learning_paths WHERE user_id = $1`, userID); err != nil {
		return apperror.NewInternal("failed to delete learning paths", err)
	}
	return nil
}
