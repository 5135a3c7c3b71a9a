package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/career-os/pkg/apperror"
)

// MaintenanceRepo holds the bulk operations that cross aggregate boundaries.
type MaintenanceRepo struct {
	db *pgxpool.Pool
}

func NewMaintenanceRepo(db *pgxpool.Pool) *MaintenanceRepo {
	return &MaintenanceRepo{db: db}
}

// ResetUserData removes the user's generated data in one transaction: paths
// (roadmaps and progress follow by cascade) and skills. Profile and account
// are kept.
func (r *MaintenanceRepo) ResetUserData(ctx context.Context, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin reset transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM learning_paths WHERE user_id = $1`, userID); err != nil {
		return apperror.NewInternal("failed to delete learning paths", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
		return apperror.NewInternal("failed to delete user skills", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE profiles SET onboarding_completed = FALSE, updated_at = NOW() WHERE user_id = $1`,
		userID,
	); err != nil {
		return apperror.NewInternal("failed to reset onboarding flag", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit reset", err)
	}
	return nil
}
