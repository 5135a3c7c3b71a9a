package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/pkg/apperror"
)

type postgresProfileRepo struct {
	db *pgxpool.Pool
}

func NewPostgresProfileRepo(db *pgxpool.Pool) profile.Repository {
	return &postgresProfileRepo{db: db}
}

func (r *postgresProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT user_id, display_name, target_job, onboarding_completed, resume_url, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	p := &profile.Profile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.DisplayName,
		&p.TargetJob,
		&p.OnboardingCompleted,
		&p.ResumeURL,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// First sign-in: hand back an empty profile instead of an error.
			return &profile.Profile{UserID: userID}, nil
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) Upsert(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, target_job, onboarding_completed, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			target_job = EXCLUDED.target_job,
			onboarding_completed = EXCLUDED.onboarding_completed,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		p.UserID,
		p.DisplayName,
		p.TargetJob,
		p.OnboardingCompleted,
	)
	if err != nil {
		return apperror.NewInternal("failed to upsert profile", err)
	}
	return nil
}

func (r *postgresProfileRepo) SetResumeURL(ctx context.Context, userID uuid.UUID, url string) error {
	query := `
		INSERT INTO profiles (user_id, display_name, target_job, onboarding_completed, resume_url, updated_at)
		VALUES ($1, '', '', FALSE, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			resume_url = EXCLUDED.resume_url,
			updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, userID, url); err != nil {
		return apperror.NewInternal("failed to set resume url", err)
	}
	return nil
}
