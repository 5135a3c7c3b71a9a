package maintenance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/pkg/logger"
)

// Resetter wipes a user's generated learning data in one transaction.
type Resetter interface {
	ResetUserData(ctx context.Context, userID uuid.UUID) error
}

type ResetUseCase struct {
	resetter Resetter
	counters service.DashboardCounters
	logger   logger.Logger
}

func NewResetUseCase(resetter Resetter, counters service.DashboardCounters, log logger.Logger) *ResetUseCase {
	return &ResetUseCase{resetter: resetter, counters: counters, logger: log}
}

// Execute removes paths, roadmaps, progress, and skills, and reopens
// onboarding. The account and profile survive.
func (uc *ResetUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	if err := uc.resetter.ResetUserData(ctx, userID); err != nil {
		return err
	}
	if err := uc.counters.Reset(ctx, userID); err != nil {
		uc.logger.Warn("Failed to reset dashboard counters", zap.Error(err))
	}
	return nil
}
