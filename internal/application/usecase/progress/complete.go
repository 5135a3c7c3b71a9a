package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type CompleteSubtopicUseCase struct {
	roadmapRepo  roadmap.Repository
	progressRepo progress.Repository
	events       service.EventPublisher
	logger       logger.Logger
}

func NewCompleteSubtopicUseCase(
	roadmapRepo roadmap.Repository,
	progressRepo progress.Repository,
	events service.EventPublisher,
	log logger.Logger,
) *CompleteSubtopicUseCase {
	return &CompleteSubtopicUseCase{
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		events:       events,
		logger:       log,
	}
}

type CompleteInput struct {
	UserID     uuid.UUID
	RoadmapID  uuid.UUID
	TopicID    string
	SubtopicID string
}

type CompleteOutput struct {
	Progress *progress.TopicProgress
	// AlreadyCompleted is true when the call changed nothing.
	AlreadyCompleted bool
}

// Execute marks a subtopic complete. Completion pins the percentage at 100
// and is idempotent: repeated calls return the original record untouched,
// including its timestamp.
func (uc *CompleteSubtopicUseCase) Execute(ctx context.Context, input CompleteInput) (*CompleteOutput, error) {
	rm, err := uc.roadmapRepo.GetByID(ctx, input.UserID, input.RoadmapID)
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return nil, apperror.NewNotFound("roadmap", input.RoadmapID.String())
		}
		return nil, err
	}
	if _, _, ok := rm.FindSubtopic(input.TopicID, input.SubtopicID); !ok {
		return nil, apperror.NewNotFound("subtopic", input.TopicID+"/"+input.SubtopicID)
	}

	rec, err := uc.progressRepo.Get(ctx, input.UserID, input.RoadmapID, input.TopicID, input.SubtopicID)
	if err != nil {
		if !errors.Is(err, progress.ErrProgressNotFound) {
			return nil, err
		}
		rec = &progress.TopicProgress{
			ID:         uuid.New(),
			UserID:     input.UserID,
			RoadmapID:  input.RoadmapID,
			TopicID:    input.TopicID,
			SubtopicID: input.SubtopicID,
		}
	}

	if rec.Completed {
		return &CompleteOutput{Progress: rec, AlreadyCompleted: true}, nil
	}

	now := time.Now().UTC()
	rec.Completed = true
	rec.CompletionPct = 100
	rec.CompletedAt = &now

	if err := uc.progressRepo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	if err := uc.events.PublishProgress(ctx, service.ProgressEvent{
		Type:       service.EventSubtopicCompleted,
		UserID:     input.UserID,
		RoadmapID:  input.RoadmapID,
		TopicID:    input.TopicID,
		SubtopicID: input.SubtopicID,
		OccurredAt: now,
	}); err != nil {
		uc.logger.Warn("Failed to publish subtopic.completed event", zap.Error(err))
	}

	return &CompleteOutput{Progress: rec}, nil
}
