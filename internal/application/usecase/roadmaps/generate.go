package roadmaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/path"
	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type GenerateRoadmapUseCase struct {
	profileRepo  profile.Repository
	pathRepo     path.Repository
	roadmapRepo  roadmap.Repository
	progressRepo progress.Repository
	llm          service.LLMService
	events       service.EventPublisher
	counters     service.DashboardCounters
	logger       logger.Logger
}

func NewGenerateRoadmapUseCase(
	profileRepo profile.Repository,
	pathRepo path.Repository,
	roadmapRepo roadmap.Repository,
	progressRepo progress.Repository,
	llm service.LLMService,
	events service.EventPublisher,
	counters service.DashboardCounters,
	log logger.Logger,
) *GenerateRoadmapUseCase {
	return &GenerateRoadmapUseCase{
		profileRepo:  profileRepo,
		pathRepo:     pathRepo,
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		llm:          llm,
		events:       events,
		counters:     counters,
		logger:       log,
	}
}

type GenerateInput struct {
	UserID    uuid.UUID
	PathID    uuid.UUID
	SkillName string
}

type GenerateOutput struct {
	Roadmap *roadmap.Roadmap
}

// Execute generates (or regenerates) the roadmap for one skill of a learning
// path. The generator's topic structure is persisted verbatim; regeneration
// overwrites the blob and clears the roadmap's progress.
func (uc *GenerateRoadmapUseCase) Execute(ctx context.Context, input GenerateInput) (*GenerateOutput, error) {
	lp, err := uc.pathRepo.GetByID(ctx, input.UserID, input.PathID)
	if err != nil {
		if errors.Is(err, path.ErrPathNotFound) {
			return nil, apperror.NewNotFound("learning path", input.PathID.String())
		}
		return nil, err
	}
	if !lp.HasSkill(input.SkillName) {
		return nil, apperror.NewInvalidInput(
			fmt.Sprintf("skill %q is not part of this learning path", input.SkillName), nil)
	}

	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	raw, err := uc.llm.GenerateJSON(ctx, service.GenerateRequest{
		System:      roadmapSystemPrompt,
		Prompt:      buildRoadmapPrompt(input.SkillName, p.TargetJob),
		Schema:      roadmapSchema,
		MaxTokens:   4096,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}

	var reply generatedRoadmap
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, apperror.NewMalformedReply("failed to decode roadmap", err)
	}

	rm := &roadmap.Roadmap{
		UserID:    input.UserID,
		PathID:    input.PathID,
		SkillName: input.SkillName,
		Topics:    toDomainTopics(reply),
		CreatedAt: time.Now().UTC(),
	}

	// Regeneration keeps the existing roadmap id; a first generation mints one.
	existing, err := uc.roadmapRepo.GetBySkill(ctx, input.UserID, input.PathID, input.SkillName)
	switch {
	case err == nil:
		rm.ID = existing.ID
		if err := uc.progressRepo.DeleteByRoadmap(ctx, input.UserID, existing.ID); err != nil {
			return nil, err
		}
		// Completed rows just went away; drop the counter so the dashboard
		// falls back to the database until the worker re-seeds it.
		if err := uc.counters.Reset(ctx, input.UserID); err != nil {
			uc.logger.Warn("Failed to reset dashboard counters", zap.Error(err))
		}
	case errors.Is(err, roadmap.ErrRoadmapNotFound):
		rm.ID = uuid.New()
	default:
		return nil, err
	}

	if err := uc.roadmapRepo.Upsert(ctx, rm); err != nil {
		return nil, err
	}

	if err := uc.events.PublishLearning(ctx, service.LearningEvent{
		Type:       service.EventRoadmapGenerated,
		UserID:     input.UserID,
		PathID:     input.PathID,
		SkillName:  input.SkillName,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		uc.logger.Warn("Failed to publish roadmap.generated event", zap.Error(err))
	}

	return &GenerateOutput{Roadmap: rm}, nil
}

func toDomainTopics(reply generatedRoadmap) []roadmap.Topic {
	topics := make([]roadmap.Topic, len(reply.Topics))
	for ti, gt := range reply.Topics {
		subtopics := make([]roadmap.Subtopic, len(gt.Subtopics))
		for si, gs := range gt.Subtopics {
			subtopics[si] = roadmap.Subtopic{
				ID:          fmt.Sprintf("t%d-s%d", ti+1, si+1),
				Title:       gs.Title,
				Description: gs.Description,
			}
		}
		topics[ti] = roadmap.Topic{
			ID:          fmt.Sprintf("t%d", ti+1),
			Title:       gt.Title,
			Description: gt.Description,
			Subtopics:   subtopics,
		}
	}
	return topics
}

type GetRoadmapUseCase struct {
	roadmapRepo roadmap.Repository
}

func NewGetRoadmapUseCase(roadmapRepo roadmap.Repository) *GetRoadmapUseCase {
	return &GetRoadmapUseCase{roadmapRepo: roadmapRepo}
}

func (uc *GetRoadmapUseCase) Execute(ctx context.Context, userID, roadmapID uuid.UUID) (*roadmap.Roadmap, error) {
	rm, err := uc.roadmapRepo.GetByID(ctx, userID, roadmapID)
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return nil, apperror.NewNotFound("roadmap", roadmapID.String())
		}
		return nil, err
	}
	return rm, nil
}

func (uc *GetRoadmapUseCase) ExecuteList(ctx context.Context, userID, pathID uuid.UUID) ([]*roadmap.Roadmap, error) {
	return uc.roadmapRepo.ListByPath(ctx, userID, pathID)
}
