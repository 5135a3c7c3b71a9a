package paths

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/path"
	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/skill"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type GeneratePathsUseCase struct {
	profileRepo profile.Repository
	skillRepo   skill.Repository
	catalogRepo skill.CatalogRepository
	pathRepo    path.Repository
	llm         service.LLMService
	events      service.EventPublisher
	counters    service.DashboardCounters
	logger      logger.Logger
}

func NewGeneratePathsUseCase(
	profileRepo profile.Repository,
	skillRepo skill.Repository,
	catalogRepo skill.CatalogRepository,
	pathRepo path.Repository,
	llm service.LLMService,
	events service.EventPublisher,
	counters service.DashboardCounters,
	log logger.Logger,
) *GeneratePathsUseCase {
	return &GeneratePathsUseCase{
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		catalogRepo: catalogRepo,
		pathRepo:    pathRepo,
		llm:         llm,
		events:      events,
		counters:    counters,
		logger:      log,
	}
}

type GenerateInput struct {
	UserID uuid.UUID
}

type GenerateOutput struct {
	Paths []*path.LearningPath
}

// Execute asks the generator for exactly three learning paths and replaces
// the user's previous generation with them. Nothing is persisted when the
// reply fails validation.
func (uc *GeneratePathsUseCase) Execute(ctx context.Context, input GenerateInput) (*GenerateOutput, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if p.TargetJob == "" {
		return nil, apperror.NewInvalidInput("a target job is required before generating paths", nil)
	}

	userSkills, err := uc.skillRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	skillNames := make([]string, 0, len(userSkills))
	for _, s := range userSkills {
		skillNames = append(skillNames, s.Name)
	}

	raw, err := uc.llm.GenerateJSON(ctx, service.GenerateRequest{
		System:      pathsSystemPrompt,
		Prompt:      buildPathsPrompt(p.TargetJob, skillNames),
		Schema:      learningPathsSchema,
		MaxTokens:   4096,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}

	var reply generatedPaths
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, apperror.NewMalformedReply("failed to decode learning paths", err)
	}

	domainPaths, err := toDomainPaths(input.UserID, reply)
	if err != nil {
		return nil, err
	}

	catalogNames := make([]string, 0)
	for _, dp := range domainPaths {
		for _, s := range dp.Skills {
			catalogNames = append(catalogNames, s.Name)
		}
	}
	if err := uc.catalogRepo.EnsureNames(ctx, catalogNames); err != nil {
		return nil, err
	}

	if err := uc.pathRepo.ReplaceGeneration(ctx, input.UserID, domainPaths); err != nil {
		return nil, err
	}

	// Replacing the generation cascade-deleted all progress rows; the stale
	// counter would overstate the dashboard until it is rebuilt.
	if err := uc.counters.Reset(ctx, input.UserID); err != nil {
		uc.logger.Warn("Failed to reset dashboard counters", zap.Error(err))
	}

	if err := uc.events.PublishLearning(ctx, service.LearningEvent{
		Type:       service.EventPathsGenerated,
		UserID:     input.UserID,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		uc.logger.Warn("Failed to publish paths.generated event", zap.Error(err))
	}

	return &GenerateOutput{Paths: domainPaths}, nil
}

// toDomainPaths re-checks the reply beyond what the JSON schema can express:
// one path per tag, no duplicates.
func toDomainPaths(userID uuid.UUID, reply generatedPaths) ([]*path.LearningPath, error) {
	byType := make(map[path.PathType]generatedPath, len(reply.Paths))
	for _, gp := range reply.Paths {
		t := path.PathType(gp.Type)
		if _, dup := byType[t]; dup {
			return nil, apperror.NewMalformedReply("duplicate path type "+gp.Type, nil)
		}
		byType[t] = gp
	}

	generation := uuid.New()
	now := time.Now().UTC()
	out := make([]*path.LearningPath, 0, len(path.Types))
	for _, t := range path.Types {
		gp, ok := byType[t]
		if !ok {
			return nil, apperror.NewMalformedReply("missing path type "+string(t), nil)
		}
		skills := make([]path.SkillItem, len(gp.Skills))
		for i, s := range gp.Skills {
			skills[i] = path.SkillItem{
				Name:           s.Name,
				Priority:       s.Priority,
				EstimatedHours: s.EstimatedHours,
			}
		}
		out = append(out, &path.LearningPath{
			ID:               uuid.New(),
			UserID:           userID,
			Type:             t,
			Title:            gp.Title,
			Description:      gp.Description,
			Skills:           skills,
			DurationEstimate: gp.DurationEstimate,
			MarketDemand:     gp.MarketDemand,
			Generation:       generation,
			CreatedAt:        now,
		})
	}
	return out, nil
}
