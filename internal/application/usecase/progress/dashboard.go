package progress

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/path"
	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/logger"
)

type DashboardUseCase struct {
	profileRepo  profile.Repository
	pathRepo     path.Repository
	roadmapRepo  roadmap.Repository
	progressRepo progress.Repository
	counters     service.DashboardCounters
	logger       logger.Logger
}

func NewDashboardUseCase(
	profileRepo profile.Repository,
	pathRepo path.Repository,
	roadmapRepo roadmap.Repository,
	progressRepo progress.Repository,
	counters service.DashboardCounters,
	log logger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		profileRepo:  profileRepo,
		pathRepo:     pathRepo,
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		counters:     counters,
		logger:       log,
	}
}

type DashboardOutput struct {
	Profile            *profile.Profile
	SelectedPath       *path.LearningPath
	Summaries          []progress.Summary
	CompletedSubtopics int
}

// Execute assembles the dashboard: profile, selected path, per-roadmap
// summaries, and the completed counter. The counter comes from the
// worker-maintained Redis value when warm, otherwise from the database.
func (uc *DashboardUseCase) Execute(ctx context.Context, userID uuid.UUID) (*DashboardOutput, error) {
	p, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &DashboardOutput{Profile: p, Summaries: []progress.Summary{}}

	pathsList, err := uc.pathRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, lp := range pathsList {
		if lp.IsSelected {
			out.SelectedPath = lp
			break
		}
	}

	if out.SelectedPath != nil {
		roadmaps, err := uc.roadmapRepo.ListByPath(ctx, userID, out.SelectedPath.ID)
		if err != nil {
			return nil, err
		}
		for _, rm := range roadmaps {
			records, err := uc.progressRepo.ListByRoadmap(ctx, userID, rm.ID)
			if err != nil {
				return nil, err
			}
			completed := 0
			for _, rec := range records {
				if rec.Completed {
					completed++
				}
			}
			out.Summaries = append(out.Summaries, progress.Summary{
				RoadmapID:          rm.ID,
				SkillName:          rm.SkillName,
				CompletedSubtopics: completed,
				TotalSubtopics:     rm.SubtopicCount(),
			})
		}
	}

	if n, ok, err := uc.counters.GetCompleted(ctx, userID); err == nil && ok {
		out.CompletedSubtopics = n
	} else {
		if err != nil {
			uc.logger.Warn("Dashboard counter read failed, falling back to DB", zap.Error(err))
		}
		n, err := uc.progressRepo.CountCompletedByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		out.CompletedSubtopics = n
	}

	return out, nil
}

type RoadmapProgressUseCase struct {
	progressRepo progress.Repository
}

func NewRoadmapProgressUseCase(progressRepo progress.Repository) *RoadmapProgressUseCase {
	return &RoadmapProgressUseCase{progressRepo: progressRepo}
}

func (uc *RoadmapProgressUseCase) Execute(ctx context.Context, userID, roadmapID uuid.UUID) ([]*progress.TopicProgress, error) {
	return uc.progressRepo.ListByRoadmap(ctx, userID, roadmapID)
}
