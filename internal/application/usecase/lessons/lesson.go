package lessons

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type LessonUseCase struct {
	roadmapRepo  roadmap.Repository
	progressRepo progress.Repository
	llm          service.LLMService
	cache        service.LessonCache
	logger       logger.Logger
}

func NewLessonUseCase(
	roadmapRepo roadmap.Repository,
	progressRepo progress.Repository,
	llm service.LLMService,
	cache service.LessonCache,
	log logger.Logger,
) *LessonUseCase {
	return &LessonUseCase{
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		llm:          llm,
		cache:        cache,
		logger:       log,
	}
}

type LessonInput struct {
	UserID     uuid.UUID
	RoadmapID  uuid.UUID
	TopicID    string
	SubtopicID string
}

type LessonOutput struct {
	Lesson *progress.LessonContent
	// Done is true once every planned section has content.
	Done bool
}

// ExecuteStart returns the lesson for a subtopic, generating the section plan
// and the first section on the first call. Later calls are served from cache.
func (uc *LessonUseCase) ExecuteStart(ctx context.Context, input LessonInput) (*LessonOutput, error) {
	rm, sub, err := uc.resolveSubtopic(ctx, input)
	if err != nil {
		return nil, err
	}

	if lesson, ok := uc.cachedLesson(ctx, input); ok {
		return &LessonOutput{Lesson: lesson, Done: lesson.Complete()}, nil
	}

	rec, err := uc.progressRepo.Get(ctx, input.UserID, input.RoadmapID, input.TopicID, input.SubtopicID)
	if err != nil && !errors.Is(err, progress.ErrProgressNotFound) {
		return nil, err
	}
	if rec != nil && rec.Lesson != nil && len(rec.Lesson.Sections) > 0 {
		uc.cacheLesson(ctx, input, rec.Lesson)
		return &LessonOutput{Lesson: rec.Lesson, Done: rec.Lesson.Complete()}, nil
	}

	raw, err := uc.llm.GenerateJSON(ctx, service.GenerateRequest{
		System:      lessonSystemPrompt,
		Prompt:      buildLessonPlanPrompt(rm.SkillName, sub.Title, sub.Description),
		Schema:      lessonPlanSchema,
		MaxTokens:   2048,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, err
	}

	var plan generatedLessonPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, apperror.NewMalformedReply("failed to decode lesson plan", err)
	}
	if len(plan.SectionTitles) == 0 {
		return nil, apperror.NewMalformedReply("lesson plan has no sections", nil)
	}

	lesson := &progress.LessonContent{
		SectionTitles: plan.SectionTitles,
		Sections: []progress.LessonSection{
			{Title: plan.SectionTitles[0], Content: plan.FirstSection},
		},
	}

	if err := uc.storeLesson(ctx, input, rec, lesson); err != nil {
		return nil, err
	}
	return &LessonOutput{Lesson: lesson, Done: lesson.Complete()}, nil
}

type NextSectionInput struct {
	LessonInput
	// SectionIndex is the index the client wants next. It must equal the
	// number of sections already generated; anything lower is served from
	// cache, anything higher is rejected.
	SectionIndex int
}

// ExecuteNextSection lazily generates one more section of an existing lesson.
func (uc *LessonUseCase) ExecuteNextSection(ctx context.Context, input NextSectionInput) (*LessonOutput, error) {
	rm, sub, err := uc.resolveSubtopic(ctx, input.LessonInput)
	if err != nil {
		return nil, err
	}

	rec, err := uc.progressRepo.Get(ctx, input.UserID, input.RoadmapID, input.TopicID, input.SubtopicID)
	if err != nil {
		if errors.Is(err, progress.ErrProgressNotFound) {
			return nil, apperror.NewInvalidInput("lesson has not been started for this subtopic", nil)
		}
		return nil, err
	}
	if rec.Lesson == nil || len(rec.Lesson.Sections) == 0 {
		return nil, apperror.NewInvalidInput("lesson has not been started for this subtopic", nil)
	}

	lesson := rec.Lesson
	generated := len(lesson.Sections)

	// Repeated clicks on an already generated index are idempotent.
	if input.SectionIndex < generated {
		return &LessonOutput{Lesson: lesson, Done: lesson.Complete()}, nil
	}
	if input.SectionIndex > generated {
		return nil, apperror.NewInvalidInput("sections are generated one at a time, in order", nil)
	}
	if generated >= len(lesson.SectionTitles) {
		return &LessonOutput{Lesson: lesson, Done: true}, nil
	}

	title := lesson.SectionTitles[generated]
	content, err := uc.llm.GenerateText(ctx, lessonSystemPrompt,
		buildSectionPrompt(rm.SkillName, sub.Title, title, lesson.SectionTitles))
	if err != nil {
		return nil, err
	}

	lesson.Sections = append(lesson.Sections, progress.LessonSection{Title: title, Content: content})

	if err := uc.storeLesson(ctx, input.LessonInput, rec, lesson); err != nil {
		return nil, err
	}
	return &LessonOutput{Lesson: lesson, Done: lesson.Complete()}, nil
}

func (uc *LessonUseCase) resolveSubtopic(ctx context.Context, input LessonInput) (*roadmap.Roadmap, *roadmap.Subtopic, error) {
	return resolveSubtopic(ctx, uc.roadmapRepo, input)
}

func resolveSubtopic(ctx context.Context, repo roadmap.Repository, input LessonInput) (*roadmap.Roadmap, *roadmap.Subtopic, error) {
	rm, err := repo.GetByID(ctx, input.UserID, input.RoadmapID)
	if err != nil {
		if errors.Is(err, roadmap.ErrRoadmapNotFound) {
			return nil, nil, apperror.NewNotFound("roadmap", input.RoadmapID.String())
		}
		return nil, nil, err
	}
	_, sub, ok := rm.FindSubtopic(input.TopicID, input.SubtopicID)
	if !ok {
		return nil, nil, apperror.NewNotFound("subtopic", input.TopicID+"/"+input.SubtopicID)
	}
	return rm, sub, nil
}

func (uc *LessonUseCase) cachedLesson(ctx context.Context, input LessonInput) (*progress.LessonContent, bool) {
	payload, ok, err := uc.cache.GetLesson(ctx, input.UserID, input.RoadmapID, input.TopicID, input.SubtopicID)
	if err != nil {
		uc.logger.Warn("Lesson cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	lesson := &progress.LessonContent{}
	if err := json.Unmarshal(payload, lesson); err != nil {
		return nil, false
	}
	return lesson, true
}

func (uc *LessonUseCase) cacheLesson(ctx context.Context, input LessonInput, lesson *progress.LessonContent) {
	payload, err := json.Marshal(lesson)
	if err != nil {
		return
	}
	if err := uc.cache.SetLesson(ctx, input.UserID, input.RoadmapID, input.TopicID, input.SubtopicID, payload); err != nil {
		uc.logger.Warn("Lesson cache write failed", zap.Error(err))
	}
}

// storeLesson persists the lesson into the progress row (the durable copy)
// and refreshes the cache.
func (uc *LessonUseCase) storeLesson(ctx context.Context, input LessonInput, rec *progress.TopicProgress, lesson *progress.LessonContent) error {
	if rec == nil {
		rec = &progress.TopicProgress{
			ID:         uuid.New(),
			UserID:     input.UserID,
			RoadmapID:  input.RoadmapID,
			TopicID:    input.TopicID,
			SubtopicID: input.SubtopicID,
		}
	}
	rec.Lesson = lesson
	if err := uc.progressRepo.Upsert(ctx, rec); err != nil {
		return err
	}
	uc.cacheLesson(ctx, input, lesson)
	return nil
}
