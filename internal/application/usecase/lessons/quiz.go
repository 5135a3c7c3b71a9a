package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/minhle/career-os/internal/application/service"
	progressuc "github.com/minhle/career-os/internal/application/usecase/progress"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

// passThresholdPct is the score required to pass a quiz, computed over the
// number of questions actually delivered.
const passThresholdPct = 60

type QuizUseCase struct {
	roadmapRepo  roadmap.Repository
	progressRepo progress.Repository
	llm          service.LLMService
	cache        service.QuizCache
	complete     *progressuc.CompleteSubtopicUseCase
	events       service.EventPublisher
	logger       logger.Logger
}

func NewQuizUseCase(
	roadmapRepo roadmap.Repository,
	progressRepo progress.Repository,
	llm service.LLMService,
	cache service.QuizCache,
	complete *progressuc.CompleteSubtopicUseCase,
	events service.EventPublisher,
	log logger.Logger,
) *QuizUseCase {
	return &QuizUseCase{
		roadmapRepo:  roadmapRepo,
		progressRepo: progressRepo,
		llm:          llm,
		cache:        cache,
		complete:     complete,
		events:       events,
		logger:       log,
	}
}

// QuizQuestion is a question as delivered to the client, answer withheld.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type GenerateQuizOutput struct {
	Questions []QuizQuestion
}

// ExecuteGenerate produces a fresh quiz for a subtopic and stashes the full
// version, answers included, so grading checks against what was delivered.
func (uc *QuizUseCase) ExecuteGenerate(ctx context.Context, input LessonInput) (*GenerateQuizOutput, error) {
	rm, sub, err := uc.resolveQuizSubtopic(ctx, input)
	if err != nil {
		return nil, err
	}

	raw, err := uc.llm.GenerateJSON(ctx, service.GenerateRequest{
		System:      quizSystemPrompt,
		Prompt:      buildQuizPrompt(rm.SkillName, sub.Title),
		Schema:      quizSchema,
		MaxTokens:   3072,
		Temperature: 0.6,
	})
	if err != nil {
		return nil, err
	}

	var quiz generatedQuiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, apperror.NewMalformedReply("failed to decode quiz", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, apperror.NewMalformedReply("quiz came back without questions", nil)
	}

	payload, err := json.Marshal(quiz)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetQuiz(ctx, input.UserID, input.RoadmapID, input.TopicID, input.SubtopicID, payload); err != nil {
		return nil, err
	}

	delivered := make([]QuizQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		delivered[i] = QuizQuestion{Question: q.Question, Options: q.Options}
	}
	return &GenerateQuizOutput{Questions: delivered}, nil
}

type GradeQuizInput struct {
	LessonInput
	// Answers holds the chosen option index per delivered question, in order.
	Answers []int
}

type GradedAnswer struct {
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation"`
}

type GradeQuizOutput struct {
	ScorePct int
	Passed   bool
	Results  []GradedAnswer
}

// ExecuteGrade scores the answers against the last generated quiz. A pass
// marks the subtopic complete; a fail leaves progress untouched.
func (uc *QuizUseCase) ExecuteGrade(ctx context.Context, input GradeQuizInput) (*GradeQuizOutput, error) {
	if _, _, err := uc.resolveQuizSubtopic(ctx, input.LessonInput); err != nil {
		return nil, err
	}

	payload, ok, err := uc.cache.GetQuiz(ctx, input.UserID, input.RoadmapID, input.TopicID, input.SubtopicID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewNotFound("quiz", "no active quiz for this subtopic, generate one first")
	}
	var quiz generatedQuiz
	if err := json.Unmarshal(payload, &quiz); err != nil {
		return nil, apperror.NewInternal("failed to decode stored quiz", err)
	}

	if len(input.Answers) != len(quiz.Questions) {
		return nil, apperror.NewInvalidInput(
			fmt.Sprintf("quiz has %d questions, got %d answers", len(quiz.Questions), len(input.Answers)), nil)
	}

	results := make([]GradedAnswer, len(quiz.Questions))
	correct := 0
	for i, q := range quiz.Questions {
		hit := input.Answers[i] == q.CorrectIndex
		if hit {
			correct++
		}
		results[i] = GradedAnswer{
			Correct:      hit,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
	}

	scorePct := correct * 100 / len(quiz.Questions)
	passed := scorePct >= passThresholdPct

	if passed {
		if _, err := uc.complete.Execute(ctx, progressuc.CompleteInput{
			UserID:     input.UserID,
			RoadmapID:  input.RoadmapID,
			TopicID:    input.TopicID,
			SubtopicID: input.SubtopicID,
		}); err != nil {
			return nil, err
		}
	}

	if err := uc.events.PublishProgress(ctx, service.ProgressEvent{
		Type:       service.EventQuizGraded,
		UserID:     input.UserID,
		RoadmapID:  input.RoadmapID,
		TopicID:    input.TopicID,
		SubtopicID: input.SubtopicID,
		ScorePct:   scorePct,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		uc.logger.Warn("Failed to publish quiz.graded event", zap.Error(err))
	}

	return &GradeQuizOutput{ScorePct: scorePct, Passed: passed, Results: results}, nil
}

func (uc *QuizUseCase) resolveQuizSubtopic(ctx context.Context, input LessonInput) (*roadmap.Roadmap, *roadmap.Subtopic, error) {
	return resolveSubtopic(ctx, uc.roadmapRepo, input)
}
