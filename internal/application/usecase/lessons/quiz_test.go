package lessons

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/career-os/internal/application/service"
	progressuc "github.com/minhle/career-os/internal/application/usecase/progress"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type eventRecorder struct {
	learning []service.LearningEvent
	progress []service.ProgressEvent
}

func (r *eventRecorder) PublishLearning(_ context.Context, evt service.LearningEvent) error {
	r.learning = append(r.learning, evt)
	return nil
}

func (r *eventRecorder) PublishProgress(_ context.Context, evt service.ProgressEvent) error {
	r.progress = append(r.progress, evt)
	return nil
}

func quizReplyJSON(n int) json.RawMessage {
	quiz := generatedQuiz{Questions: make([]generatedQuestion, n)}
	for i := range quiz.Questions {
		quiz.Questions[i] = generatedQuestion{
			Question:     "Q?",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 0,
			Explanation:  "Because.",
		}
	}
	payload, _ := json.Marshal(quiz)
	return payload
}

type quizFixture struct {
	uc           *QuizUseCase
	progressRepo *fakeProgressRepo
	events       *eventRecorder
	input        LessonInput
}

func newQuizFixture(t *testing.T, llm *service.MockLLM) *quizFixture {
	t.Helper()

	roadmapRepo := newFakeRoadmapRepo()
	progressRepo := newFakeProgressRepo()
	cache := newFakeCache()
	events := &eventRecorder{}

	userID := uuid.New()
	rm := seedRoadmap(roadmapRepo, userID)

	complete := progressuc.NewCompleteSubtopicUseCase(roadmapRepo, progressRepo, events, logger.NewNop())
	uc := NewQuizUseCase(roadmapRepo, progressRepo, llm, cache, complete, events, logger.NewNop())

	return &quizFixture{
		uc:           uc,
		progressRepo: progressRepo,
		events:       events,
		input:        LessonInput{UserID: userID, RoadmapID: rm.ID, TopicID: "t1", SubtopicID: "t1-s1"},
	}
}

func TestQuizGenerate_WithholdsAnswers(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: quizReplyJSON(10)})
	fx := newQuizFixture(t, llm)

	out, err := fx.uc.ExecuteGenerate(context.Background(), fx.input)
	require.NoError(t, err)
	require.Len(t, out.Questions, 10)
	for _, q := range out.Questions {
		assert.Len(t, q.Options, 4)
	}
}

func TestQuizGrade_PassMarksSubtopicComplete(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: quizReplyJSON(10)})
	fx := newQuizFixture(t, llm)

	_, err := fx.uc.ExecuteGenerate(context.Background(), fx.input)
	require.NoError(t, err)

	// 6 of 10 correct is exactly the pass threshold.
	answers := []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1}
	out, err := fx.uc.ExecuteGrade(context.Background(), GradeQuizInput{LessonInput: fx.input, Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 60, out.ScorePct)
	assert.True(t, out.Passed)

	rec, err := fx.progressRepo.Get(context.Background(), fx.input.UserID, fx.input.RoadmapID, fx.input.TopicID, fx.input.SubtopicID)
	require.NoError(t, err)
	assert.True(t, rec.Completed)
	assert.Equal(t, 100, rec.CompletionPct)
	require.NotNil(t, rec.CompletedAt)

	// subtopic.completed then quiz.graded.
	require.Len(t, fx.events.progress, 2)
	assert.Equal(t, service.EventSubtopicCompleted, fx.events.progress[0].Type)
	assert.Equal(t, service.EventQuizGraded, fx.events.progress[1].Type)
	assert.Equal(t, 60, fx.events.progress[1].ScorePct)
}

func TestQuizGrade_FailLeavesProgressUntouched(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: quizReplyJSON(10)})
	fx := newQuizFixture(t, llm)

	_, err := fx.uc.ExecuteGenerate(context.Background(), fx.input)
	require.NoError(t, err)

	// 5 of 10 correct misses the threshold.
	answers := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	out, err := fx.uc.ExecuteGrade(context.Background(), GradeQuizInput{LessonInput: fx.input, Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 50, out.ScorePct)
	assert.False(t, out.Passed)

	_, err = fx.progressRepo.Get(context.Background(), fx.input.UserID, fx.input.RoadmapID, fx.input.TopicID, fx.input.SubtopicID)
	assert.Error(t, err)

	require.Len(t, fx.events.progress, 1)
	assert.Equal(t, service.EventQuizGraded, fx.events.progress[0].Type)
}

func TestQuizGrade_ThresholdUsesDeliveredCount(t *testing.T) {
	// A short reply still grades against what was actually delivered.
	llm := service.NewMockLLM(service.MockReply{JSON: quizReplyJSON(5)})
	fx := newQuizFixture(t, llm)

	_, err := fx.uc.ExecuteGenerate(context.Background(), fx.input)
	require.NoError(t, err)

	// 3 of 5 is exactly 60%.
	out, err := fx.uc.ExecuteGrade(context.Background(), GradeQuizInput{
		LessonInput: fx.input,
		Answers:     []int{0, 0, 0, 1, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 60, out.ScorePct)
	assert.True(t, out.Passed)
}

func TestQuizGrade_RejectsAnswerCountMismatch(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: quizReplyJSON(10)})
	fx := newQuizFixture(t, llm)

	_, err := fx.uc.ExecuteGenerate(context.Background(), fx.input)
	require.NoError(t, err)

	_, err = fx.uc.ExecuteGrade(context.Background(), GradeQuizInput{LessonInput: fx.input, Answers: []int{0, 1}})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestQuizGrade_RequiresGeneratedQuiz(t *testing.T) {
	fx := newQuizFixture(t, service.NewMockLLM())

	_, err := fx.uc.ExecuteGrade(context.Background(), GradeQuizInput{
		LessonInput: fx.input,
		Answers:     []int{0},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
