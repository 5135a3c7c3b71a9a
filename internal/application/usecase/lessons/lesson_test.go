package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type fakeRoadmapRepo struct {
	roadmaps map[uuid.UUID]*roadmap.Roadmap
}

func newFakeRoadmapRepo() *fakeRoadmapRepo {
	return &fakeRoadmapRepo{roadmaps: map[uuid.UUID]*roadmap.Roadmap{}}
}

func (f *fakeRoadmapRepo) Upsert(_ context.Context, r *roadmap.Roadmap) error {
	f.roadmaps[r.ID] = r
	return nil
}

func (f *fakeRoadmapRepo) GetByID(_ context.Context, userID, roadmapID uuid.UUID) (*roadmap.Roadmap, error) {
	r, ok := f.roadmaps[roadmapID]
	if !ok || r.UserID != userID {
		return nil, roadmap.ErrRoadmapNotFound
	}
	return r, nil
}

func (f *fakeRoadmapRepo) GetBySkill(_ context.Context, userID, pathID uuid.UUID, skillName string) (*roadmap.Roadmap, error) {
	for _, r := range f.roadmaps {
		if r.UserID == userID && r.PathID == pathID && r.SkillName == skillName {
			return r, nil
		}
	}
	return nil, roadmap.ErrRoadmapNotFound
}

func (f *fakeRoadmapRepo) ListByPath(_ context.Context, userID, pathID uuid.UUID) ([]*roadmap.Roadmap, error) {
	out := make([]*roadmap.Roadmap, 0)
	for _, r := range f.roadmaps {
		if r.UserID == userID && r.PathID == pathID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoadmapRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for id, r := range f.roadmaps {
		if r.UserID == userID {
			delete(f.roadmaps, id)
		}
	}
	return nil
}

type progressKey struct {
	userID, roadmapID uuid.UUID
	topicID           string
	subtopicID        string
}

type fakeProgressRepo struct {
	records map[progressKey]*progress.TopicProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: map[progressKey]*progress.TopicProgress{}}
}

func (f *fakeProgressRepo) Get(_ context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) (*progress.TopicProgress, error) {
	rec, ok := f.records[progressKey{userID, roadmapID, topicID, subtopicID}]
	if !ok {
		return nil, progress.ErrProgressNotFound
	}
	return rec, nil
}

func (f *fakeProgressRepo) Upsert(_ context.Context, p *progress.TopicProgress) error {
	f.records[progressKey{p.UserID, p.RoadmapID, p.TopicID, p.SubtopicID}] = p
	return nil
}

func (f *fakeProgressRepo) ListByRoadmap(_ context.Context, userID, roadmapID uuid.UUID) ([]*progress.TopicProgress, error) {
	out := make([]*progress.TopicProgress, 0)
	for k, rec := range f.records {
		if k.userID == userID && k.roadmapID == roadmapID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) CountCompletedByUser(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for k, rec := range f.records {
		if k.userID == userID && rec.Completed {
			n++
		}
	}
	return n, nil
}

func (f *fakeProgressRepo) DeleteByRoadmap(_ context.Context, userID, roadmapID uuid.UUID) error {
	for k := range f.records {
		if k.userID == userID && k.roadmapID == roadmapID {
			delete(f.records, k)
		}
	}
	return nil
}

func (f *fakeProgressRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for k := range f.records {
		if k.userID == userID {
			delete(f.records, k)
		}
	}
	return nil
}

// fakeCache implements LessonCache, QuizCache, and DashboardCounters in one map.
type fakeCache struct {
	lessons map[string][]byte
	quizzes map[string][]byte
	counts  map[uuid.UUID]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		lessons: map[string][]byte{},
		quizzes: map[string][]byte{},
		counts:  map[uuid.UUID]int{},
	}
}

func cacheKey(userID, roadmapID uuid.UUID, topicID, subtopicID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", userID, roadmapID, topicID, subtopicID)
}

func (f *fakeCache) GetLesson(_ context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) ([]byte, bool, error) {
	payload, ok := f.lessons[cacheKey(userID, roadmapID, topicID, subtopicID)]
	return payload, ok, nil
}

func (f *fakeCache) SetLesson(_ context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string, payload []byte) error {
	f.lessons[cacheKey(userID, roadmapID, topicID, subtopicID)] = payload
	return nil
}

func (f *fakeCache) GetQuiz(_ context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) ([]byte, bool, error) {
	payload, ok := f.quizzes[cacheKey(userID, roadmapID, topicID, subtopicID)]
	return payload, ok, nil
}

func (f *fakeCache) SetQuiz(_ context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string, payload []byte) error {
	f.quizzes[cacheKey(userID, roadmapID, topicID, subtopicID)] = payload
	return nil
}

func (f *fakeCache) IncrCompleted(_ context.Context, userID uuid.UUID) error {
	f.counts[userID]++
	return nil
}

func (f *fakeCache) GetCompleted(_ context.Context, userID uuid.UUID) (int, bool, error) {
	n, ok := f.counts[userID]
	return n, ok, nil
}

func (f *fakeCache) SetCompleted(_ context.Context, userID uuid.UUID, count int) error {
	f.counts[userID] = count
	return nil
}

func (f *fakeCache) Reset(_ context.Context, userID uuid.UUID) error {
	delete(f.counts, userID)
	return nil
}

func seedRoadmap(repo *fakeRoadmapRepo, userID uuid.UUID) *roadmap.Roadmap {
	rm := &roadmap.Roadmap{
		ID:        uuid.New(),
		UserID:    userID,
		PathID:    uuid.New(),
		SkillName: "Go",
		Topics: []roadmap.Topic{
			{
				ID:    "t1",
				Title: "Basics",
				Subtopics: []roadmap.Subtopic{
					{ID: "t1-s1", Title: "Syntax", Description: "Variables and types"},
					{ID: "t1-s2", Title: "Control flow"},
				},
			},
		},
	}
	repo.roadmaps[rm.ID] = rm
	return rm
}

func lessonPlanJSON(titles ...string) json.RawMessage {
	plan := generatedLessonPlan{SectionTitles: titles, FirstSection: "Section one content."}
	payload, _ := json.Marshal(plan)
	return payload
}

func TestLessonStart_GeneratesPlanAndFirstSection(t *testing.T) {
	roadmapRepo := newFakeRoadmapRepo()
	progressRepo := newFakeProgressRepo()
	cache := newFakeCache()
	llm := service.NewMockLLM(service.MockReply{JSON: lessonPlanJSON("Intro", "Deep dive", "Practice")})

	userID := uuid.New()
	rm := seedRoadmap(roadmapRepo, userID)

	uc := NewLessonUseCase(roadmapRepo, progressRepo, llm, cache, logger.NewNop())
	input := LessonInput{UserID: userID, RoadmapID: rm.ID, TopicID: "t1", SubtopicID: "t1-s1"}

	out, err := uc.ExecuteStart(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Deep dive", "Practice"}, out.Lesson.SectionTitles)
	require.Len(t, out.Lesson.Sections, 1)
	assert.Equal(t, "Intro", out.Lesson.Sections[0].Title)
	assert.False(t, out.Done)

	// Second start is served from cache, no extra generation.
	out2, err := uc.ExecuteStart(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, out2.Lesson.Sections, 1)
	assert.Len(t, llm.JSONCalls, 1)
}

func TestLessonStart_UnknownSubtopic(t *testing.T) {
	roadmapRepo := newFakeRoadmapRepo()
	userID := uuid.New()
	rm := seedRoadmap(roadmapRepo, userID)

	uc := NewLessonUseCase(roadmapRepo, newFakeProgressRepo(), service.NewMockLLM(), newFakeCache(), logger.NewNop())

	_, err := uc.ExecuteStart(context.Background(), LessonInput{
		UserID: userID, RoadmapID: rm.ID, TopicID: "t1", SubtopicID: "missing",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestNextSection_GeneratesExactlyOneSectionInOrder(t *testing.T) {
	roadmapRepo := newFakeRoadmapRepo()
	progressRepo := newFakeProgressRepo()
	cache := newFakeCache()
	llm := service.NewMockLLM(
		service.MockReply{JSON: lessonPlanJSON("Intro", "Deep dive", "Practice")},
		service.MockReply{Text: "Section two content."},
		service.MockReply{Text: "Section three content."},
	)

	userID := uuid.New()
	rm := seedRoadmap(roadmapRepo, userID)
	uc := NewLessonUseCase(roadmapRepo, progressRepo, llm, cache, logger.NewNop())
	input := LessonInput{UserID: userID, RoadmapID: rm.ID, TopicID: "t1", SubtopicID: "t1-s1"}

	_, err := uc.ExecuteStart(context.Background(), input)
	require.NoError(t, err)

	// Asking for a section ahead of the cursor is rejected.
	_, err = uc.ExecuteNextSection(context.Background(), NextSectionInput{LessonInput: input, SectionIndex: 2})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	out, err := uc.ExecuteNextSection(context.Background(), NextSectionInput{LessonInput: input, SectionIndex: 1})
	require.NoError(t, err)
	require.Len(t, out.Lesson.Sections, 2)
	assert.Equal(t, "Deep dive", out.Lesson.Sections[1].Title)
	assert.Equal(t, "Section two content.", out.Lesson.Sections[1].Content)
	assert.False(t, out.Done)

	// Repeating an already generated index returns the same lesson untouched.
	repeat, err := uc.ExecuteNextSection(context.Background(), NextSectionInput{LessonInput: input, SectionIndex: 1})
	require.NoError(t, err)
	assert.Len(t, repeat.Lesson.Sections, 2)
	assert.Len(t, llm.TextCalls, 1)

	out, err = uc.ExecuteNextSection(context.Background(), NextSectionInput{LessonInput: input, SectionIndex: 2})
	require.NoError(t, err)
	assert.Len(t, out.Lesson.Sections, 3)
	assert.True(t, out.Done)
}

func TestNextSection_RequiresStartedLesson(t *testing.T) {
	roadmapRepo := newFakeRoadmapRepo()
	userID := uuid.New()
	rm := seedRoadmap(roadmapRepo, userID)

	uc := NewLessonUseCase(roadmapRepo, newFakeProgressRepo(), service.NewMockLLM(), newFakeCache(), logger.NewNop())

	_, err := uc.ExecuteNextSection(context.Background(), NextSectionInput{
		LessonInput:  LessonInput{UserID: userID, RoadmapID: rm.ID, TopicID: "t1", SubtopicID: "t1-s1"},
		SectionIndex: 1,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
