package roadmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/path"
	"github.com/minhle/career-os/internal/domain/profile"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/internal/domain/roadmap"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type fakeProfileRepo struct{}

func (fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	return &profile.Profile{UserID: userID, TargetJob: "Backend Engineer"}, nil
}
func (fakeProfileRepo) Upsert(_ context.Context, _ *profile.Profile) error          { return nil }
func (fakeProfileRepo) SetResumeURL(_ context.Context, _ uuid.UUID, _ string) error { return nil }

type fakePathRepo struct {
	paths map[uuid.UUID]*path.LearningPath
}

func (f *fakePathRepo) ReplaceGeneration(_ context.Context, _ uuid.UUID, _ []*path.LearningPath) error {
	return nil
}

func (f *fakePathRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]*path.LearningPath, error) {
	return nil, nil
}

func (f *fakePathRepo) GetByID(_ context.Context, userID, pathID uuid.UUID) (*path.LearningPath, error) {
	p, ok := f.paths[pathID]
	if !ok || p.UserID != userID {
		return nil, path.ErrPathNotFound
	}
	return p, nil
}

func (f *fakePathRepo) Select(_ context.Context, _, _ uuid.UUID) error    { return nil }
func (f *fakePathRepo) DeleteByUser(_ context.Context, _ uuid.UUID) error { return nil }

type fakeRoadmapRepo struct {
	roadmaps map[uuid.UUID]*roadmap.Roadmap
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

func (f *fakeRoadmapRepo) ListByPath(_ context.Context, _, _ uuid.UUID) ([]*roadmap.Roadmap, error) {
	return nil, nil
}

func (f *fakeRoadmapRepo) DeleteByUser(_ context.Context, _ uuid.UUID) error { return nil }

type fakeProgressRepo struct {
	deletedRoadmaps []uuid.UUID
}

func (f *fakeProgressRepo) Get(_ context.Context, _, _ uuid.UUID, _, _ string) (*progress.TopicProgress, error) {
	return nil, progress.ErrProgressNotFound
}

func (f *fakeProgressRepo) Upsert(_ context.Context, _ *progress.TopicProgress) error { return nil }

func (f *fakeProgressRepo) ListByRoadmap(_ context.Context, _, _ uuid.UUID) ([]*progress.TopicProgress, error) {
	return nil, nil
}

func (f *fakeProgressRepo) CountCompletedByUser(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeProgressRepo) DeleteByRoadmap(_ context.Context, _, roadmapID uuid.UUID) error {
	f.deletedRoadmaps = append(f.deletedRoadmaps, roadmapID)
	return nil
}

func (f *fakeProgressRepo) DeleteByUser(_ context.Context, _ uuid.UUID) error { return nil }

type fakeCounters struct {
	counts map[uuid.UUID]int
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{counts: map[uuid.UUID]int{}}
}

func (f *fakeCounters) IncrCompleted(_ context.Context, userID uuid.UUID) error {
	f.counts[userID]++
	return nil
}

func (f *fakeCounters) GetCompleted(_ context.Context, userID uuid.UUID) (int, bool, error) {
	n, ok := f.counts[userID]
	return n, ok, nil
}

func (f *fakeCounters) SetCompleted(_ context.Context, userID uuid.UUID, count int) error {
	f.counts[userID] = count
	return nil
}

func (f *fakeCounters) Reset(_ context.Context, userID uuid.UUID) error {
	delete(f.counts, userID)
	return nil
}

type eventRecorder struct {
	learning []service.LearningEvent
}

func (r *eventRecorder) PublishLearning(_ context.Context, evt service.LearningEvent) error {
	r.learning = append(r.learning, evt)
	return nil
}

func (r *eventRecorder) PublishProgress(_ context.Context, _ service.ProgressEvent) error {
	return nil
}

func roadmapReplyJSON(topicCount int) json.RawMessage {
	reply := `{"topics":[`
	for i := 0; i < topicCount; i++ {
		if i > 0 {
			reply += ","
		}
		reply += fmt.Sprintf(`{
			"title": "Topic %d",
			"description": "About topic %d.",
			"subtopics": [
				{"title": "Subtopic A", "description": "First part"},
				{"title": "Subtopic B", "description": "Second part"}
			]
		}`, i+1, i+1)
	}
	reply += `]}`
	return json.RawMessage(reply)
}

type generateFixture struct {
	uc           *GenerateRoadmapUseCase
	roadmapRepo  *fakeRoadmapRepo
	progressRepo *fakeProgressRepo
	events       *eventRecorder
	counters     *fakeCounters
	userID       uuid.UUID
	pathID       uuid.UUID
}

func newGenerateFixture(llm *service.MockLLM) *generateFixture {
	userID := uuid.New()
	lp := &path.LearningPath{
		ID:     uuid.New(),
		UserID: userID,
		Type:   path.TypeRecommended,
		Skills: []path.SkillItem{{Name: "Go", Priority: 1, EstimatedHours: 40}},
	}

	pathRepo := &fakePathRepo{paths: map[uuid.UUID]*path.LearningPath{lp.ID: lp}}
	roadmapRepo := &fakeRoadmapRepo{roadmaps: map[uuid.UUID]*roadmap.Roadmap{}}
	progressRepo := &fakeProgressRepo{}
	events := &eventRecorder{}
	counters := newFakeCounters()

	uc := NewGenerateRoadmapUseCase(
		fakeProfileRepo{}, pathRepo, roadmapRepo, progressRepo, llm, events, counters, logger.NewNop(),
	)
	return &generateFixture{
		uc: uc, roadmapRepo: roadmapRepo, progressRepo: progressRepo,
		events: events, counters: counters, userID: userID, pathID: lp.ID,
	}
}

func TestGenerateRoadmap_AssignsStableTopicIDs(t *testing.T) {
	llm := service.NewMockLLM(service.MockReply{JSON: roadmapReplyJSON(4)})
	fx := newGenerateFixture(llm)

	out, err := fx.uc.Execute(context.Background(), GenerateInput{
		UserID: fx.userID, PathID: fx.pathID, SkillName: "Go",
	})
	require.NoError(t, err)
	require.Len(t, out.Roadmap.Topics, 4)
	assert.Equal(t, "t1", out.Roadmap.Topics[0].ID)
	assert.Equal(t, "t1-s2", out.Roadmap.Topics[0].Subtopics[1].ID)
	assert.Equal(t, "t4-s1", out.Roadmap.Topics[3].Subtopics[0].ID)

	require.Len(t, fx.events.learning, 1)
	assert.Equal(t, service.EventRoadmapGenerated, fx.events.learning[0].Type)
}

func TestGenerateRoadmap_RejectsSkillOutsidePath(t *testing.T) {
	fx := newGenerateFixture(service.NewMockLLM())

	_, err := fx.uc.Execute(context.Background(), GenerateInput{
		UserID: fx.userID, PathID: fx.pathID, SkillName: "Cooking",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGenerateRoadmap_RegenerationKeepsIDAndClearsProgress(t *testing.T) {
	llm := service.NewMockLLM(
		service.MockReply{JSON: roadmapReplyJSON(4)},
		service.MockReply{JSON: roadmapReplyJSON(5)},
	)
	fx := newGenerateFixture(llm)

	input := GenerateInput{UserID: fx.userID, PathID: fx.pathID, SkillName: "Go"}

	first, err := fx.uc.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := fx.uc.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Roadmap.ID, second.Roadmap.ID)
	assert.Len(t, second.Roadmap.Topics, 5)
	require.Len(t, fx.progressRepo.deletedRoadmaps, 1)
	assert.Equal(t, first.Roadmap.ID, fx.progressRepo.deletedRoadmaps[0])
}

func TestGenerateRoadmap_RegenerationClearsDashboardCounter(t *testing.T) {
	llm := service.NewMockLLM(
		service.MockReply{JSON: roadmapReplyJSON(4)},
		service.MockReply{JSON: roadmapReplyJSON(4)},
	)
	fx := newGenerateFixture(llm)

	input := GenerateInput{UserID: fx.userID, PathID: fx.pathID, SkillName: "Go"}

	_, err := fx.uc.Execute(context.Background(), input)
	require.NoError(t, err)

	// Progress made on the first version of the roadmap bumped the counter.
	require.NoError(t, fx.counters.SetCompleted(context.Background(), fx.userID, 3))

	_, err = fx.uc.Execute(context.Background(), input)
	require.NoError(t, err)

	// The completed rows were deleted with the old roadmap, so the counter
	// is dropped and the dashboard falls back to the database count.
	_, ok, _ := fx.counters.GetCompleted(context.Background(), fx.userID)
	assert.False(t, ok)
}

func TestGenerateRoadmap_UnknownPath(t *testing.T) {
	fx := newGenerateFixture(service.NewMockLLM())

	_, err := fx.uc.Execute(context.Background(), GenerateInput{
		UserID: fx.userID, PathID: uuid.New(), SkillName: "Go",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
