package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/domain/progress"
)

type fakeCounters struct {
	counts map[uuid.UUID]int
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

type fakeProgressRepo struct {
	completedByUser map[uuid.UUID]int
}

func (f *fakeProgressRepo) Get(_ context.Context, _, _ uuid.UUID, _, _ string) (*progress.TopicProgress, error) {
	return nil, progress.ErrProgressNotFound
}

func (f *fakeProgressRepo) Upsert(_ context.Context, _ *progress.TopicProgress) error { return nil }

func (f *fakeProgressRepo) ListByRoadmap(_ context.Context, _, _ uuid.UUID) ([]*progress.TopicProgress, error) {
	return nil, nil
}

func (f *fakeProgressRepo) CountCompletedByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return f.completedByUser[userID], nil
}

func (f *fakeProgressRepo) DeleteByRoadmap(_ context.Context, _, _ uuid.UUID) error { return nil }
func (f *fakeProgressRepo) DeleteByUser(_ context.Context, _ uuid.UUID) error       { return nil }

func completionEvent(userID uuid.UUID) service.ProgressEvent {
	return service.ProgressEvent{
		Type:       service.EventSubtopicCompleted,
		UserID:     userID,
		RoadmapID:  uuid.New(),
		TopicID:    "t1",
		SubtopicID: "t1-s1",
		OccurredAt: time.Now().UTC(),
	}
}

func TestBumpCounter_IncrementsExistingCounter(t *testing.T) {
	userID := uuid.New()
	counters := &fakeCounters{counts: map[uuid.UUID]int{userID: 4}}
	repo := &fakeProgressRepo{completedByUser: map[uuid.UUID]int{userID: 5}}

	require.NoError(t, bumpCounter(context.Background(), counters, repo, completionEvent(userID)))

	n, ok, _ := counters.GetCompleted(context.Background(), userID)
	assert.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestBumpCounter_SeedsMissingCounterFromDatabase(t *testing.T) {
	userID := uuid.New()
	counters := &fakeCounters{counts: map[uuid.UUID]int{}}
	// The counter was cleared by a reset or regeneration; three completed
	// rows survive in the database, including the one for this event.
	repo := &fakeProgressRepo{completedByUser: map[uuid.UUID]int{userID: 3}}

	require.NoError(t, bumpCounter(context.Background(), counters, repo, completionEvent(userID)))

	n, ok, _ := counters.GetCompleted(context.Background(), userID)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}
