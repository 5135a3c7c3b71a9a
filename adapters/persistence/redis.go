package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/minhle/career-os/internal/config"
)

func NewRedisClient(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	return rdb, nil
}

const (
	lessonCacheTTL = 24 * time.Hour
	quizCacheTTL   = 2 * time.Hour
)

// RedisLearningCache implements the lesson/quiz caches and the dashboard
// counters on one Redis client.
type RedisLearningCache struct {
	rdb *redis.Client
}

func NewRedisLearningCache(rdb *redis.Client) *RedisLearningCache {
	return &RedisLearningCache{rdb: rdb}
}

func lessonKey(userID, roadmapID uuid.UUID, topicID, subtopicID string) string {
	return fmt.Sprintf("lesson:%s:%s:%s:%s", userID, roadmapID, topicID, subtopicID)
}

func quizKey(userID, roadmapID uuid.UUID, topicID, subtopicID string) string {
	return fmt.Sprintf("quiz:%s:%s:%s:%s", userID, roadmapID, topicID, subtopicID)
}

func completedKey(userID uuid.UUID) string {
	return fmt.Sprintf("dash:%s:completed", userID)
}

func (c *RedisLearningCache) GetLesson(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) ([]byte, bool, error) {
	return c.get(ctx, lessonKey(userID, roadmapID, topicID, subtopicID))
}

func (c *RedisLearningCache) SetLesson(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string, payload []byte) error {
	return c.rdb.Set(ctx, lessonKey(userID, roadmapID, topicID, subtopicID), payload, lessonCacheTTL).Err()
}

func (c *RedisLearningCache) GetQuiz(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string) ([]byte, bool, error) {
	return c.get(ctx, quizKey(userID, roadmapID, topicID, subtopicID))
}

func (c *RedisLearningCache) SetQuiz(ctx context.Context, userID, roadmapID uuid.UUID, topicID, subtopicID string, payload []byte) error {
	return c.rdb.Set(ctx, quizKey(userID, roadmapID, topicID, subtopicID), payload, quizCacheTTL).Err()
}

func (c *RedisLearningCache) IncrCompleted(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Incr(ctx, completedKey(userID)).Err()
}

func (c *RedisLearningCache) GetCompleted(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	n, err := c.rdb.Get(ctx, completedKey(userID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *RedisLearningCache) SetCompleted(ctx context.Context, userID uuid.UUID, count int) error {
	return c.rdb.Set(ctx, completedKey(userID), count, 0).Err()
}

func (c *RedisLearningCache) Reset(ctx context.Context, userID uuid.UUID) error {
	return c.rdb.Del(ctx, completedKey(userID)).Err()
}

func (c *RedisLearningCache) get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}
