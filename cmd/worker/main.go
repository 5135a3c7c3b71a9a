package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/minhle/career-os/adapters/event"
	"github.com/minhle/career-os/adapters/persistence"
	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/config"
	"github.com/minhle/career-os/internal/domain/progress"
	"github.com/minhle/career-os/pkg/logger"
)

// The worker folds progress events into the per-user dashboard counters in
// Redis, so the dashboard read path never has to count rows.
func main() {
	log.Println("Starting Career OS worker...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	counters := persistence.NewRedisLearningCache(redisClient)
	progressRepo := persistence.NewPostgresProgressRepo(dbPool)

	progressConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProgressEvents,
		GroupID:  "progress-counter-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer progressConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicProgressEvents)

	ctx := context.Background()
	for {
		msg, err := progressConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var evt service.ProgressEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(progressConsumer, msg)
			continue
		}

		// Only completion changes the counter; quiz.graded is informational.
		if evt.Type == service.EventSubtopicCompleted {
			if err := bumpCounter(ctx, counters, progressRepo, evt); err != nil {
				log.Printf("ERROR: Failed to bump counter for user %s: %v", evt.UserID, err)
				continue
			}
		}

		commitMessage(progressConsumer, msg)
	}
}

// bumpCounter increments the user's completed-subtopics counter. A missing
// counter (first event ever, or cleared after a reset/regeneration) is seeded
// from the database count, which already includes this event's row.
func bumpCounter(ctx context.Context, counters service.DashboardCounters, progressRepo progress.Repository, evt service.ProgressEvent) error {
	_, ok, err := counters.GetCompleted(ctx, evt.UserID)
	if err != nil {
		return err
	}
	if !ok {
		count, err := progressRepo.CountCompletedByUser(ctx, evt.UserID)
		if err != nil {
			return err
		}
		return counters.SetCompleted(ctx, evt.UserID, count)
	}
	return counters.IncrCompleted(ctx, evt.UserID)
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
