package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/plataa/platform/pkg/common/database"
	"github.com/plataa/platform/pkg/common/kafka"
	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

const eventTopic = "plataa-events"

// The worker tails the platform event stream and keeps live regional
// tallies in Redis for the public-facing widgets.
func main() {
	logger.Init()

	cache := database.GetRedis()
	consumer := kafka.NewConsumer(eventTopic, "plataa-analytics")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down analytics worker...")
		cancel()
	}()

	logger.Log.WithField("topic", eventTopic).Info("Analytics worker consuming")
	err := consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
		if event.Type != kafka.EventScreeningResultCreated {
			return nil
		}
		return tally(ctx, cache, event)
	})
	if err != nil && ctx.Err() == nil {
		logger.Log.WithError(err).Fatal("analytics worker stopped")
	}
	logger.Log.Info("Analytics worker stopped")
}

func tally(ctx context.Context, cache *redis.Client, event models.Event) error {
	classification, _ := event.Data["classification"].(string)
	region, _ := event.Data["region"].(string)
	if region == "" {
		region = "unknown"
	}

	pipe := cache.Pipeline()
	pipe.Incr(ctx, "plataa:analytics:screenings_total")
	if classification != "" {
		pipe.HIncrBy(ctx, "plataa:analytics:classifications", classification, 1)
	}
	pipe.HIncrBy(ctx, "plataa:analytics:regions", region, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update tallies: %w", err)
	}
	return nil
}
