package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"profile-hub/adapters/event"
	"profile-hub/adapters/file_storage"
	profileUC "profile-hub/internal/application/usecase/profile"
	"profile-hub/internal/config"
	"profile-hub/pkg/logger"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Starting Profile Hub worker...")

	pictureStore, err := file_storage.NewLocalPictureStore(cfg)
	if err != nil {
		appLogger.Fatal("failed to initialize picture store", err)
	}

	processEventUC := profileUC.NewProcessPictureEventUseCase(pictureStore, appLogger)

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  "picture-cleanup-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents))

	ctx := context.Background()
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload event.ProfileEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal event, skipping", err, zap.String("key", string(msg.Key)))
			commitMessage(consumer, msg, appLogger)
			continue
		}

		if err := processEventUC.Execute(ctx, payload); err != nil {
			appLogger.Error("Failed to process event", err, zap.String("user_id", payload.UserID.String()))
			continue
		}

		commitMessage(consumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
