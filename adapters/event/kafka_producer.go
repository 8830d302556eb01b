package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"profile-hub/internal/config"
)

const TopicProfileEvents = "profile.events"

type ProfileEventType string

const (
	ProfileEventTypePictureReplaced ProfileEventType = "profile.picture_replaced"
	ProfileEventTypeProfileUpdated  ProfileEventType = "profile.updated"
)

type ProfileEventPayload struct {
	EventType ProfileEventType `json:"event_type"`
	UserID    uuid.UUID        `json:"user_id"`
	// StoredFile is the current picture file name, PreviousFile the one it
	// superseded (empty when there was none).
	StoredFile   string `json:"stored_file,omitempty"`
	PreviousFile string `json:"previous_file,omitempty"`
}

type ProfileEventProducer struct {
	writer *kafka.Writer
}

func NewProfileEventProducer(cfg config.Config) (*ProfileEventProducer, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProfileEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &ProfileEventProducer{writer: writer}, nil
}

func (p *ProfileEventProducer) Publish(ctx context.Context, payload ProfileEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal profile event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.UserID.String()),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write profile event: %w", err)
	}
	return nil
}

func (p *ProfileEventProducer) Close() {
	if p.writer != nil {
		p.writer.Close()
	}
}
