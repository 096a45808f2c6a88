package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type Publisher interface {
	Publish(event AnnotationEvent) error
}

type watermillPublisher struct {
	pub message.Publisher
}

func NewPublisher(pub message.Publisher) Publisher {
	return &watermillPublisher{pub: pub}
}

func (p *watermillPublisher) Publish(event AnnotationEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal annotation event: %w", err)
	}
	return p.pub.Publish(TopicAnnotationEvents, message.NewMessage(event.ID, payload))
}
