package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"video-labeling-be/internal/pkg/logger"
	"video-labeling-be/pkg/events"
)

type IAuditService interface {
	Consume(ctx context.Context) error
}

// auditService subscribes to annotation lifecycle events and writes them to
// the structured log, giving operators a trail of every mutation without the
// handlers having to log twice.
type auditService struct {
	subscriber message.Subscriber
	logger     logger.ILogger
}

func NewAuditService(subscriber message.Subscriber, logger logger.ILogger) IAuditService {
	return &auditService{subscriber: subscriber, logger: logger}
}

func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, events.TopicAnnotationEvents)
	if err != nil {
		return err
	}

	for msg := range messages {
		var event events.AnnotationEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			s.logger.Warn("audit", "dropping malformed annotation event", map[string]interface{}{
				"message_id": msg.UUID,
				"error":      err.Error(),
			})
			msg.Ack()
			continue
		}

		s.logger.Info("audit", event.Type, map[string]interface{}{
			"event_id":      event.ID,
			"video_path":    event.VideoPath,
			"segment_count": event.SegmentCount,
			"occurred_at":   event.OccurredAt,
		})
		msg.Ack()
	}
	return nil
}
