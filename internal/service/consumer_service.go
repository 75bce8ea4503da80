package service

import (
	"context"
	"encoding/json"
	"time"

	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the knowledge-submitted topic and turns each
// message into a tracker invalidation plus an immediate refresh, which
// restarts polling for that replica.
type IConsumerService interface {
	Start(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	tracker   ITrackerService
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, tracker ITrackerService, logger logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		tracker:   tracker,
		logger:    logger,
	}
}

func (s *consumerService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}
	go s.process(messages)
	s.logger.Info("consumer", "knowledge invalidation consumer started", nil)
	return nil
}

func (s *consumerService) process(messages <-chan *message.Message) {
	for msg := range messages {
		var payload dto.KnowledgeSubmittedMessage
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			s.logger.Error("consumer", "malformed invalidation message", map[string]interface{}{
				"error": err.Error(),
			})
			// Redelivery cannot fix a malformed payload.
			msg.Ack()
			continue
		}

		s.tracker.Invalidate(payload.ReplicaID)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := s.tracker.Refresh(ctx, payload.ReplicaID); err != nil {
			s.logger.Warn("consumer", "post-submission refresh failed", map[string]interface{}{
				"replica_id": payload.ReplicaID,
				"error":      err.Error(),
			})
		}
		cancel()

		msg.Ack()
	}
}
