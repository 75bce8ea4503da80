package service

import (
	"context"
	"encoding/json"

	"realty-agent-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService publishes in-process messages that decouple the
// submitters from the tracker: a submitter only announces that something was
// accepted, the consumer decides what to invalidate and refetch.
type IPublisherService interface {
	PublishKnowledgeSubmitted(ctx context.Context, replicaID string) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{pubSub: pubSub, topicName: topicName}
}

func (s *publisherService) PublishKnowledgeSubmitted(ctx context.Context, replicaID string) error {
	payload, err := json.Marshal(dto.KnowledgeSubmittedMessage{ReplicaID: replicaID})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return s.pubSub.Publish(s.topicName, msg)
}
