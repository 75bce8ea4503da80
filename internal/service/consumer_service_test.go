package service

import (
	"context"
	"testing"
	"time"

	"realty-agent-be/internal/constant"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End to end over the real in-process bus: a published submission reaches the
// consumer, which drops the cached snapshot and refetches.
func TestSubmissionMessageInvalidatesAndRefreshes(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	tracker := &fakeTracker{}
	consumer := NewConsumerService(pubSub, constant.KnowledgeSubmittedTopic, tracker, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, consumer.Start(ctx))

	publisher := NewPublisherService(pubSub, constant.KnowledgeSubmittedTopic)
	require.NoError(t, publisher.PublishKnowledgeSubmitted(context.Background(), "rep-1"))

	require.Eventually(t, func() bool {
		invalidated, refreshed := tracker.calls()
		return len(invalidated) == 1 && len(refreshed) == 1
	}, time.Second, 5*time.Millisecond)

	invalidated, refreshed := tracker.calls()
	assert.Equal(t, []string{"rep-1"}, invalidated)
	assert.Equal(t, []string{"rep-1"}, refreshed)
}
