package service

import (
	"context"
	"testing"

	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/mapper"
	"realty-agent-be/pkg/sensay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReplicaService(gw sensay.API) IReplicaService {
	return NewReplicaService(
		&fakeProvider{gw: gw, userID: "agent_test"},
		mapper.NewReplicaMapper(),
		nil,
		constant.DefaultSeedGuide,
		sensay.LLMSpec{Provider: "openai", Model: "gpt-4o"},
		nopLogger{},
	)
}

func validCreateRequest() *dto.CreateReplicaRequest {
	return &dto.CreateReplicaRequest{
		Name:             "Jane Realtor",
		ShortDescription: "Your neighborhood real estate expert.",
		Greeting:         "Hi! Ask me about any of my listings.",
		Slug:             "jane-realtor",
	}
}

func TestCreateSeedsBehaviorGuide(t *testing.T) {
	var seededReplica, seededTitle, seededText string
	gw := &fakeGateway{
		createReplicaFn: func(ctx context.Context, input sensay.CreateReplicaInput) (*sensay.Replica, error) {
			assert.Equal(t, "agent_test", input.OwnerID)
			assert.Equal(t, "openai", input.LLM.Provider)
			return &sensay.Replica{UUID: "uuid-1", Name: input.Name, Slug: input.Slug}, nil
		},
		addTextFn: func(ctx context.Context, replicaID, text, title string) (*sensay.KnowledgeItem, error) {
			seededReplica = replicaID
			seededTitle = title
			seededText = text
			return &sensay.KnowledgeItem{ID: 1, Type: "text", Status: sensay.StatusNew, Title: title}, nil
		},
	}
	svc := newTestReplicaService(gw)

	resp, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.True(t, resp.Seeded)
	assert.Empty(t, resp.SeedError)
	assert.Equal(t, "uuid-1", seededReplica)
	assert.Equal(t, constant.SeedGuideTitle, seededTitle)
	assert.Equal(t, constant.DefaultSeedGuide, seededText)
}

func TestCreateSeedFailureIsNotFatal(t *testing.T) {
	gw := &fakeGateway{
		addTextFn: func(ctx context.Context, replicaID, text, title string) (*sensay.KnowledgeItem, error) {
			return nil, &sensay.APIError{StatusCode: 500, Message: "ingestion down"}
		},
	}
	svc := newTestReplicaService(gw)

	resp, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err, "the replica exists; seeding failure is reported, not raised")

	assert.False(t, resp.Seeded)
	assert.NotEmpty(t, resp.SeedError)
	assert.Equal(t, "jane-realtor", resp.Replica.Slug)
}

func TestCreateSlugConflictPropagates(t *testing.T) {
	gw := &fakeGateway{
		createReplicaFn: func(ctx context.Context, input sensay.CreateReplicaInput) (*sensay.Replica, error) {
			return nil, sensay.ErrSlugTaken
		},
	}
	svc := newTestReplicaService(gw)

	_, err := svc.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, sensay.ErrSlugTaken)
	assert.Zero(t, gw.addTextCalls.Load(), "no seeding after a failed create")
}

func TestListDegradesOnRemoteFailure(t *testing.T) {
	gw := &fakeGateway{
		listReplicasFn: func(ctx context.Context) ([]sensay.Replica, error) {
			return nil, &sensay.APIError{StatusCode: 503, Message: "down"}
		},
	}
	svc := newTestReplicaService(gw)

	replicas, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, replicas)
	assert.Empty(t, replicas)
}

func TestListWithoutCredentials(t *testing.T) {
	svc := NewReplicaService(
		&fakeProvider{err: sensay.ErrMissingSecret},
		mapper.NewReplicaMapper(),
		nil,
		constant.DefaultSeedGuide,
		sensay.LLMSpec{},
		nopLogger{},
	)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, sensay.ErrMissingSecret)
}

func TestGetMapsGreeting(t *testing.T) {
	gw := &fakeGateway{
		getReplicaFn: func(ctx context.Context, id string) (*sensay.Replica, error) {
			return &sensay.Replica{UUID: id, Name: "Jane", Introduction: "Hello there"}, nil
		},
	}
	svc := newTestReplicaService(gw)

	replica, err := svc.Get(context.Background(), "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", replica.Greeting)
}
