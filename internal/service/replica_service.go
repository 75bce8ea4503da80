package service

import (
	"context"

	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/mapper"
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/pkg/events"
	pkgnats "realty-agent-be/pkg/nats"
	"realty-agent-be/pkg/sensay"
)

type IReplicaService interface {
	List(ctx context.Context) ([]dto.ReplicaResponse, error)
	Get(ctx context.Context, id string) (*dto.ReplicaResponse, error)
	Create(ctx context.Context, req *dto.CreateReplicaRequest) (*dto.CreateReplicaResponse, error)
}

type replicaService struct {
	provider       GatewayProvider
	replicaMapper  *mapper.ReplicaMapper
	eventPublisher *pkgnats.Publisher
	seedGuide      string
	llm            sensay.LLMSpec
	logger         logger.ILogger
}

func NewReplicaService(
	provider GatewayProvider,
	replicaMapper *mapper.ReplicaMapper,
	eventPublisher *pkgnats.Publisher,
	seedGuide string,
	llm sensay.LLMSpec,
	logger logger.ILogger,
) IReplicaService {
	return &replicaService{
		provider:       provider,
		replicaMapper:  replicaMapper,
		eventPublisher: eventPublisher,
		seedGuide:      seedGuide,
		llm:            llm,
		logger:         logger,
	}
}

// List degrades on remote failure: the dashboard gets an empty list and a
// notification instead of an error page. A missing credential is still fatal,
// it sends the dashboard to the setup screen.
func (s *replicaService) List(ctx context.Context) ([]dto.ReplicaResponse, error) {
	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	replicas, err := gw.ListReplicas(ctx)
	if err != nil {
		s.logger.Warn("replica", "replica list fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.publishEvent(ctx, constant.EventRemoteReadDegraded, map[string]interface{}{
			"resource": "agents",
		})
		return []dto.ReplicaResponse{}, nil
	}
	return s.replicaMapper.ToResponseList(replicas), nil
}

func (s *replicaService) Get(ctx context.Context, id string) (*dto.ReplicaResponse, error) {
	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	replica, err := gw.GetReplica(ctx, id)
	if err != nil {
		if sensay.IsRemoteError(err) {
			s.publishEvent(ctx, constant.EventRemoteReadDegraded, map[string]interface{}{
				"resource":   "agent",
				"replica_id": id,
			})
		}
		return nil, err
	}
	return s.replicaMapper.ToResponse(replica), nil
}

// Create runs the two-phase provisioning: create the replica, then seed its
// behavior guide as the first knowledge item. A seeding failure does not roll
// anything back; the replica exists and the response says the guide is
// missing.
func (s *replicaService) Create(ctx context.Context, req *dto.CreateReplicaRequest) (*dto.CreateReplicaResponse, error) {
	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	replica, err := gw.CreateReplica(ctx, sensay.CreateReplicaInput{
		Name:             req.Name,
		ShortDescription: req.ShortDescription,
		Greeting:         req.Greeting,
		Slug:             req.Slug,
		ProfileImage:     req.ProfileImage,
		OwnerID:          s.provider.UserID(),
		LLM:              s.llm,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CreateReplicaResponse{
		Replica: *s.replicaMapper.ToResponse(replica),
		Seeded:  true,
	}

	if _, err := gw.AddTextKnowledge(ctx, replica.UUID, s.seedGuide, constant.SeedGuideTitle); err != nil {
		s.logger.Error("replica", "behavior guide seeding failed", map[string]interface{}{
			"replica_id": replica.UUID,
			"error":      err.Error(),
		})
		resp.Seeded = false
		resp.SeedError = "The agent was created, but its behavior guide could not be attached. Re-submit it from the knowledge page."
		s.publishEvent(ctx, constant.EventReplicaSeedFailed, map[string]interface{}{
			"name": replica.Name,
			"slug": replica.Slug,
		})
		return resp, nil
	}

	s.publishEvent(ctx, constant.EventReplicaCreated, map[string]interface{}{
		"name": replica.Name,
		"slug": replica.Slug,
	})
	return resp, nil
}

func (s *replicaService) publishEvent(ctx context.Context, typeCode string, payload map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(typeCode, payload)); err != nil {
		s.logger.Warn("replica", "failed to publish event", map[string]interface{}{
			"event": typeCode,
			"error": err.Error(),
		})
	}
}
