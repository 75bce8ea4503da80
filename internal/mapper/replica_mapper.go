package mapper

import (
	"realty-agent-be/internal/dto"
	"realty-agent-be/pkg/sensay"
)

type ReplicaMapper struct{}

func NewReplicaMapper() *ReplicaMapper {
	return &ReplicaMapper{}
}

func (m *ReplicaMapper) ToResponse(r *sensay.Replica) *dto.ReplicaResponse {
	if r == nil {
		return nil
	}
	return &dto.ReplicaResponse{
		UUID:             r.UUID,
		Name:             r.Name,
		Slug:             r.Slug,
		ShortDescription: r.ShortDescription,
		Greeting:         r.Introduction,
		ProfileImage:     r.ProfileImage,
	}
}

func (m *ReplicaMapper) ToResponseList(replicas []sensay.Replica) []dto.ReplicaResponse {
	responses := make([]dto.ReplicaResponse, 0, len(replicas))
	for i := range replicas {
		responses = append(responses, *m.ToResponse(&replicas[i]))
	}
	return responses
}
