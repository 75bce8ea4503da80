package mapper

import (
	"realty-agent-be/internal/dto"
	"realty-agent-be/pkg/sensay"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

// ToResponse flattens the remote item and pre-computes terminality so the
// dashboard never re-implements the status classification.
func (m *KnowledgeMapper) ToResponse(item *sensay.KnowledgeItem) *dto.KnowledgeItemResponse {
	if item == nil {
		return nil
	}
	return &dto.KnowledgeItemResponse{
		ID:        item.ID,
		Kind:      item.Type,
		Status:    string(item.Status),
		Terminal:  item.Status.Terminal(),
		Failed:    item.Status.Failed(),
		Title:     item.Title,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func (m *KnowledgeMapper) ToResponseList(items []sensay.KnowledgeItem) []dto.KnowledgeItemResponse {
	responses := make([]dto.KnowledgeItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *m.ToResponse(&items[i]))
	}
	return responses
}
