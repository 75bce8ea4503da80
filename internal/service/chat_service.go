package service

import (
	"context"
	"strings"

	"realty-agent-be/internal/dto"
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/internal/pkg/serverutils"
)

type IChatService interface {
	Send(ctx context.Context, replicaID string, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	provider GatewayProvider
	logger   logger.ILogger
}

func NewChatService(provider GatewayProvider, logger logger.ILogger) IChatService {
	return &chatService{provider: provider, logger: logger}
}

// Send forwards one message under the acting user identity. There is no local
// conversation state; history lives on the platform side.
func (s *chatService) Send(ctx context.Context, replicaID string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, serverutils.NewFieldError("content", "Message cannot be empty.")
	}

	gw, err := s.provider.Gateway()
	if err != nil {
		return nil, err
	}

	reply, err := gw.SendChatMessage(ctx, replicaID, content)
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{Content: reply}, nil
}
