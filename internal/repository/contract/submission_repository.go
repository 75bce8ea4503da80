package contract

import (
	"context"

	"realty-agent-be/internal/entity"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	FindByReplica(ctx context.Context, replicaID string, limit, offset int) ([]entity.Submission, error)
}
