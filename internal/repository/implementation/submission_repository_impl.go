package implementation

import (
	"context"

	"realty-agent-be/internal/entity"
	"realty-agent-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SubmissionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) contract.SubmissionRepository {
	return &SubmissionRepositoryImpl{db: db}
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, submission *entity.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *SubmissionRepositoryImpl) FindByReplica(ctx context.Context, replicaID string, limit, offset int) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.WithContext(ctx).
		Where("replica_id = ?", replicaID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error
	return submissions, err
}
