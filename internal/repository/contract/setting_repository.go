package contract

import (
	"context"

	"realty-agent-be/internal/entity"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Put(ctx context.Context, key, value string) error
}
