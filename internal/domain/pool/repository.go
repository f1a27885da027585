package pool

import "context"

type Repository interface {
	Create(ctx context.Context, p *Record) error
	GetByPoolKey(ctx context.Context, poolKey string) (*Record, error)
	GetByPoolKeyForUpdate(ctx context.Context, poolKey string) (*Record, error)
	Save(ctx context.Context, p *Record) error
}
