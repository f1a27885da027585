package audit

import "context"

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByRequestKey(ctx context.Context, requestKey string) (*Request, error)
	GetByRequestKeyForUpdate(ctx context.Context, requestKey string) (*Request, error)
	Save(ctx context.Context, r *Request) error
}
