package attestation

import "context"

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByHash(ctx context.Context, attestationHash string) (*Record, error)
	Save(ctx context.Context, r *Record) error
}
