package receipt

import "context"

type Repository interface {
	CreateAccount(ctx context.Context, a *TokenAccount) error
	GetAccountByKey(ctx context.Context, accountKey string) (*TokenAccount, error)
	GetAccountByKeyForUpdate(ctx context.Context, accountKey string) (*TokenAccount, error)
	SaveAccount(ctx context.Context, a *TokenAccount) error

	CreateMint(ctx context.Context, m *Mint) error
	GetMintByPoolKeyForUpdate(ctx context.Context, poolKey string) (*Mint, error)
	SaveMint(ctx context.Context, m *Mint) error
}
