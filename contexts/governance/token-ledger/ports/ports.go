package ports

import (
	"context"
	"time"

	"psephos/contexts/governance/token-ledger/domain/entities"
)

// AccountRepository stores token accounts. WithinTx gives transfer intents
// the same read-validate-write indivisibility the election ledger relies on
// for vote casting.
type AccountRepository interface {
	GetAccount(ctx context.Context, address string) (entities.Account, bool, error)
	SaveAccount(ctx context.Context, account entities.Account) error
	TotalSupply(ctx context.Context) (int64, error)
	WithinTx(ctx context.Context, fn func(tx AccountRepository) error) error
}

type Clock interface {
	Now() time.Time
}
