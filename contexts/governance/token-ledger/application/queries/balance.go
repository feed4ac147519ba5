package queries

import (
	"context"

	"psephos/contexts/governance/token-ledger/domain/entities"
	"psephos/contexts/governance/token-ledger/ports"
)

// BalanceUseCase serves balance reads. An address with no account reads as
// zero, so the election ledger can treat "never funded" and "empty" alike.
type BalanceUseCase struct {
	Accounts ports.AccountRepository
}

func (uc BalanceUseCase) BalanceOf(ctx context.Context, address string) (int64, error) {
	account, found, err := uc.Accounts.GetAccount(ctx, entities.NormalizeAddress(address))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return account.Balance, nil
}

func (uc BalanceUseCase) TotalSupply(ctx context.Context) (int64, error) {
	return uc.Accounts.TotalSupply(ctx)
}
