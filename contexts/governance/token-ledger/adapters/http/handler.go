package httpadapter

import (
	"context"
	"log/slog"

	"psephos/contexts/governance/token-ledger/application/commands"
	"psephos/contexts/governance/token-ledger/application/queries"
	httptransport "psephos/contexts/governance/token-ledger/transport/http"
)

type Handler struct {
	Transfers commands.TransferUseCase
	Balances  queries.BalanceUseCase
	Logger    *slog.Logger
}

func (h Handler) MintHandler(ctx context.Context, req httptransport.MintRequest) (httptransport.AccountResponse, error) {
	account, err := h.Transfers.Mint(ctx, commands.MintCommand{
		To:     req.To,
		Amount: req.Amount,
	})
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return httptransport.AccountResponse{
		Address: account.Address,
		Balance: account.Balance,
	}, nil
}

func (h Handler) TransferHandler(
	ctx context.Context,
	caller string,
	req httptransport.TransferRequest,
) (httptransport.AccountResponse, error) {
	account, err := h.Transfers.Transfer(ctx, commands.TransferCommand{
		From:   caller,
		To:     req.To,
		Amount: req.Amount,
	})
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return httptransport.AccountResponse{
		Address: account.Address,
		Balance: account.Balance,
	}, nil
}

func (h Handler) BalanceHandler(ctx context.Context, address string) (httptransport.AccountResponse, error) {
	balance, err := h.Balances.BalanceOf(ctx, address)
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return httptransport.AccountResponse{
		Address: address,
		Balance: balance,
	}, nil
}

func (h Handler) SupplyHandler(ctx context.Context) (httptransport.SupplyResponse, error) {
	total, err := h.Balances.TotalSupply(ctx)
	if err != nil {
		return httptransport.SupplyResponse{}, err
	}
	return httptransport.SupplyResponse{TotalSupply: total}, nil
}
