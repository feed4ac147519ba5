package commands

import (
	"context"
	"log/slog"

	application "psephos/contexts/governance/token-ledger/application"
	"psephos/contexts/governance/token-ledger/domain/entities"
	domainerrors "psephos/contexts/governance/token-ledger/domain/errors"
	"psephos/contexts/governance/token-ledger/ports"
)

// MintCommand credits newly issued tokens to an address. Allocation is an
// operational-layer concern; the ledger only enforces a positive amount.
type MintCommand struct {
	To     string
	Amount int64
}

// TransferCommand moves tokens between two addresses.
type TransferCommand struct {
	From   string
	To     string
	Amount int64
}

// TransferUseCase orchestrates balance mutations. Each intent runs inside
// one repository transaction so concurrent transfers from one address cannot
// overdraw it.
type TransferUseCase struct {
	Accounts ports.AccountRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc TransferUseCase) Mint(ctx context.Context, cmd MintCommand) (entities.Account, error) {
	logger := application.ResolveLogger(uc.Logger)
	to := entities.NormalizeAddress(cmd.To)
	if to == "" || cmd.Amount <= 0 {
		logger.Warn("mint validation failed",
			"event", "token_mint_validation_failed",
			"module", "governance/token-ledger",
			"layer", "application",
			"to", to,
			"amount", cmd.Amount,
		)
		return entities.Account{}, domainerrors.ErrInvalidTokenInput
	}

	now := uc.Clock.Now().UTC()
	var account entities.Account
	err := uc.Accounts.WithinTx(ctx, func(tx ports.AccountRepository) error {
		existing, found, err := tx.GetAccount(ctx, to)
		if err != nil {
			return err
		}
		if !found {
			existing = entities.Account{Address: to, CreatedAt: now}
		}
		existing.Balance += cmd.Amount
		existing.UpdatedAt = now
		if err := tx.SaveAccount(ctx, existing); err != nil {
			return err
		}
		account = existing
		return nil
	})
	if err != nil {
		logger.Error("mint failed",
			"event", "token_mint_failed",
			"module", "governance/token-ledger",
			"layer", "application",
			"to", to,
			"error", err.Error(),
		)
		return entities.Account{}, err
	}

	logger.Info("tokens minted",
		"event", "token_minted",
		"module", "governance/token-ledger",
		"layer", "application",
		"to", to,
		"amount", cmd.Amount,
		"balance", account.Balance,
	)
	return account, nil
}

func (uc TransferUseCase) Transfer(ctx context.Context, cmd TransferCommand) (entities.Account, error) {
	logger := application.ResolveLogger(uc.Logger)
	from := entities.NormalizeAddress(cmd.From)
	to := entities.NormalizeAddress(cmd.To)
	if from == "" || to == "" || cmd.Amount <= 0 {
		return entities.Account{}, domainerrors.ErrInvalidTokenInput
	}
	if from == to {
		return entities.Account{}, domainerrors.ErrSelfTransfer
	}

	now := uc.Clock.Now().UTC()
	var sender entities.Account
	err := uc.Accounts.WithinTx(ctx, func(tx ports.AccountRepository) error {
		source, found, err := tx.GetAccount(ctx, from)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrAccountNotFound
		}
		if source.Balance < cmd.Amount {
			return domainerrors.ErrInsufficientBalance
		}
		target, found, err := tx.GetAccount(ctx, to)
		if err != nil {
			return err
		}
		if !found {
			target = entities.Account{Address: to, CreatedAt: now}
		}
		source.Balance -= cmd.Amount
		source.UpdatedAt = now
		target.Balance += cmd.Amount
		target.UpdatedAt = now
		if err := tx.SaveAccount(ctx, source); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, target); err != nil {
			return err
		}
		sender = source
		return nil
	})
	if err != nil {
		logger.Warn("transfer rejected",
			"event", "token_transfer_rejected",
			"module", "governance/token-ledger",
			"layer", "application",
			"from", from,
			"to", to,
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.Account{}, err
	}

	logger.Info("tokens transferred",
		"event", "token_transferred",
		"module", "governance/token-ledger",
		"layer", "application",
		"from", from,
		"to", to,
		"amount", cmd.Amount,
	)
	return sender, nil
}
