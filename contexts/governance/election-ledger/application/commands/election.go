package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "psephos/contexts/governance/election-ledger/application"
	"psephos/contexts/governance/election-ledger/domain/entities"
	domainerrors "psephos/contexts/governance/election-ledger/domain/errors"
	"psephos/contexts/governance/election-ledger/ports"
)

// CreateElectionCommand is the write-model input for election creation. All
// four timestamps are absolute and must be strictly increasing.
type CreateElectionCommand struct {
	Caller          string
	Name            string
	Description     string
	NominationStart time.Time
	NominationEnd   time.Time
	VotingStart     time.Time
	VotingEnd       time.Time
}

// DeactivateElectionCommand requests terminal deactivation of an ended
// election.
type DeactivateElectionCommand struct {
	ElectionID uint64
	Caller     string
}

// DeactivateElectionResult marks whether the call was an idempotent replay
// against an already-inactive election.
type DeactivateElectionResult struct {
	Election entities.Election
	Replayed bool
}

// ElectionUseCase orchestrates election lifecycle intents: schedule
// validation, monotonic ID assignment, and terminal deactivation gated on
// the derived Ended phase.
type ElectionUseCase struct {
	Ledger ports.LedgerRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreateElection validates the schedule and persists the new election with
// the next sequential ID. The record and its creation audit event commit in
// one transaction.
func (uc ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("election create processing started",
		"event", "ledger_election_create_started",
		"module", "governance/election-ledger",
		"layer", "application",
		"caller", strings.TrimSpace(cmd.Caller),
		"name", strings.TrimSpace(cmd.Name),
	)
	if strings.TrimSpace(cmd.Caller) == "" || strings.TrimSpace(cmd.Name) == "" {
		logger.Warn("election create validation failed",
			"event", "ledger_election_create_validation_failed",
			"module", "governance/election-ledger",
			"layer", "application",
			"caller", strings.TrimSpace(cmd.Caller),
		)
		return entities.Election{}, domainerrors.ErrInvalidInput
	}

	now := uc.Clock.Now().UTC()
	election := entities.Election{
		Name:            strings.TrimSpace(cmd.Name),
		Description:     strings.TrimSpace(cmd.Description),
		Creator:         entities.NormalizeAddress(cmd.Caller),
		NominationStart: cmd.NominationStart.UTC(),
		NominationEnd:   cmd.NominationEnd.UTC(),
		VotingStart:     cmd.VotingStart.UTC(),
		VotingEnd:       cmd.VotingEnd.UTC(),
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if !election.HasValidSchedule() {
		logger.Warn("election create schedule rejected",
			"event", "ledger_election_create_schedule_rejected",
			"module", "governance/election-ledger",
			"layer", "application",
			"caller", election.Creator,
			"nomination_start", election.NominationStart,
			"voting_end", election.VotingEnd,
		)
		return entities.Election{}, domainerrors.ErrInvalidSchedule
	}

	err := uc.Ledger.WithinTx(ctx, func(tx ports.LedgerRepository) error {
		created, err := tx.InsertElection(ctx, election)
		if err != nil {
			return err
		}
		election = created
		return appendLedgerEvent(ctx, tx, uc.IDGen, EventElectionCreated, created.ElectionID, now, map[string]any{
			"election_id":      created.ElectionID,
			"name":             created.Name,
			"creator":          created.Creator,
			"nomination_start": created.NominationStart,
			"nomination_end":   created.NominationEnd,
			"voting_start":     created.VotingStart,
			"voting_end":       created.VotingEnd,
		})
	})
	if err != nil {
		logger.Error("election create transaction failed",
			"event", "ledger_election_create_failed",
			"module", "governance/election-ledger",
			"layer", "application",
			"caller", election.Creator,
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "ledger_election_created",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", election.ElectionID,
		"name", election.Name,
		"creator", election.Creator,
	)
	return election, nil
}

// DeactivateElection flips the active flag once the voting window has
// closed. Deactivating an already-inactive election is a no-op success.
func (uc ElectionUseCase) DeactivateElection(ctx context.Context, cmd DeactivateElectionCommand) (DeactivateElectionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("election deactivate processing started",
		"event", "ledger_election_deactivate_started",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"caller", strings.TrimSpace(cmd.Caller),
	)
	if strings.TrimSpace(cmd.Caller) == "" {
		return DeactivateElectionResult{}, domainerrors.ErrInvalidInput
	}

	now := uc.Clock.Now().UTC()
	var result DeactivateElectionResult
	err := uc.Ledger.WithinTx(ctx, func(tx ports.LedgerRepository) error {
		election, err := tx.GetElection(ctx, cmd.ElectionID)
		if err != nil {
			return err
		}
		if election.PhaseAt(now) != entities.PhaseEnded {
			return domainerrors.ErrPhaseViolation
		}
		if !election.Active {
			result = DeactivateElectionResult{Election: election, Replayed: true}
			return nil
		}
		election.Active = false
		election.UpdatedAt = now
		if err := tx.UpdateElection(ctx, election); err != nil {
			return err
		}
		result = DeactivateElectionResult{Election: election}
		return appendLedgerEvent(ctx, tx, uc.IDGen, EventElectionDeactivated, election.ElectionID, now, map[string]any{
			"election_id": election.ElectionID,
			"caller":      entities.NormalizeAddress(cmd.Caller),
		})
	})
	if err != nil {
		logger.Warn("election deactivate rejected",
			"event", "ledger_election_deactivate_rejected",
			"module", "governance/election-ledger",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"caller", strings.TrimSpace(cmd.Caller),
			"error", err.Error(),
		)
		return DeactivateElectionResult{}, err
	}

	logger.Info("election deactivated",
		"event", "ledger_election_deactivated",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"replayed", result.Replayed,
	)
	return result, nil
}
