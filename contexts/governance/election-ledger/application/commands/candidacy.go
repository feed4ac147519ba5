package commands

import (
	"context"
	"log/slog"
	"strings"

	application "psephos/contexts/governance/election-ledger/application"
	"psephos/contexts/governance/election-ledger/domain/entities"
	domainerrors "psephos/contexts/governance/election-ledger/domain/errors"
	"psephos/contexts/governance/election-ledger/ports"
)

// NominateCommand registers the caller as a candidate in an election's
// nomination window.
type NominateCommand struct {
	ElectionID   uint64
	Caller       string
	Name         string
	ManifestoURI string
}

// CandidacyUseCase owns the per-election candidate roster: nomination-phase
// gating, one candidacy per principal, and sequential candidate IDs.
type CandidacyUseCase struct {
	Ledger ports.LedgerRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Nominate assigns the next candidate ID for the election (starting at 1)
// and stores the record with a zero tally. Allowed only while the election
// is in its Nomination phase; a principal may hold at most one slot.
func (uc CandidacyUseCase) Nominate(ctx context.Context, cmd NominateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("nomination processing started",
		"event", "ledger_nominate_started",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"caller", strings.TrimSpace(cmd.Caller),
	)
	if strings.TrimSpace(cmd.Caller) == "" || strings.TrimSpace(cmd.Name) == "" {
		logger.Warn("nomination validation failed",
			"event", "ledger_nominate_validation_failed",
			"module", "governance/election-ledger",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"caller", strings.TrimSpace(cmd.Caller),
		)
		return entities.Candidate{}, domainerrors.ErrInvalidInput
	}

	now := uc.Clock.Now().UTC()
	candidate := entities.Candidate{
		ElectionID:   cmd.ElectionID,
		Nominator:    entities.NormalizeAddress(cmd.Caller),
		Name:         strings.TrimSpace(cmd.Name),
		ManifestoURI: strings.TrimSpace(cmd.ManifestoURI),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.Ledger.WithinTx(ctx, func(tx ports.LedgerRepository) error {
		election, err := tx.GetElection(ctx, cmd.ElectionID)
		if err != nil {
			return err
		}
		if election.PhaseAt(now) != entities.PhaseNomination {
			return domainerrors.ErrPhaseViolation
		}
		if _, found, err := tx.GetCandidateByNominator(ctx, cmd.ElectionID, candidate.Nominator); err != nil {
			return err
		} else if found {
			return domainerrors.ErrDuplicateCandidacy
		}
		created, err := tx.InsertCandidate(ctx, candidate)
		if err != nil {
			return err
		}
		candidate = created
		return appendLedgerEvent(ctx, tx, uc.IDGen, EventCandidateNominated, cmd.ElectionID, now, map[string]any{
			"election_id":  cmd.ElectionID,
			"candidate_id": created.CandidateID,
			"nominator":    created.Nominator,
			"name":         created.Name,
		})
	})
	if err != nil {
		logger.Warn("nomination rejected",
			"event", "ledger_nominate_rejected",
			"module", "governance/election-ledger",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"caller", candidate.Nominator,
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}

	logger.Info("candidate nominated",
		"event", "ledger_candidate_nominated",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"candidate_id", candidate.CandidateID,
		"nominator", candidate.Nominator,
	)
	return candidate, nil
}
