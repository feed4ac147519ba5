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

// RegisterVoterCommand creates the caller's voter record for an election.
type RegisterVoterCommand struct {
	ElectionID uint64
	Caller     string
}

// RegisterVoterResult marks whether the call was an idempotent replay for an
// already-registered voter.
type RegisterVoterResult struct {
	Voter    entities.VoterRecord
	Replayed bool
}

// CastVoteCommand casts the caller's one weighted vote in an election.
type CastVoteCommand struct {
	ElectionID  uint64
	CandidateID uint64
	Caller      string
}

// CastVoteResult returns the latched voter record and the weight frozen into
// it at cast time.
type CastVoteResult struct {
	Voter  entities.VoterRecord
	Weight int64
}

// BallotUseCase owns per-voter cast records and running tallies. CastVote is
// the safety-critical path: its eligibility checks and effect block execute
// inside one repository transaction so concurrent casts from the same caller
// serialize into exactly one success.
type BallotUseCase struct {
	Ledger   ports.LedgerRepository
	Balances ports.BalanceSource
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// RegisterVoter records the caller as eligible to cast. Registration opens
// when nominations close (BetweenPhases) and stays open through Voting.
// Re-registering an already-registered voter is a no-op success.
func (uc BallotUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (RegisterVoterResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("voter registration processing started",
		"event", "ledger_register_voter_started",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"caller", strings.TrimSpace(cmd.Caller),
	)
	address := entities.NormalizeAddress(cmd.Caller)
	if address == "" {
		return RegisterVoterResult{}, domainerrors.ErrInvalidInput
	}

	now := uc.Clock.Now().UTC()
	var result RegisterVoterResult
	err := uc.Ledger.WithinTx(ctx, func(tx ports.LedgerRepository) error {
		election, err := tx.GetElection(ctx, cmd.ElectionID)
		if err != nil {
			return err
		}
		phase := election.PhaseAt(now)
		if phase != entities.PhaseBetweenPhases && phase != entities.PhaseVoting {
			return domainerrors.ErrPhaseViolation
		}
		if voter, found, err := tx.GetVoter(ctx, cmd.ElectionID, address); err != nil {
			return err
		} else if found && voter.Registered {
			result = RegisterVoterResult{Voter: voter, Replayed: true}
			return nil
		}
		voter := entities.VoterRecord{
			ElectionID: cmd.ElectionID,
			Address:    address,
			Registered: true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.SaveVoter(ctx, voter); err != nil {
			return err
		}
		result = RegisterVoterResult{Voter: voter}
		return appendLedgerEvent(ctx, tx, uc.IDGen, EventVoterRegistered, cmd.ElectionID, now, map[string]any{
			"election_id": cmd.ElectionID,
			"address":     address,
		})
	})
	if err != nil {
		logger.Warn("voter registration rejected",
			"event", "ledger_register_voter_rejected",
			"module", "governance/election-ledger",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"caller", address,
			"error", err.Error(),
		)
		return RegisterVoterResult{}, err
	}

	logger.Info("voter registered",
		"event", "ledger_voter_registered",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"caller", address,
		"replayed", result.Replayed,
	)
	return result, nil
}

// CastVote applies the caller's weighted vote. Preconditions are checked in
// order, first failure wins with no partial effects: Voting phase, known
// candidate, registered caller, untripped has-voted latch, positive balance.
// The effect block freezes the balance as the vote weight, latches the voter
// record, and bumps the candidate and election tallies atomically.
func (uc BallotUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("vote cast processing started",
		"event", "ledger_cast_vote_started",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"candidate_id", cmd.CandidateID,
		"caller", strings.TrimSpace(cmd.Caller),
	)
	address := entities.NormalizeAddress(cmd.Caller)
	if address == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidInput
	}

	now := uc.Clock.Now().UTC()
	var result CastVoteResult
	err := uc.Ledger.WithinTx(ctx, func(tx ports.LedgerRepository) error {
		election, err := tx.GetElection(ctx, cmd.ElectionID)
		if err != nil {
			return err
		}
		if election.PhaseAt(now) != entities.PhaseVoting {
			return domainerrors.ErrPhaseViolation
		}
		candidate, found, err := tx.GetCandidate(ctx, cmd.ElectionID, cmd.CandidateID)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrUnknownCandidate
		}
		voter, found, err := tx.GetVoter(ctx, cmd.ElectionID, address)
		if err != nil {
			return err
		}
		if !found || !voter.Registered {
			return domainerrors.ErrNotRegistered
		}
		if voter.HasVoted {
			return domainerrors.ErrAlreadyVoted
		}
		weight, err := uc.Balances.BalanceOf(ctx, address)
		if err != nil {
			return err
		}
		if weight <= 0 {
			return domainerrors.ErrNoVotingPower
		}

		candidateID := cmd.CandidateID
		voter.HasVoted = true
		voter.VotedCandidateID = &candidateID
		voter.WeightAtVoteTime = &weight
		voter.UpdatedAt = now
		if err := tx.SaveVoter(ctx, voter); err != nil {
			return err
		}
		candidate.VoteCount += weight
		candidate.UpdatedAt = now
		if err := tx.UpdateCandidate(ctx, candidate); err != nil {
			return err
		}
		election.TotalVotes += weight
		election.UpdatedAt = now
		if err := tx.UpdateElection(ctx, election); err != nil {
			return err
		}
		result = CastVoteResult{Voter: voter, Weight: weight}
		return appendLedgerEvent(ctx, tx, uc.IDGen, EventVoteCast, cmd.ElectionID, now, map[string]any{
			"election_id":  cmd.ElectionID,
			"candidate_id": cmd.CandidateID,
			"voter":        address,
			"weight":       weight,
		})
	})
	if err != nil {
		logger.Warn("vote cast rejected",
			"event", "ledger_cast_vote_rejected",
			"module", "governance/election-ledger",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"candidate_id", cmd.CandidateID,
			"caller", address,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "ledger_vote_cast",
		"module", "governance/election-ledger",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"candidate_id", cmd.CandidateID,
		"caller", address,
		"weight", result.Weight,
	)
	return result, nil
}
