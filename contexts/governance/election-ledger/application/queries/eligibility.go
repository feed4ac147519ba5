package queries

import (
	"context"

	"psephos/contexts/governance/election-ledger/domain/entities"
	"psephos/contexts/governance/election-ledger/ports"
)

// Eligibility reason codes mirror the rejection taxonomy of the matching
// mutating intent so collaborators can pre-flight without a write attempt.
const (
	ReasonOK                 = "ok"
	ReasonPhaseViolation     = "phase_violation"
	ReasonDuplicateCandidacy = "duplicate_candidacy"
	ReasonNotRegistered      = "not_registered"
	ReasonAlreadyVoted       = "already_voted"
	ReasonNoVotingPower      = "no_voting_power"
)

type Eligibility struct {
	Allowed bool
	Reason  string
}

// EligibilityUseCase answers "can this principal nominate/vote right now"
// without mutating anything. Answers agree with what Nominate/CastVote would
// do if invoked immediately afterward under no intervening writes.
type EligibilityUseCase struct {
	Ledger   ports.LedgerRepository
	Balances ports.BalanceSource
	Clock    ports.Clock
}

func (uc EligibilityUseCase) CanNominate(ctx context.Context, electionID uint64, address string) (Eligibility, error) {
	election, err := uc.Ledger.GetElection(ctx, electionID)
	if err != nil {
		return Eligibility{}, err
	}
	if election.PhaseAt(uc.Clock.Now().UTC()) != entities.PhaseNomination {
		return Eligibility{Reason: ReasonPhaseViolation}, nil
	}
	if _, found, err := uc.Ledger.GetCandidateByNominator(ctx, electionID, entities.NormalizeAddress(address)); err != nil {
		return Eligibility{}, err
	} else if found {
		return Eligibility{Reason: ReasonDuplicateCandidacy}, nil
	}
	return Eligibility{Allowed: true, Reason: ReasonOK}, nil
}

func (uc EligibilityUseCase) CanVote(ctx context.Context, electionID uint64, address string) (Eligibility, error) {
	election, err := uc.Ledger.GetElection(ctx, electionID)
	if err != nil {
		return Eligibility{}, err
	}
	if election.PhaseAt(uc.Clock.Now().UTC()) != entities.PhaseVoting {
		return Eligibility{Reason: ReasonPhaseViolation}, nil
	}
	voter, found, err := uc.Ledger.GetVoter(ctx, electionID, entities.NormalizeAddress(address))
	if err != nil {
		return Eligibility{}, err
	}
	if !found || !voter.Registered {
		return Eligibility{Reason: ReasonNotRegistered}, nil
	}
	if voter.HasVoted {
		return Eligibility{Reason: ReasonAlreadyVoted}, nil
	}
	weight, err := uc.Balances.BalanceOf(ctx, entities.NormalizeAddress(address))
	if err != nil {
		return Eligibility{}, err
	}
	if weight <= 0 {
		return Eligibility{Reason: ReasonNoVotingPower}, nil
	}
	return Eligibility{Allowed: true, Reason: ReasonOK}, nil
}

// VotingPower delegates to the token-ledger collaborator. The value is
// advisory until CastVote freezes it into the voter record.
func (uc EligibilityUseCase) VotingPower(ctx context.Context, address string) (int64, error) {
	return uc.Balances.BalanceOf(ctx, entities.NormalizeAddress(address))
}
