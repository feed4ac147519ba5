package queries

import (
	"context"

	"psephos/contexts/governance/election-ledger/domain/entities"
	"psephos/contexts/governance/election-ledger/ports"
)

// ElectionView pairs an election record with its phase derived at read time.
type ElectionView struct {
	Election entities.Election
	Phase    entities.Phase
}

// RegistryUseCase serves the read-only projections: election lists, candidate
// rosters, tallies, and per-voter records. Reads never mutate and are valid
// in every phase; in-progress elections show partial tallies.
type RegistryUseCase struct {
	Ledger ports.LedgerRepository
	Clock  ports.Clock
}

func (uc RegistryUseCase) GetElection(ctx context.Context, electionID uint64) (ElectionView, error) {
	election, err := uc.Ledger.GetElection(ctx, electionID)
	if err != nil {
		return ElectionView{}, err
	}
	return ElectionView{
		Election: election,
		Phase:    election.PhaseAt(uc.Clock.Now().UTC()),
	}, nil
}

func (uc RegistryUseCase) ListElections(ctx context.Context) ([]ElectionView, error) {
	elections, err := uc.Ledger.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.Clock.Now().UTC()
	views := make([]ElectionView, 0, len(elections))
	for _, election := range elections {
		views = append(views, ElectionView{
			Election: election,
			Phase:    election.PhaseAt(now),
		})
	}
	return views, nil
}

// PhaseOf derives the election's phase from the injected clock. The result
// is a pure function of (now, election record).
func (uc RegistryUseCase) PhaseOf(ctx context.Context, electionID uint64) (entities.Phase, error) {
	election, err := uc.Ledger.GetElection(ctx, electionID)
	if err != nil {
		return "", err
	}
	return election.PhaseAt(uc.Clock.Now().UTC()), nil
}

// ListCandidates returns the roster ordered by candidate ID ascending.
func (uc RegistryUseCase) ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error) {
	if _, err := uc.Ledger.GetElection(ctx, electionID); err != nil {
		return nil, err
	}
	return uc.Ledger.ListCandidates(ctx, electionID)
}

// Results returns (candidateID, voteCount) rows in ListCandidates order.
func (uc RegistryUseCase) Results(ctx context.Context, electionID uint64) ([]entities.CandidateTally, error) {
	candidates, err := uc.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, err
	}
	tallies := make([]entities.CandidateTally, 0, len(candidates))
	for _, candidate := range candidates {
		tallies = append(tallies, entities.CandidateTally{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Name,
			VoteCount:   candidate.VoteCount,
		})
	}
	return tallies, nil
}

// Voter returns the (election, address) record. An address that never
// registered yields an empty, unregistered record rather than an error.
func (uc RegistryUseCase) Voter(ctx context.Context, electionID uint64, address string) (entities.VoterRecord, error) {
	if _, err := uc.Ledger.GetElection(ctx, electionID); err != nil {
		return entities.VoterRecord{}, err
	}
	address = entities.NormalizeAddress(address)
	voter, found, err := uc.Ledger.GetVoter(ctx, electionID, address)
	if err != nil {
		return entities.VoterRecord{}, err
	}
	if !found {
		return entities.VoterRecord{
			ElectionID: electionID,
			Address:    address,
		}, nil
	}
	return voter, nil
}
