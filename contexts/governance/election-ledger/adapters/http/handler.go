package httpadapter

import (
	"context"
	"log/slog"

	"psephos/contexts/governance/election-ledger/application/commands"
	"psephos/contexts/governance/election-ledger/application/queries"
	"psephos/contexts/governance/election-ledger/domain/entities"
	httptransport "psephos/contexts/governance/election-ledger/transport/http"
)

// Handler is the transport-facing facade over the ledger use cases. It maps
// DTOs to commands/queries and entities back to DTOs; HTTP status mapping
// lives in the platform server.
type Handler struct {
	Elections   commands.ElectionUseCase
	Candidacy   commands.CandidacyUseCase
	Ballots     commands.BallotUseCase
	Registry    queries.RegistryUseCase
	Eligibility queries.EligibilityUseCase
	Logger      *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Caller:          caller,
		Name:            req.Name,
		Description:     req.Description,
		NominationStart: req.NominationStart,
		NominationEnd:   req.NominationEnd,
		VotingStart:     req.VotingStart,
		VotingEnd:       req.VotingEnd,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election, election.PhaseAt(h.Registry.Clock.Now().UTC())), nil
}

func (h Handler) DeactivateElectionHandler(
	ctx context.Context,
	electionID uint64,
	caller string,
) (httptransport.DeactivateElectionResponse, error) {
	result, err := h.Elections.DeactivateElection(ctx, commands.DeactivateElectionCommand{
		ElectionID: electionID,
		Caller:     caller,
	})
	if err != nil {
		return httptransport.DeactivateElectionResponse{}, err
	}
	return httptransport.DeactivateElectionResponse{
		ElectionID: result.Election.ElectionID,
		Active:     result.Election.Active,
		Replayed:   result.Replayed,
	}, nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID uint64) (httptransport.ElectionResponse, error) {
	view, err := h.Registry.GetElection(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(view.Election, view.Phase), nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Registry.ListElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(views))
	for _, view := range views {
		items = append(items, mapElection(view.Election, view.Phase))
	}
	return httptransport.ElectionListResponse{Items: items}, nil
}

func (h Handler) NominateHandler(
	ctx context.Context,
	electionID uint64,
	caller string,
	req httptransport.NominateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Candidacy.Nominate(ctx, commands.NominateCommand{
		ElectionID:   electionID,
		Caller:       caller,
		Name:         req.Name,
		ManifestoURI: req.ManifestoURI,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, electionID uint64) (httptransport.CandidateListResponse, error) {
	candidates, err := h.Registry.ListCandidates(ctx, electionID)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, mapCandidate(candidate))
	}
	return httptransport.CandidateListResponse{Items: items}, nil
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	electionID uint64,
	caller string,
) (httptransport.RegisterVoterResponse, error) {
	result, err := h.Ballots.RegisterVoter(ctx, commands.RegisterVoterCommand{
		ElectionID: electionID,
		Caller:     caller,
	})
	if err != nil {
		return httptransport.RegisterVoterResponse{}, err
	}
	return httptransport.RegisterVoterResponse{
		ElectionID: result.Voter.ElectionID,
		Address:    result.Voter.Address,
		Registered: result.Voter.Registered,
		Replayed:   result.Replayed,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	electionID uint64,
	caller string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Ballots.CastVote(ctx, commands.CastVoteCommand{
		ElectionID:  electionID,
		CandidateID: req.CandidateID,
		Caller:      caller,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		ElectionID:  result.Voter.ElectionID,
		CandidateID: req.CandidateID,
		Voter:       result.Voter.Address,
		Weight:      result.Weight,
	}, nil
}

func (h Handler) GetVoterHandler(
	ctx context.Context,
	electionID uint64,
	address string,
) (httptransport.VoterResponse, error) {
	voter, err := h.Registry.Voter(ctx, electionID, address)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return httptransport.VoterResponse{
		ElectionID:       voter.ElectionID,
		Address:          voter.Address,
		Registered:       voter.Registered,
		HasVoted:         voter.HasVoted,
		VotedCandidateID: voter.VotedCandidateID,
		WeightAtVoteTime: voter.WeightAtVoteTime,
	}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionID uint64) (httptransport.ResultsResponse, error) {
	view, err := h.Registry.GetElection(ctx, electionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	tallies, err := h.Registry.Results(ctx, electionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	items := make([]httptransport.ResultRow, 0, len(tallies))
	for _, tally := range tallies {
		items = append(items, httptransport.ResultRow{
			CandidateID: tally.CandidateID,
			Name:        tally.Name,
			VoteCount:   tally.VoteCount,
		})
	}
	return httptransport.ResultsResponse{
		ElectionID: electionID,
		Phase:      string(view.Phase),
		TotalVotes: view.Election.TotalVotes,
		Items:      items,
	}, nil
}

func (h Handler) EligibilityHandler(
	ctx context.Context,
	electionID uint64,
	address string,
) (httptransport.EligibilityResponse, error) {
	phase, err := h.Registry.PhaseOf(ctx, electionID)
	if err != nil {
		return httptransport.EligibilityResponse{}, err
	}
	nominate, err := h.Eligibility.CanNominate(ctx, electionID, address)
	if err != nil {
		return httptransport.EligibilityResponse{}, err
	}
	vote, err := h.Eligibility.CanVote(ctx, electionID, address)
	if err != nil {
		return httptransport.EligibilityResponse{}, err
	}
	power, err := h.Eligibility.VotingPower(ctx, address)
	if err != nil {
		return httptransport.EligibilityResponse{}, err
	}
	return httptransport.EligibilityResponse{
		ElectionID:     electionID,
		Address:        address,
		Phase:          string(phase),
		CanNominate:    nominate.Allowed,
		NominateReason: nominate.Reason,
		CanVote:        vote.Allowed,
		VoteReason:     vote.Reason,
		VotingPower:    power,
	}, nil
}

func mapElection(election entities.Election, phase entities.Phase) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:      election.ElectionID,
		Name:            election.Name,
		Description:     election.Description,
		Creator:         election.Creator,
		NominationStart: election.NominationStart,
		NominationEnd:   election.NominationEnd,
		VotingStart:     election.VotingStart,
		VotingEnd:       election.VotingEnd,
		Phase:           string(phase),
		TotalVotes:      election.TotalVotes,
		Active:          election.Active,
		CreatedAt:       election.CreatedAt,
	}
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		ElectionID:   candidate.ElectionID,
		CandidateID:  candidate.CandidateID,
		Nominator:    candidate.Nominator,
		Name:         candidate.Name,
		ManifestoURI: candidate.ManifestoURI,
		VoteCount:    candidate.VoteCount,
	}
}
