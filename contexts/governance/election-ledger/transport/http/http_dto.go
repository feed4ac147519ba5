package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	NominationStart time.Time `json:"nomination_start"`
	NominationEnd   time.Time `json:"nomination_end"`
	VotingStart     time.Time `json:"voting_start"`
	VotingEnd       time.Time `json:"voting_end"`
}

type ElectionResponse struct {
	ElectionID      uint64    `json:"election_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Creator         string    `json:"creator"`
	NominationStart time.Time `json:"nomination_start"`
	NominationEnd   time.Time `json:"nomination_end"`
	VotingStart     time.Time `json:"voting_start"`
	VotingEnd       time.Time `json:"voting_end"`
	Phase           string    `json:"phase"`
	TotalVotes      int64     `json:"total_votes"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}

type DeactivateElectionResponse struct {
	ElectionID uint64 `json:"election_id"`
	Active     bool   `json:"active"`
	Replayed   bool   `json:"replayed"`
}

type NominateRequest struct {
	Name         string `json:"name"`
	ManifestoURI string `json:"manifesto_uri,omitempty"`
}

type CandidateResponse struct {
	ElectionID   uint64 `json:"election_id"`
	CandidateID  uint64 `json:"candidate_id"`
	Nominator    string `json:"nominator"`
	Name         string `json:"name"`
	ManifestoURI string `json:"manifesto_uri,omitempty"`
	VoteCount    int64  `json:"vote_count"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

type RegisterVoterResponse struct {
	ElectionID uint64 `json:"election_id"`
	Address    string `json:"address"`
	Registered bool   `json:"registered"`
	Replayed   bool   `json:"replayed"`
}

type CastVoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
}

type CastVoteResponse struct {
	ElectionID  uint64 `json:"election_id"`
	CandidateID uint64 `json:"candidate_id"`
	Voter       string `json:"voter"`
	Weight      int64  `json:"weight"`
}

type VoterResponse struct {
	ElectionID       uint64  `json:"election_id"`
	Address          string  `json:"address"`
	Registered       bool    `json:"registered"`
	HasVoted         bool    `json:"has_voted"`
	VotedCandidateID *uint64 `json:"voted_candidate_id,omitempty"`
	WeightAtVoteTime *int64  `json:"weight_at_vote_time,omitempty"`
}

type ResultRow struct {
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   int64  `json:"vote_count"`
}

type ResultsResponse struct {
	ElectionID uint64      `json:"election_id"`
	Phase      string      `json:"phase"`
	TotalVotes int64       `json:"total_votes"`
	Items      []ResultRow `json:"items"`
}

type EligibilityResponse struct {
	ElectionID     uint64 `json:"election_id"`
	Address        string `json:"address"`
	Phase          string `json:"phase"`
	CanNominate    bool   `json:"can_nominate"`
	NominateReason string `json:"nominate_reason"`
	CanVote        bool   `json:"can_vote"`
	VoteReason     string `json:"vote_reason"`
	VotingPower    int64  `json:"voting_power"`
}
