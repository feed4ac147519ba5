package entities

import "time"

// Phase is derived from the current time and an election's four timestamps.
// It is never stored; every call that needs it recomputes it.
type Phase string

const (
	PhaseScheduled     Phase = "scheduled"
	PhaseNomination    Phase = "nomination"
	PhaseBetweenPhases Phase = "between_phases"
	PhaseVoting        Phase = "voting"
	PhaseEnded         Phase = "ended"
)

type Election struct {
	ElectionID      uint64
	Name            string
	Description     string
	Creator         string
	NominationStart time.Time
	NominationEnd   time.Time
	VotingStart     time.Time
	VotingEnd       time.Time
	TotalVotes      int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PhaseAt derives the election phase at the given instant. Deactivation is
// terminal, so an inactive election reports Ended regardless of the clock.
func (e Election) PhaseAt(now time.Time) Phase {
	if !e.Active || !now.Before(e.VotingEnd) {
		return PhaseEnded
	}
	switch {
	case now.Before(e.NominationStart):
		return PhaseScheduled
	case now.Before(e.NominationEnd):
		return PhaseNomination
	case now.Before(e.VotingStart):
		return PhaseBetweenPhases
	default:
		return PhaseVoting
	}
}

// HasValidSchedule reports whether the four timestamps are strictly
// increasing. Zero-length phases are disallowed.
func (e Election) HasValidSchedule() bool {
	return e.NominationStart.Before(e.NominationEnd) &&
		e.NominationEnd.Before(e.VotingStart) &&
		e.VotingStart.Before(e.VotingEnd)
}

type Candidate struct {
	ElectionID   uint64
	CandidateID  uint64
	Nominator    string
	Name         string
	ManifestoURI string
	VoteCount    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VoterRecord tracks registration and the one-way has-voted latch for one
// (election, address) pair. VotedCandidateID and WeightAtVoteTime are set
// exactly once, the instant HasVoted flips, and are immutable afterwards.
type VoterRecord struct {
	ElectionID       uint64
	Address          string
	Registered       bool
	HasVoted         bool
	VotedCandidateID *uint64
	WeightAtVoteTime *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CandidateTally is one row of an election's results projection, ordered the
// same way as the candidate roster.
type CandidateTally struct {
	CandidateID uint64
	Name        string
	VoteCount   int64
}
