package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid ledger input")
	ErrInvalidSchedule    = errors.New("election schedule is not strictly increasing")
	ErrPhaseViolation     = errors.New("action is not allowed in the election's current phase")
	ErrDuplicateCandidacy = errors.New("caller already holds a candidacy in this election")
	ErrUnknownCandidate   = errors.New("candidate does not exist for this election")
	ErrNotRegistered      = errors.New("voter is not registered for this election")
	ErrAlreadyVoted       = errors.New("voter has already cast a vote in this election")
	ErrNoVotingPower      = errors.New("caller holds no voting power")
	ErrElectionNotFound   = errors.New("election not found")
)
