package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	ledgererrors "psephos/contexts/governance/election-ledger/domain/errors"
	ledgerhttp "psephos/contexts/governance/election-ledger/transport/http"
)

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Caller-Address")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}

	var req ledgerhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.CreateElectionHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetElectionHandler(r.Context(), electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateElection(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Caller-Address")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.DeactivateElectionHandler(r.Context(), electionID, caller)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNominate(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Caller-Address")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}

	var req ledgerhttp.NominateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.NominateHandler(r.Context(), electionID, caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.ListCandidatesHandler(r.Context(), electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Caller-Address")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.RegisterVoterHandler(r.Context(), electionID, caller)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVoter(w http.ResponseWriter, r *http.Request) {
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetVoterHandler(r.Context(), electionID, r.PathValue("address"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Caller-Address")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}

	var req ledgerhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.CastVoteHandler(r.Context(), electionID, caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.ResultsHandler(r.Context(), electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	electionID, ok := parseElectionID(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.EligibilityHandler(r.Context(), electionID, r.PathValue("address"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseElectionID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	electionID, err := strconv.ParseUint(r.PathValue("election_id"), 10, 64)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_election_id", "election_id must be a positive integer")
		return 0, false
	}
	return electionID, true
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidSchedule):
		writeLedgerError(w, http.StatusUnprocessableEntity, "invalid_schedule", err.Error())
	case errors.Is(err, ledgererrors.ErrPhaseViolation):
		writeLedgerError(w, http.StatusConflict, "phase_violation", err.Error())
	case errors.Is(err, ledgererrors.ErrDuplicateCandidacy):
		writeLedgerError(w, http.StatusConflict, "duplicate_candidacy", err.Error())
	case errors.Is(err, ledgererrors.ErrUnknownCandidate):
		writeLedgerError(w, http.StatusNotFound, "unknown_candidate", err.Error())
	case errors.Is(err, ledgererrors.ErrNotRegistered):
		writeLedgerError(w, http.StatusConflict, "not_registered", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyVoted):
		writeLedgerError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, ledgererrors.ErrNoVotingPower):
		writeLedgerError(w, http.StatusUnprocessableEntity, "no_voting_power", err.Error())
	case errors.Is(err, ledgererrors.ErrElectionNotFound):
		writeLedgerError(w, http.StatusNotFound, "election_not_found", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "unexpected ledger failure")
	}
}
