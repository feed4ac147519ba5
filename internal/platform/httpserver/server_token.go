package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	tokenerrors "psephos/contexts/governance/token-ledger/domain/errors"
	tokenhttp "psephos/contexts/governance/token-ledger/transport/http"
)

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req tokenhttp.MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.token.Handler.MintHandler(r.Context(), req)
	if err != nil {
		writeTokenDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-Caller-Address")
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Address header is required")
		return
	}
	var req tokenhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.token.Handler.TransferHandler(r.Context(), caller, req)
	if err != nil {
		writeTokenDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.token.Handler.BalanceHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeTokenDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	resp, err := s.token.Handler.SupplyHandler(r.Context())
	if err != nil {
		writeTokenDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeTokenDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tokenerrors.ErrInvalidTokenInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, tokenerrors.ErrSelfTransfer):
		writeLedgerError(w, http.StatusBadRequest, "self_transfer", err.Error())
	case errors.Is(err, tokenerrors.ErrAccountNotFound):
		writeLedgerError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, tokenerrors.ErrInsufficientBalance):
		writeLedgerError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "unexpected token ledger failure")
	}
}
