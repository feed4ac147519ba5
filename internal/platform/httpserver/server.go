package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	electionledger "psephos/contexts/governance/election-ledger"
	ledgerhttp "psephos/contexts/governance/election-ledger/transport/http"
	tokenledger "psephos/contexts/governance/token-ledger"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "psephos/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	ledger electionledger.Module
	token  tokenledger.Module
}

func New(
	ledger electionledger.Module,
	token tokenledger.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		ledger: ledger,
		token:  token,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/governance/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/governance/v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/deactivate", s.handleDeactivateElection)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/candidates", s.handleNominate)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}/candidates", s.handleListCandidates)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}/voters/{address}", s.handleGetVoter)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}/results", s.handleResults)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}/eligibility/{address}", s.handleEligibility)

	s.mux.HandleFunc("POST /api/governance/v1/token/mint", s.handleMint)
	s.mux.HandleFunc("POST /api/governance/v1/token/transfer", s.handleTransfer)
	s.mux.HandleFunc("GET /api/governance/v1/token/balances/{address}", s.handleBalance)
	s.mux.HandleFunc("GET /api/governance/v1/token/supply", s.handleSupply)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
