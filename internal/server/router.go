package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TanishaMaheshwari/vc-manager/internal/middleware"
)

// Router builds the HTTP handler tree. Auth endpoints and operational
// endpoints are public; everything else under /api/v1 requires a valid
// bearer token.
func (s *Server) Router() http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /persons", s.handleCreatePerson)
	api.HandleFunc("GET /persons", s.handleListPersons)
	api.HandleFunc("GET /persons/{id}", s.handleGetPerson)
	api.HandleFunc("GET /persons/{id}/ledger", s.handlePersonLedger)
	api.HandleFunc("POST /persons/{id}/ledger", s.handlePostLedgerEntry)
	api.HandleFunc("POST /persons/{id}/ledger/close", s.handleCloseLedger)
	api.HandleFunc("GET /persons/{id}/balance", s.handleBalance)

	api.HandleFunc("POST /pools", s.handleCreatePool)
	api.HandleFunc("GET /pools", s.handleListPools)
	api.HandleFunc("GET /pools/{id}", s.handleGetPool)
	api.HandleFunc("DELETE /pools/{id}", s.handleDeletePool)
	api.HandleFunc("GET /pools/{id}/summary", s.handlePoolSummary)
	api.HandleFunc("POST /pools/{id}/distribute", s.handleDistributeHand)

	api.HandleFunc("POST /hands/{id}/payout", s.handleEditPayout)
	api.HandleFunc("POST /hands/{id}/payments", s.handleRecordPayment)
	api.HandleFunc("GET /hands/{id}/due", s.handleAmountDue)

	protected := middleware.RequireAuth(s.jwt)(api)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", s.handleHealth)
	root.Handle("GET /metrics", promhttp.Handler())
	root.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	root.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", protected))

	return root
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
