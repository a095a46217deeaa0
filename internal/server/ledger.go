package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

func (s *Server) handlePersonLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.Entries(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type ledgerEntryRequest struct {
	PoolID    string          `json:"pool_id"`
	Date      string          `json:"date"`
	Narration string          `json:"narration"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

func (s *Server) handlePostLedgerEntry(w http.ResponseWriter, r *http.Request) {
	var req ledgerEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, fmt.Errorf("%w: date must be YYYY-MM-DD", settlement.ErrInvalidInput))
			return
		}
		date = parsed
	}

	entry, err := s.ledger.PostEntry(r.Context(), r.PathValue("id"), req.PoolID, date, req.Narration, req.Debit, req.Credit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleCloseLedger(w http.ResponseWriter, r *http.Request) {
	closed, err := s.ledger.CloseLedger(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"closed": closed})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	personID := r.PathValue("id")
	balance, err := s.ledger.LastBalance(r.Context(), personID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]decimal.Decimal{"balance": balance}
	if r.URL.Query().Get("audit") == "true" {
		recomputed, err := s.ledger.RecomputeBalance(r.Context(), personID)
		if err != nil {
			writeError(w, err)
			return
		}
		resp["recomputed"] = recomputed
	}
	writeJSON(w, http.StatusOK, resp)
}
