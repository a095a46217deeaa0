package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

type createPoolRequest struct {
	Name        string          `json:"name"`
	StartDate   string          `json:"start_date"`
	Amount      decimal.Decimal `json:"amount"`
	Tenure      int             `json:"tenure"`
	MinInterest decimal.Decimal `json:"min_interest"`
	MemberIDs   []string        `json:"member_ids"`
}

func (s *Server) handleCreatePool(w http.ResponseWriter, r *http.Request) {
	var req createPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, fmt.Errorf("%w: start_date must be YYYY-MM-DD", settlement.ErrInvalidInput))
		return
	}

	pool, err := s.pools.CreatePool(r.Context(), req.Name, startDate, req.Amount, req.Tenure, req.MinInterest, req.MemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pool)
}

func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.pools.Pools(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.pools.Pool(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	hands, err := s.store.ListHands(r.Context(), pool.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pool": pool, "hands": hands})
}

func (s *Server) handleDeletePool(w http.ResponseWriter, r *http.Request) {
	if err := s.pools.DeletePool(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePoolSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.pools.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type distributeRequest struct {
	HandID    string          `json:"hand_id"`
	WinnerIDs []string        `json:"winner_ids"`
	Bid       decimal.Decimal `json:"bid"`
	Narration string          `json:"narration"`
}

func (s *Server) handleDistributeHand(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}

	result, err := s.settlements.DistributeHand(r.Context(), r.PathValue("id"), req.HandID, req.WinnerIDs, req.Bid, req.Narration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type editPayoutRequest struct {
	PersonID  string          `json:"person_id"`
	Amount    decimal.Decimal `json:"amount"`
	Narration string          `json:"narration"`
}

func (s *Server) handleEditPayout(w http.ResponseWriter, r *http.Request) {
	var req editPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}

	dist, err := s.settlements.EditPayout(r.Context(), r.PathValue("id"), req.PersonID, req.Amount, req.Narration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

type paymentRequest struct {
	PersonID  string          `json:"person_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Narration string          `json:"narration"`
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
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

	entry, err := s.settlements.RecordPayment(r.Context(), r.PathValue("id"), req.PersonID, req.Amount, date, req.Narration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleAmountDue(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("person_id")
	if personID == "" {
		writeError(w, fmt.Errorf("%w: person_id query parameter is required", settlement.ErrInvalidInput))
		return
	}

	due, err := s.settlements.AmountDue(r.Context(), r.PathValue("id"), personID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"due": due})
}
