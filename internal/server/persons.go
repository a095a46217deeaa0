package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/TanishaMaheshwari/vc-manager/internal/models"
	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

type createPersonRequest struct {
	Name           string          `json:"name"`
	ShortName      string          `json:"short_name"`
	Phone          string          `json:"phone"`
	Phone2         string          `json:"phone2"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}

	person := &models.Person{
		Name:           req.Name,
		ShortName:      req.ShortName,
		Phone:          req.Phone,
		Phone2:         req.Phone2,
		OpeningBalance: req.OpeningBalance,
	}
	if err := person.Validate(); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}

	if err := s.store.CreatePerson(r.Context(), person); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.store.ListPersons(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := s.store.GetPerson(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrNotFound, err))
		return
	}
	writeJSON(w, http.StatusOK, person)
}
