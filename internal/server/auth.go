package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/TanishaMaheshwari/vc-manager/internal/settlement"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}
	if req.Email == "" || req.Name == "" {
		writeError(w, fmt.Errorf("%w: email and name are required", settlement.ErrInvalidInput))
		return
	}

	user, err := s.authn.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, ID: user.ID, Name: user.Name, Email: user.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", settlement.ErrInvalidInput, err))
		return
	}

	user, err := s.authn.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, ID: user.ID, Name: user.Name, Email: user.Email})
}
