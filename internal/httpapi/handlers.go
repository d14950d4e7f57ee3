package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	keymint "github.com/keymint/keymint"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleCreateCredential(w http.ResponseWriter, r *http.Request) {
	var req keymint.CreateCredentialRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.engine.CreateCredential(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req keymint.ExchangeRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.engine.Exchange(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCheckAuthentication(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("You're authenticated!"))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps engine failures onto status codes. The body never says
// more than the error class; detail lives in the audit trail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, keymint.ErrUnsupportedSourceKind),
		errors.Is(err, keymint.ErrUnsupportedTargetKind),
		errors.Is(err, keymint.ErrUsernameRequired),
		errors.Is(err, keymint.ErrPasswordRequired),
		errors.Is(err, keymint.ErrPasswordPolicy):
		status = http.StatusBadRequest
	case errors.Is(err, keymint.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, keymint.ErrExchangeRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, keymint.ErrCredentialExists):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}

	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}
