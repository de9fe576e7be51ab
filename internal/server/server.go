package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/worker"
	"go.uber.org/zap"
)

// Server exposes the pipeline over HTTP: POST /fact-check and GET /health.
type Server struct {
	verifier worker.Verifier
	logger   *zap.Logger
	httpSrv  *http.Server
}

// New creates a new Server.
func New(cfg model.ServerConfig, verifier worker.Verifier, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		verifier: verifier,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/fact-check", s.handleFactCheck)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRequestLog(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", zap.String("addr", s.httpSrv.Addr))
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

type claimRequest struct {
	Claim string `json:"claim"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Claim) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Claim cannot be empty"})
		return
	}

	verdict := s.verifier.Verify(r.Context(), req.Claim)

	switch {
	case verdict.Succeeded:
		writeJSON(w, http.StatusOK, verdict)
	case errors.Is(verdictErr(verdict), model.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: verdict.Error})
	default:
		// Unrecoverable pipeline fault: surface the verdict shape with a
		// server-error status so callers can branch on the code alone.
		writeJSON(w, http.StatusInternalServerError, verdict)
	}
}

// verdictErr reconstructs the error kind from a failed verdict for status
// mapping. The verdict string is the uniform failure shape, so kinds are
// recognized by their sentinel text.
func verdictErr(v model.Verdict) error {
	if v.Succeeded {
		return nil
	}
	if strings.Contains(v.Error, model.ErrInvalidInput.Error()) {
		return model.ErrInvalidInput
	}
	return model.ErrInternal
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "veritas",
	})
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
