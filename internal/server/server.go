// Package server exposes the scoring engine over a local HTTP endpoint.
//
// The surface is deliberately small: POST /score answers the four-field
// scoring result, /healthz is liveness, /readyz reports whether the
// artifacts have loaded. Responses are gzip-compressed when the client
// accepts it, and CORS is wide open so a local meter UI can call the
// endpoint directly.
package server

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chunkmeter/internal/config"
	"chunkmeter/internal/meter"
)

// Server is the scoring HTTP server.
type Server struct {
	meter   *meter.Meter
	log     *slog.Logger
	maxBody int64
	httpSrv *http.Server
}

// New creates a server for the given meter.
func New(cfg config.ServerConfig, m *meter.Meter, log *slog.Logger) *Server {
	s := &Server{
		meter:   m,
		log:     log,
		maxBody: int64(cfg.MaxPasswordBytes) + 1024, // password plus JSON framing
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/score", s.handleScore)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)

	s.httpSrv = &http.Server{
		Addr:              cfg.Listen,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info("scoring endpoint listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

type scoreRequest struct {
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, r, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "request too large"})
		return
	}
	var req scoreRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.meter.Score(req.Password)
	if err != nil {
		if errors.Is(err, meter.ErrNotReady) {
			writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: "model not loaded"})
			return
		}
		s.log.Error("score failed", "error", err)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if !s.meter.Ready() {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// writeJSON encodes v as JSON, gzip-compressed when the client accepts it.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")

	var out io.Writer = w
	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		defer zw.Close()
		out = zw
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(out).Encode(v)
}

// withCORS allows any origin, matching the open CORS policy of the artifact
// training server this endpoint sits next to.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
