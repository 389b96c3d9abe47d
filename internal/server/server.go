// ABOUTME: HTTP server exposing the record write and read endpoints.
// ABOUTME: Every endpoint answers 200 with a JSON body; failures are reported in the body.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/storage"
)

// DefaultMaxBodyBytes caps write payloads.
const DefaultMaxBodyBytes = 1 << 20

// sheetNotFoundMessage is the error body for writes to a missing sheet.
const sheetNotFoundMessage = "Sheet not found"

// Config holds server dependencies.
type Config struct {
	Repo         storage.Repository
	Logger       *log.Logger
	MaxBodyBytes int64
}

// Server serves the record endpoints over a Repository.
type Server struct {
	repo    storage.Repository
	logger  *log.Logger
	maxBody int64
}

// New creates a Server. A nil logger discards output.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Server{repo: cfg.Repo, logger: logger, maxBody: maxBody}
}

// Handler returns the routed handler wrapped in request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", s.handleWrite)
	mux.HandleFunc("POST /records", s.handleWrite)
	mux.HandleFunc("GET /{$}", s.handleRead)
	mux.HandleFunc("GET /records", s.handleRead)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return withRequestID(s.logger, withRequestLog(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleWrite appends the JSON payload as a new record.
func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	ok, err := s.repo.Exists(r.Context())
	if err != nil {
		logger.Error("sheet lookup failed", "err", err)
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}
	if !ok {
		writeJSON(w, errorResponse{Error: sheetNotFoundMessage})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeJSON(w, errorResponse{Error: fmt.Sprintf("read body: %v", err)})
		return
	}

	var rec models.Record
	if err := rec.UnmarshalJSON(body); err != nil {
		logger.Debug("rejected payload", "err", err)
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	if err := s.repo.Append(r.Context(), &rec); err != nil {
		if errors.Is(err, storage.ErrSheetNotFound) {
			writeJSON(w, errorResponse{Error: sheetNotFoundMessage})
			return
		}
		logger.Error("append failed", "err", err)
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	logger.Debug("appended record", "user", rec.User, "date", rec.Date)
	writeJSON(w, statusResponse{Status: "ok"})
}

// handleRead returns the records of the user query parameter, newest first.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")

	records, err := storage.Query(r.Context(), s.repo, user)
	if err != nil {
		if errors.Is(err, storage.ErrSheetNotFound) {
			writeJSON(w, []*models.Record{})
			return
		}
		log.FromContext(r.Context()).Error("query failed", "err", err)
		writeJSON(w, errorResponse{Error: err.Error()})
		return
	}

	if records == nil {
		records = []*models.Record{}
	}
	writeJSON(w, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, statusResponse{Status: "ok"})
}

// writeJSON writes v with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
