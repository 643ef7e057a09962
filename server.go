package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"i4.energy/across/wifigw/wifi"
)

// Server handles incoming HTTP requests and relays them through the
// configured WiFi driver. The driver is single-owner, so every
// transaction and every status poll runs under the server's mutex.
type Server struct {
	Logger *slog.Logger
	Driver *wifi.Driver
	// PollInterval is the cadence at which the driver is polled during a
	// transaction. Zero means a millisecond.
	PollInterval time.Duration
	// Timeout bounds how long a transaction may sit in one phase before
	// the gateway reports it stale; a whole transaction gets at most
	// four times this. The driver has no timeouts of its own; staleness
	// detection is deliberately the caller's job.
	Timeout time.Duration

	mu sync.Mutex
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /fetch", s.handleFetch)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleStatus reports the driver's connectivity and current phase
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	phase := s.Driver.GetStatus()
	connected := s.Driver.Connected()
	s.mu.Unlock()

	type StatusResponse struct {
		Connected bool   `json:"connected"`
		Phase     string `json:"phase"`
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusResponse{
		Connected: connected,
		Phase:     phase.String(),
	})
}

// handleFetch runs one GET transaction through the module and returns
// the reassembled body
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		s.sendError(w, "'domain' query parameter is required", http.StatusBadRequest)
		return
	}

	req := wifi.Request{
		Domain: domain,
		Path:   r.URL.Query().Get("path"),
		Port:   r.URL.Query().Get("port"),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Driver.Request(req)

	body, err := s.poll(r.Context())
	switch {
	case errors.Is(err, errStale):
		s.Logger.Warn("Transaction went stale", "domain", domain, "phase", s.Driver.GetStatus().String())
		s.sendError(w, "module stopped responding", http.StatusGatewayTimeout)
		return
	case err != nil:
		s.Logger.Error("Transaction failed", "error", err, "domain", domain)
		s.sendError(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.Logger.Info("Fetch complete", "domain", domain, "path", req.Path,
		"status", s.Driver.Header().StatusCode, "bytes", len(body))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

var errStale = errors.New("transaction stale")

// poll drives the transaction to a terminal phase. A phase that does not
// change within the configured timeout counts as stale.
func (s *Server) poll(ctx context.Context) ([]byte, error) {
	interval := s.PollInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Phase progress resets the staleness clock but must not extend the
	// transaction forever: a module announcing empty chunks in a loop
	// changes phase on every poll without ever delivering the body.
	deadline := time.Now().Add(4 * timeout)

	lastPhase := s.Driver.GetStatus()
	lastChange := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			phase := s.Driver.GetStatus()
			if phase != lastPhase {
				lastPhase = phase
				lastChange = time.Now()
			}

			switch phase {
			case wifi.PhaseComplete:
				return s.Driver.Response(), nil
			case wifi.PhaseFailure:
				return nil, s.Driver.Err()
			}

			if time.Since(lastChange) > timeout || time.Now().After(deadline) {
				return nil, errStale
			}
		}
	}
}
