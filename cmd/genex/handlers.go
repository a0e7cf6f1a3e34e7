package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stochbio/genex/internal/genex"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /run
// Body: YAML simulation config
// Starts a run on a background goroutine; snapshots stream to /ws.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := genex.ParseConfig(body)
	if err != nil {
		http.Error(w, "invalid config: "+err.Error(), http.StatusBadRequest)
		return
	}

	sim, err := genex.BuildSimulation(cfg, s.logger)
	if err != nil {
		http.Error(w, "cannot build simulation: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !s.tryStartRun(cfg.Name) {
		http.Error(w, "a run is already in progress", http.StatusConflict)
		return
	}

	s.logger.Infof("run started: name=%s stop_time=%.2f", cfg.Name, cfg.StopTime)
	go func() {
		err := sim.Run(func(snapshot genex.Snapshot) error {
			s.recordSnapshot(snapshot)
			return s.streamer.Publish(context.Background(), snapshot)
		})
		s.finishRun(err)
	}()

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("run started"))
}

// StatusResponse is the GET /status payload.
type StatusResponse struct {
	Running  bool            `json:"running"`
	Name     string          `json:"name,omitempty"`
	Error    string          `json:"error,omitempty"`
	Snapshot *genex.Snapshot `json:"snapshot,omitempty"`
}

// GET /status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Running:  s.running,
		Name:     s.runName,
		Snapshot: s.last,
	}
	if s.runErr != nil {
		resp.Error = s.runErr.Error()
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /ws
// Upgrades to a WebSocket connection receiving one JSON snapshot per
// sampled time step.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.streamer.GetUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	s.streamer.RegisterClient(conn)
	s.logger.Debugf("websocket client connected: %s", conn.RemoteAddr())

	// Drain the read side so close frames are processed; clients only
	// receive.
	go func() {
		defer s.streamer.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleRun(w, r)
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleStatus(w, r)
	})
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}
