package main

import (
	"sync"

	"github.com/stochbio/genex/internal/genex"
	"github.com/stochbio/genex/internal/stream"
)

// Server owns at most one simulation run at a time and streams its
// snapshots to WebSocket clients. Run state is guarded by mu; the
// simulation itself executes on a background goroutine.
type Server struct {
	mu       sync.Mutex
	running  bool
	runName  string
	last     *genex.Snapshot
	runErr   error
	streamer *stream.Broadcaster
	logger   *Logger
}

// NewServer creates a new server instance
func NewServer(logger *Logger) *Server {
	return &Server{
		streamer: stream.NewBroadcaster(),
		logger:   logger,
	}
}

// Close shuts down the snapshot broadcaster.
func (s *Server) Close() error {
	return s.streamer.Close()
}

func (s *Server) tryStartRun(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.runName = name
	s.last = nil
	s.runErr = nil
	return true
}

func (s *Server) recordSnapshot(snapshot genex.Snapshot) {
	s.mu.Lock()
	s.last = &snapshot
	s.mu.Unlock()
}

func (s *Server) finishRun(err error) {
	s.mu.Lock()
	s.running = false
	s.runErr = err
	s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("run failed: %v", err)
	}
}
