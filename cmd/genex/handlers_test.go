package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	server := NewServer(NewLogger("error"))
	ts := httptest.NewServer(server.routes())
	t.Cleanup(func() {
		ts.Close()
		server.Close()
	})
	return server, ts
}

func TestHandleHealth(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("Expected request to succeed, got %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestHandleStatusIdle(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("Expected request to succeed, got %v", err)
	}
	defer resp.Body.Close()

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Expected JSON status, got %v", err)
	}
	if status.Running {
		t.Error("Expected no run in progress")
	}
	if status.Snapshot != nil {
		t.Error("Expected no snapshot before any run")
	}
}

func TestHandleRunRejectsInvalidConfig(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Post(ts.URL+"/run", "application/yaml", strings.NewReader("stop_time: -1"))
	if err != nil {
		t.Fatalf("Expected request to succeed, got %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandleRunRejectsWrongMethod(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/run")
	if err != nil {
		t.Fatalf("Expected request to succeed, got %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}

const tinyRunYAML = `
name: tiny
stop_time: 0.5
time_step: 0.25
cell_volume: 8.0e-15
species:
  - name: inert
    copy_number: 5
`

func TestHandleRunCompletes(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Post(ts.URL+"/run", "application/yaml", strings.NewReader(tinyRunYAML))
	if err != nil {
		t.Fatalf("Expected request to succeed, got %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", resp.StatusCode)
	}

	// The run has no firing reactions and finishes almost immediately.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sr, err := http.Get(ts.URL + "/status")
		if err != nil {
			t.Fatalf("Expected status request to succeed, got %v", err)
		}
		var status StatusResponse
		if err := json.NewDecoder(sr.Body).Decode(&status); err != nil {
			sr.Body.Close()
			t.Fatalf("Expected JSON status, got %v", err)
		}
		sr.Body.Close()
		if !status.Running && status.Snapshot != nil {
			if status.Error != "" {
				t.Fatalf("Expected clean finish, got error %q", status.Error)
			}
			if status.Snapshot.Species["inert"] != 5 {
				t.Errorf("Expected inert count 5, got %d", status.Snapshot.Species["inert"])
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Expected run to finish within the deadline")
}
