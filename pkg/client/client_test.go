package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stochbio/genex/internal/genex"
)

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8080/")
	if c.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trimmed base URL, got %q", c.baseURL)
	}
}

func TestWebsocketURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://sim.example.com", "wss://sim.example.com/ws"},
	}
	for _, tc := range cases {
		c := New(tc.base)
		got, err := c.websocketURL()
		if err != nil {
			t.Errorf("Expected URL conversion to succeed for %q, got %v", tc.base, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}

	c := New("ftp://example.com")
	if _, err := c.websocketURL(); err == nil {
		t.Error("Expected unsupported scheme to fail")
	}
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("Expected path /healthz, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if err := New(ts.URL).Health(context.Background()); err != nil {
		t.Errorf("Expected health check to succeed, got %v", err)
	}
}

func TestHealthFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	if err := New(ts.URL).Health(context.Background()); err == nil {
		t.Error("Expected health check to fail on 503")
	}
}

func TestStartRun(t *testing.T) {
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/run" {
			t.Errorf("Expected POST /run, got %s %s", r.Method, r.URL.Path)
		}
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	if err := New(ts.URL).StartRun(context.Background(), []byte("name: test")); err != nil {
		t.Fatalf("Expected start to succeed, got %v", err)
	}
	if gotBody != "name: test" {
		t.Errorf("Expected config body forwarded, got %q", gotBody)
	}
}

func TestStartRunConflict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "a run is already in progress", http.StatusConflict)
	}))
	defer ts.Close()

	if err := New(ts.URL).StartRun(context.Background(), []byte("name: test")); err == nil {
		t.Error("Expected conflict to surface as an error")
	}
}

func TestStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RunStatus{
			Running: true,
			Name:    "three_genes",
			Snapshot: &genex.Snapshot{
				Time:    12.5,
				Species: map[string]int{"proteinX": 4},
			},
		})
	}))
	defer ts.Close()

	status, err := New(ts.URL).Status(context.Background())
	if err != nil {
		t.Fatalf("Expected status to succeed, got %v", err)
	}
	if !status.Running || status.Name != "three_genes" {
		t.Errorf("Expected running three_genes, got %+v", status)
	}
	if status.Snapshot == nil || status.Snapshot.Species["proteinX"] != 4 {
		t.Error("Expected snapshot with proteinX count 4")
	}
}

func TestStatusServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := New(ts.URL).Status(context.Background()); err == nil {
		t.Error("Expected server error to surface")
	}
}
