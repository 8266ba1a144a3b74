package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tristeng/heightmap/internal/level"
)

func TestClientLevel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/levels/42" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name": "Alpine Run", "polyLines": [{"points": [{"x": 0, "y": 0}, {"x": 10, "y": 5}]}]}`))
	}))
	defer srv.Close()

	// Trailing slash must not produce a double-slash URL.
	c := New(srv.URL+"/levels/", 5*time.Second)

	lvl, err := c.Level(context.Background(), 42)
	if err != nil {
		t.Fatalf("Level() error = %v", err)
	}
	if lvl.Name != "Alpine Run" {
		t.Errorf("Name = %q, want %q", lvl.Name, "Alpine Run")
	}
	profile, err := lvl.Profile()
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if len(profile) != 2 {
		t.Errorf("len(profile) = %d, want 2", len(profile))
	}
}

func TestClientLevelBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such level", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL+"/levels", time.Second)

	_, err := c.Level(context.Background(), 7)
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("Level() error = %v, want %v", err, ErrBadStatus)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Level() error = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want %d", statusErr.Code, http.StatusNotFound)
	}
	if statusErr.URL != srv.URL+"/levels/7" {
		t.Errorf("URL = %q, want %q", statusErr.URL, srv.URL+"/levels/7")
	}
}

func TestClientLevelMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)

	if _, err := c.Level(context.Background(), 1); !errors.Is(err, level.ErrMalformed) {
		t.Errorf("Level() error = %v, want %v", err, level.ErrMalformed)
	}
}

func TestClientLevelTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, time.Second)

	_, err := c.Level(context.Background(), 1)
	if err == nil {
		t.Fatal("Level() succeeded against a closed server")
	}
	if errors.Is(err, ErrBadStatus) {
		t.Errorf("transport failure reported as bad status: %v", err)
	}
}

func TestClientLevelContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Level(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Level() error = %v, want %v", err, context.Canceled)
	}
}
