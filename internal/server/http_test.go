package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

func newTestServer(t *testing.T) (*Server, *vision.Service) {
	t.Helper()
	cfg, err := world.NewWorldConfig(world.Vec2{}, world.Vec2{X: 100, Z: 100}, 10)
	if err != nil {
		t.Fatalf("world config: %v", err)
	}
	svc := vision.New(cfg)
	log := zap.NewNop()
	return New("127.0.0.1:0", svc, NewHub(log), log), svc
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestHandleStatus(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.Register(world.Source{OwnerID: 0, Position: world.Vec2{X: 50, Z: 50}, Radius: 15, Active: true})
	svc.Pass()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var st struct {
		Configured  bool `json:"configured"`
		GridWidth   int  `json:"grid_width"`
		SourceCount int  `json:"source_count"`
		WSClients   int  `json:"ws_clients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !st.Configured || st.GridWidth != 10 {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.SourceCount != 1 || st.WSClients != 0 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestHandleMinimap(t *testing.T) {
	srv, svc := newTestServer(t)
	svc.Register(world.Source{OwnerID: 0, Position: world.Vec2{X: 50, Z: 50}, Radius: 15, Active: true})
	svc.Pass()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/minimap/0", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected PNG bytes")
	}

	// Non-numeric owners never match the route.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/minimap/red", nil))
	if rec.Code == 200 {
		t.Fatalf("non-numeric owner should not resolve, got %d", rec.Code)
	}
}
