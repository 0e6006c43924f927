package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/overlay"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
)

// Server exposes the debug/operational surface: health, status, minimap
// fog textures and a websocket stream of pass-cadence frames. Strictly a
// reader of the visibility service.
type Server struct {
	svc      *vision.Service
	hub      *Hub
	log      *zap.Logger
	http     *http.Server
	upgrader websocket.Upgrader

	mmMu     sync.Mutex
	minimaps map[int]*overlay.Minimap
}

func New(bindAddr string, svc *vision.Service, hub *Hub, log *zap.Logger) *Server {
	s := &Server{
		svc:      svc,
		hub:      hub,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		minimaps: make(map[int]*overlay.Minimap),
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/minimap/{owner:[0-9]+}", s.handleMinimap).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         bindAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the route tree. Exposed for tests and hosts that mount
// the debug surface under their own server.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run blocks serving HTTP until Shutdown.
func (s *Server) Run() error {
	s.log.Info("debug server listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	st := struct {
		vision.Status
		WSClients int `json:"ws_clients"`
	}{s.svc.Status(), s.hub.ClientCount()}
	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.log.Error("encode status", zap.Error(err))
	}
}

func (s *Server) handleMinimap(w http.ResponseWriter, r *http.Request) {
	owner, err := strconv.Atoi(mux.Vars(r)["owner"])
	if err != nil {
		http.Error(w, "bad owner id", http.StatusBadRequest)
		return
	}
	s.mmMu.Lock()
	mm := s.minimaps[owner]
	if mm == nil {
		mm = overlay.NewMinimap(s.svc, owner)
		s.minimaps[owner] = mm
	}
	w.Header().Set("Content-Type", "image/png")
	err = mm.EncodePNG(w)
	s.mmMu.Unlock()
	if err != nil {
		s.log.Error("encode minimap", zap.Int("owner", owner), zap.Error(err))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	ch := s.hub.add(conn)
	s.log.Info("ws client connected", zap.String("remote", conn.RemoteAddr().String()))

	// Reader goroutine: only there to observe close.
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		for f := range ch {
			if err := conn.WriteJSON(f); err != nil {
				s.hub.remove(conn)
				return
			}
		}
	}()
}
