package system

import (
	"bytes"
	"encoding/base64"
	"time"

	coresys "github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/system"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/overlay"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/server"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"go.uber.org/zap"
)

// BroadcastSystem pushes status and changed minimap frames to websocket
// clients at the end of each tick. Frames go out only when a snapshot
// version actually advanced, so idle worlds stay quiet on the wire.
type BroadcastSystem struct {
	svc      *vision.Service
	hub      *server.Hub
	log      *zap.Logger
	owners   []int
	minimaps map[int]*overlay.Minimap
}

func NewBroadcastSystem(svc *vision.Service, hub *server.Hub, owners []int, log *zap.Logger) *BroadcastSystem {
	mm := make(map[int]*overlay.Minimap, len(owners))
	for _, o := range owners {
		mm[o] = overlay.NewMinimap(svc, o)
	}
	return &BroadcastSystem{svc: svc, hub: hub, log: log, owners: owners, minimaps: mm}
}

func (s *BroadcastSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *BroadcastSystem) Update(_ time.Duration) {
	if s.hub.ClientCount() == 0 {
		return
	}

	sent := false
	for _, owner := range s.owners {
		img, rendered := s.minimaps[owner].Texture()
		if img == nil || !rendered {
			continue
		}
		var buf bytes.Buffer
		if err := s.minimaps[owner].EncodePNG(&buf); err != nil {
			s.log.Error("encode minimap frame", zap.Int("owner", owner), zap.Error(err))
			continue
		}
		s.hub.Broadcast(server.Frame{
			Type:    "minimap",
			OwnerID: owner,
			Payload: base64.StdEncoding.EncodeToString(buf.Bytes()),
		})
		sent = true
	}
	if sent {
		s.hub.Broadcast(server.Frame{Type: "status", Payload: s.svc.Status()})
	}
}
