package overlay

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

// Minimap fog colors. The alpha channel is the fog: fully opaque shroud
// over never-seen cells, half fog over remembered ones.
var (
	colorVisible    = color.NRGBA{0, 0, 0, 0}
	colorExplored   = color.NRGBA{0, 0, 0, 128}
	colorUnexplored = color.NRGBA{0, 0, 0, 255}
)

// Minimap renders the coarse fog texture, one texel per grid cell. It
// re-renders only when the published snapshot version advances, so it
// follows the pass cadence rather than the frame rate.
type Minimap struct {
	svc     *vision.Service
	ownerID int

	img         *image.NRGBA
	lastEpoch   uint64
	lastVersion uint64
}

func NewMinimap(svc *vision.Service, ownerID int) *Minimap {
	return &Minimap{svc: svc, ownerID: ownerID}
}

// Texture returns the current fog texture and whether this call re-rendered
// it. Returns nil until a first snapshot exists.
func (m *Minimap) Texture() (*image.NRGBA, bool) {
	snap := m.svc.SnapshotFor(m.ownerID)
	if snap == nil {
		return nil, false
	}
	if m.img != nil && snap.Epoch == m.lastEpoch && snap.Version == m.lastVersion {
		return m.img, false
	}

	if m.img == nil || m.img.Rect.Dx() != snap.Width || m.img.Rect.Dy() != snap.Height {
		m.img = image.NewNRGBA(image.Rect(0, 0, snap.Width, snap.Height))
	}
	for z := 0; z < snap.Height; z++ {
		for x := 0; x < snap.Width; x++ {
			m.img.SetNRGBA(x, z, texelFor(snap.At(x, z)))
		}
	}
	m.lastEpoch = snap.Epoch
	m.lastVersion = snap.Version
	return m.img, true
}

// EncodePNG renders (if stale) and writes the texture as PNG.
func (m *Minimap) EncodePNG(w io.Writer) error {
	img, _ := m.Texture()
	if img == nil {
		// No pass yet: a fully shrouded 1x1 placeholder.
		ph := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		ph.SetNRGBA(0, 0, colorUnexplored)
		return png.Encode(w, ph)
	}
	return png.Encode(w, img)
}

// TexelAtWorld maps a world position to its fog texel through normalized
// map space — the same mapping minimap markers must use, so markers and
// fog can never disagree.
func (m *Minimap) TexelAtWorld(pos world.Vec2) (int, int, bool) {
	cfg := m.svc.World()
	snap := m.svc.SnapshotFor(m.ownerID)
	if cfg == nil || snap == nil || !cfg.Contains(pos) {
		return 0, 0, false
	}
	u, v := cfg.WorldToNormalized(pos)
	tx := int(u * float64(snap.Width))
	tz := int(v * float64(snap.Height))
	if tx >= snap.Width {
		tx = snap.Width - 1
	}
	if tz >= snap.Height {
		tz = snap.Height - 1
	}
	return tx, tz, true
}

func texelFor(state world.CellState) color.NRGBA {
	switch state {
	case world.Visible:
		return colorVisible
	case world.Explored:
		return colorExplored
	default:
		return colorUnexplored
	}
}
