package smoke

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Surface reports the current pixel size of the drawing surface.
type Surface interface {
	FramebufferSize() (int, int)
}

// FixedSurface is a surface that never resizes.
type FixedSurface Viewport

func (s FixedSurface) FramebufferSize() (int, int) { return s.Width, s.Height }

const statsEvery = 600

// Scene is one frame of the smoke layer: update the field, then draw every
// particle in collection order.
type Scene struct {
	cfg      *Config
	field    *Field
	renderer QuadRenderer
	surface  Surface
	sched    *Scheduler
	log      *slog.Logger
}

func NewScene(cfg *Config, field *Field, renderer QuadRenderer, surface Surface, sched *Scheduler, log *slog.Logger) *Scene {
	return &Scene{
		cfg:      cfg,
		field:    field,
		renderer: renderer,
		surface:  surface,
		sched:    sched,
		log:      log,
	}
}

// Start arms the first frame.
func (s *Scene) Start() {
	s.sched.RequestFrame(s.frame)
}

func (s *Scene) Field() *Field { return s.field }

// frame re-arms itself first so a Cancel issued while drawing still wins.
func (s *Scene) frame(f Frame) {
	s.sched.RequestFrame(s.frame)

	w, h := s.surface.FramebufferSize()
	vp := Viewport{Width: w, Height: h}

	s.field.Update(s.frameDelta(f))

	if vp.Empty() {
		return
	}
	s.renderer.Clear(vp)
	s.field.Each(func(_ int, p *Particle) {
		s.renderer.DrawQuad(
			mgl32.Vec2{float32(p.X), float32(p.Y)},
			float32(p.Scale),
			float32(p.Rotation),
			vp,
		)
	})

	if f.Index%statsEvery == 0 {
		s.log.Debug("frame", "index", f.Index, "viewport", vp, "recycled", s.field.Recycled())
	}
}

// frameDelta converts a frame into nominal 60 Hz frames for the field.
func (s *Scene) frameDelta(f Frame) float64 {
	if s.cfg.Timing != TimingRealtime || f.Index == 0 {
		return 1
	}
	dt := f.Delta
	if dt > MaxRealtimeDelta {
		dt = MaxRealtimeDelta
	}
	if dt < 0 {
		dt = 0
	}
	return dt * 60
}
