package smoke

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	clear bool
	pos   mgl32.Vec2
	scale float32
	vp    Viewport
}

type recordingRenderer struct {
	calls []drawCall
}

func (r *recordingRenderer) Clear(vp Viewport) {
	r.calls = append(r.calls, drawCall{clear: true, vp: vp})
}

func (r *recordingRenderer) DrawQuad(pos mgl32.Vec2, scale, _ float32, vp Viewport) {
	r.calls = append(r.calls, drawCall{pos: pos, scale: scale, vp: vp})
}

// growingSurface widens by one pixel every time it is queried.
type growingSurface struct {
	w, h int
}

func (s *growingSurface) FramebufferSize() (int, int) {
	s.w++
	return s.w, s.h
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func threeParticleField(cfg *Config) *Field {
	f := NewField(cfg, NewRand(1))
	f.P = []Particle{
		{X: -1, Y: 0, Scale: 1, Speed: 0.1, Spin: 1}, // A
		{X: 0, Y: 0, Scale: 2, Speed: 0.1, Spin: -1}, // B
		{X: 1, Y: 0, Scale: 3, Speed: 0.1, Spin: 1},  // C
	}
	return f
}

func TestScene_DrawsInInsertionOrderEveryFrame(t *testing.T) {
	cfg := testConfig()
	rec := &recordingRenderer{}
	sched := NewScheduler(&HeadlessRefresh{Remaining: 3})
	scene := NewScene(cfg, threeParticleField(cfg), rec, FixedSurface{Width: 64, Height: 48}, sched, discardLogger())

	scene.Start()
	require.NoError(t, sched.Run(context.Background()))

	require.Len(t, rec.calls, 3*4)
	for frame := 0; frame < 3; frame++ {
		calls := rec.calls[frame*4 : frame*4+4]
		assert.True(t, calls[0].clear)
		assert.Equal(t, float32(-1), calls[1].pos.X())
		assert.Equal(t, float32(0), calls[2].pos.X())
		assert.Equal(t, float32(1), calls[3].pos.X())
		assert.Equal(t, []float32{1, 2, 3}, []float32{calls[1].scale, calls[2].scale, calls[3].scale})
	}
}

func TestScene_UpdatesBeforeDrawing(t *testing.T) {
	cfg := testConfig()
	rec := &recordingRenderer{}
	sched := NewScheduler(&HeadlessRefresh{Remaining: 1})
	field := threeParticleField(cfg)
	scene := NewScene(cfg, field, rec, FixedSurface{Width: 8, Height: 8}, sched, discardLogger())

	scene.Start()
	require.NoError(t, sched.Run(context.Background()))

	want := float32(0.1 * cfg.FrameStep * cfg.VerticalSpeed)
	assert.InDelta(t, want, rec.calls[1].pos.Y(), 1e-7)
}

func TestScene_ReadsViewportEachFrame(t *testing.T) {
	cfg := testConfig()
	rec := &recordingRenderer{}
	sched := NewScheduler(&HeadlessRefresh{Remaining: 2})
	scene := NewScene(cfg, threeParticleField(cfg), rec, &growingSurface{w: 99, h: 50}, sched, discardLogger())

	scene.Start()
	require.NoError(t, sched.Run(context.Background()))

	assert.Equal(t, Viewport{Width: 100, Height: 50}, rec.calls[0].vp)
	assert.Equal(t, Viewport{Width: 100, Height: 50}, rec.calls[3].vp)
	assert.Equal(t, Viewport{Width: 101, Height: 50}, rec.calls[4].vp)
}

func TestScene_EmptySurfaceSkipsDrawButKeepsRunning(t *testing.T) {
	cfg := testConfig()
	rec := &recordingRenderer{}
	sched := NewScheduler(&HeadlessRefresh{Remaining: 5})
	scene := NewScene(cfg, threeParticleField(cfg), rec, FixedSurface{}, sched, discardLogger())

	scene.Start()
	require.NoError(t, sched.Run(context.Background()))

	assert.Empty(t, rec.calls)
	assert.Equal(t, uint64(5), sched.Frames())
	assert.InDelta(t, 5*0.1*cfg.FrameStep*cfg.VerticalSpeed, scene.Field().P[0].Y, 1e-12)
}

func TestScene_RealtimeDelta(t *testing.T) {
	cfg := testConfig()
	cfg.Timing = TimingRealtime
	scene := &Scene{cfg: cfg}

	assert.Equal(t, 1.0, scene.frameDelta(Frame{Index: 0}))
	assert.InDelta(t, 2.0, scene.frameDelta(Frame{Index: 1, Delta: 2.0 / 60}), 1e-9)
	assert.InDelta(t, MaxRealtimeDelta*60, scene.frameDelta(Frame{Index: 2, Delta: 3}), 1e-9)

	cfg.Timing = TimingFixed
	assert.Equal(t, 1.0, scene.frameDelta(Frame{Index: 5, Delta: 1}))
}

// cancellingRenderer cancels the scheduler from inside the given frame's Clear.
type cancellingRenderer struct {
	recordingRenderer
	sched *Scheduler
	at    int
	seen  int
}

func (r *cancellingRenderer) Clear(vp Viewport) {
	r.recordingRenderer.Clear(vp)
	r.seen++
	if r.seen == r.at {
		r.sched.Cancel()
	}
}

func TestScene_CancelDuringFrameStopsLoop(t *testing.T) {
	cfg := testConfig()
	sched := NewScheduler(&HeadlessRefresh{Remaining: 50})
	rend := &cancellingRenderer{sched: sched, at: 3}
	scene := NewScene(cfg, threeParticleField(cfg), rend, FixedSurface{Width: 16, Height: 16}, sched, discardLogger())

	scene.Start()
	require.NoError(t, sched.Run(context.Background()))

	assert.Equal(t, uint64(3), sched.Frames())
	assert.Len(t, rend.calls, 3*4)
}
