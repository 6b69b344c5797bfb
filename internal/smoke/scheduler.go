package smoke

import (
	"context"
	"errors"
)

// ErrSurfaceClosed is returned by a RefreshSource once the host surface is
// gone (window closed, frame budget exhausted).
var ErrSurfaceClosed = errors.New("surface closed")

// RefreshSource blocks until the next display refresh and returns its time in
// seconds.
type RefreshSource interface {
	WaitRefresh(ctx context.Context) (float64, error)
}

type Frame struct {
	Index uint64
	Time  float64
	Delta float64 // seconds since the previous frame, 0 on the first
}

type FrameFunc func(Frame)

// Scheduler runs at most one pending frame callback per refresh. A callback
// keeps the loop alive by calling RequestFrame again.
type Scheduler struct {
	src     RefreshSource
	pending FrameFunc

	frames uint64
	last   float64
}

func NewScheduler(src RefreshSource) *Scheduler {
	return &Scheduler{src: src}
}

// RequestFrame arms fn for the next refresh, replacing any pending callback.
func (s *Scheduler) RequestFrame(fn FrameFunc) {
	s.pending = fn
}

// Cancel disarms the pending callback; Run returns after the current frame.
// A callback that re-arms itself must do so before anything that may cancel.
func (s *Scheduler) Cancel() {
	s.pending = nil
}

func (s *Scheduler) Frames() uint64 { return s.frames }

// Run dispatches frames until nothing is armed, ctx is cancelled or the
// surface closes. A closed surface is a normal end and returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	for s.pending != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		now, err := s.src.WaitRefresh(ctx)
		if err != nil {
			if errors.Is(err, ErrSurfaceClosed) {
				return nil
			}
			return err
		}
		fn := s.pending
		s.pending = nil

		f := Frame{Index: s.frames, Time: now}
		if s.frames > 0 {
			f.Delta = now - s.last
		}
		s.last = now
		s.frames++
		fn(f)
	}
	return nil
}

// HeadlessRefresh yields a fixed number of refreshes at a nominal rate
// without waiting on any display.
type HeadlessRefresh struct {
	Remaining int
	Rate      float64 // Hz

	n int
}

func (h *HeadlessRefresh) WaitRefresh(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if h.Remaining <= 0 {
		return 0, ErrSurfaceClosed
	}
	h.Remaining--
	rate := h.Rate
	if rate <= 0 {
		rate = 60
	}
	t := float64(h.n) / rate
	h.n++
	return t, nil
}
