//go:build !android

package desktop

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"smoke/internal/smoke"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	Format       = oto.FormatFloat32LE
)

// Ambience plays a looping procedural hiss under the smoke.
type Ambience struct {
	ctx *oto.Context

	mu     sync.Mutex
	player oto.Player
	closed bool
}

// StartAmbience opens the audio device and starts the noise bed once the
// device is ready. A zero volume returns nil without touching the device.
func StartAmbience(volume float64, seed uint64) (*Ambience, error) {
	if volume <= 0 {
		return nil, nil
	}
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, Format)
	if err != nil {
		return nil, err
	}
	a := &Ambience{ctx: ctx}
	go func() {
		<-ready
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.closed {
			return
		}
		a.player = ctx.NewPlayer(newHissReader(seed))
		a.player.SetVolume(volume)
		a.player.Play()
	}()
	return a, nil
}

func (a *Ambience) Close() {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.player == nil {
		return
	}
	a.player.Pause()
	_ = a.player.Close()
}

// hissReader streams endless brown noise with a slow swell. Left and right
// take alternate draws from one generator.
type hissReader struct {
	rng    *smoke.Rand
	l, r   float64
	t      float64
	lp, rp float64
}

func newHissReader(seed uint64) *hissReader {
	return &hissReader{rng: smoke.NewRand(seed)}
}

// next returns white noise in [-1, 1).
func (h *hissReader) next() float64 {
	return h.rng.Float64()*2 - 1
}

func (h *hissReader) Read(p []byte) (int, error) {
	const frame = 8 // 2 channels * 4 bytes
	n := len(p) / frame
	for i := 0; i < n; i++ {
		h.l = 0.985*h.l + 0.015*h.next()
		h.r = 0.985*h.r + 0.015*h.next()
		// one-pole low-pass softens the top end further
		h.lp += 0.2 * (h.l - h.lp)
		h.rp += 0.2 * (h.r - h.rp)

		swell := 0.7 + 0.3*math.Sin(2*math.Pi*h.t/9.0)
		h.t += 1.0 / SampleRate

		binary.LittleEndian.PutUint32(p[i*frame:], math.Float32bits(float32(h.lp*swell*4)))
		binary.LittleEndian.PutUint32(p[i*frame+4:], math.Float32bits(float32(h.rp*swell*4)))
	}
	return n * frame, nil
}
