package smoke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays values, then repeats the last one.
type fixedSource struct {
	vals []float64
	i    int
}

func (s *fixedSource) Float64() float64 {
	if s.i >= len(s.vals) {
		return s.vals[len(s.vals)-1]
	}
	v := s.vals[s.i]
	s.i++
	return v
}

func testConfig() *Config {
	cfg := DefaultConfig()
	return &cfg
}

func TestNewField_Ranges(t *testing.T) {
	cfg := testConfig()
	f := NewField(cfg, NewRand(42))

	require.Equal(t, 40, f.Len())
	for i, p := range f.P {
		assert.GreaterOrEqual(t, p.Scale, 1.0, "particle %d", i)
		assert.Less(t, p.Scale, 3.0, "particle %d", i)
		assert.GreaterOrEqual(t, p.X, -2.0, "particle %d", i)
		assert.Less(t, p.X, 2.0, "particle %d", i)
		assert.GreaterOrEqual(t, p.Y, -2.0, "particle %d", i)
		assert.Less(t, p.Y, 2.0, "particle %d", i)
		assert.GreaterOrEqual(t, p.Speed, 0.0, "particle %d", i)
		assert.Less(t, p.Speed, 1.0, "particle %d", i)
	}
}

func TestNewField_SpinAlternatesByIndex(t *testing.T) {
	f := NewField(testConfig(), NewRand(7))
	for i, p := range f.P {
		if i%2 == 0 {
			assert.Equal(t, 1.0, p.Spin, "particle %d", i)
		} else {
			assert.Equal(t, -1.0, p.Spin, "particle %d", i)
		}
	}
}

func TestField_UpdateBelowThreshold(t *testing.T) {
	f := NewField(testConfig(), NewRand(1))
	f.P = []Particle{{X: 0, Y: 1.9, Scale: 2, Speed: 0.5, Spin: 1}}

	f.Update(1)

	p := f.P[0]
	assert.InDelta(t, 1.9005, p.Y, 1e-12)
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, uint64(0), f.Recycled())
}

func TestField_UpdateCrossingThreshold(t *testing.T) {
	src := &fixedSource{vals: []float64{0.5}}
	f := &Field{cfg: testConfig(), rng: src}
	f.P = []Particle{{X: 0, Y: 1.999, Scale: 2.5, Rotation: 0.3, Speed: 10, Spin: -1}}

	f.Update(1)

	p := f.P[0]
	assert.Equal(t, -4.0, p.Y)
	assert.Equal(t, 0.0, p.X) // 0.5 maps to the middle of [-2,2)
	assert.Equal(t, 2.5, p.Scale)
	assert.Equal(t, 10.0, p.Speed)
	assert.InDelta(t, 0.3-0.001*10, p.Rotation, 1e-12)
	assert.Equal(t, uint64(1), f.Recycled())
}

func TestField_RecycleInvariant(t *testing.T) {
	cfg := testConfig()
	cfg.VerticalSpeed = 50 // fast enough to recycle often
	f := NewField(cfg, NewRand(99))
	rise := cfg.FrameStep * cfg.VerticalSpeed * 1

	for frame := 0; frame < 500; frame++ {
		before := append([]Particle(nil), f.P...)
		f.Update(1)
		for i := range f.P {
			b, a := before[i], f.P[i]
			if b.Y+b.Speed*rise > RecycleTop {
				assert.Equal(t, RecycleBottom, a.Y)
				assert.GreaterOrEqual(t, a.X, -SpawnHalfWidth)
				assert.Less(t, a.X, SpawnHalfWidth)
			}
			assert.Equal(t, b.Scale, a.Scale)
			assert.Equal(t, b.Speed, a.Speed)
			assert.LessOrEqual(t, a.Y, RecycleTop)
		}
	}
	assert.NotZero(t, f.Recycled())
}

func TestField_RotationSignFixedByIndex(t *testing.T) {
	f := NewField(testConfig(), NewRand(3))
	for i := range f.P {
		f.P[i].Speed = 0.25 + 0.5*float64(i%3)/2
	}
	for frame := 0; frame < 2000; frame++ {
		before := make([]float64, f.Len())
		for i, p := range f.P {
			before[i] = p.Rotation
		}
		f.Update(1)
		for i, p := range f.P {
			d := p.Rotation - before[i]
			if i%2 == 0 {
				assert.Positive(t, d, "particle %d frame %d", i, frame)
			} else {
				assert.Negative(t, d, "particle %d frame %d", i, frame)
			}
		}
	}
}

func TestField_CountConserved(t *testing.T) {
	cfg := testConfig()
	cfg.VerticalSpeed = 100
	f := NewField(cfg, NewRand(5))
	for i := 0; i < 10000; i++ {
		f.Update(1)
	}
	assert.Equal(t, cfg.Count, f.Len())
}

func TestField_ZeroSpeedIsNoop(t *testing.T) {
	f := NewField(testConfig(), NewRand(11))
	f.P[0].Speed = 0
	start := f.P[0]
	for i := 0; i < 1000; i++ {
		f.Update(1)
	}
	assert.Equal(t, start, f.P[0])
}

func TestField_UpdateScalesWithDelta(t *testing.T) {
	cfg := testConfig()
	a := &Field{cfg: cfg, rng: NewRand(1), P: []Particle{{Y: 0, Speed: 0.8, Spin: 1}}}
	b := &Field{cfg: cfg, rng: NewRand(1), P: []Particle{{Y: 0, Speed: 0.8, Spin: 1}}}

	a.Update(2)
	b.Update(1)
	b.Update(1)

	assert.InDelta(t, b.P[0].Y, a.P[0].Y, 1e-12)
	assert.InDelta(t, b.P[0].Rotation, a.P[0].Rotation, 1e-12)
}

func TestField_EachVisitsInInsertionOrder(t *testing.T) {
	f := NewField(testConfig(), NewRand(2))
	var got []int
	f.Each(func(i int, _ *Particle) { got = append(got, i) })
	require.Len(t, got, f.Len())
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestField_SameSeedSameField(t *testing.T) {
	a := NewField(testConfig(), NewRand(1234))
	b := NewField(testConfig(), NewRand(1234))
	assert.Equal(t, a.P, b.P)
}
