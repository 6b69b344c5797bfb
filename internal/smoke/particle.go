package smoke

// Particle is one smoke puff. Scale, Speed and Spin are fixed at creation;
// only X, Y and Rotation change.
type Particle struct {
	X, Y     float64
	Scale    float64
	Rotation float64
	Speed    float64
	Spin     float64 // +1 for even index, -1 for odd
}

// Field owns the particle collection. Insertion order is stable and is also
// the draw order.
type Field struct {
	P   []Particle
	cfg *Config
	rng Source

	recycled uint64
}

func NewField(cfg *Config, rng Source) *Field {
	f := &Field{
		P:   make([]Particle, cfg.Count),
		cfg: cfg,
		rng: rng,
	}
	for i := range f.P {
		spin := 1.0
		if i%2 != 0 {
			spin = -1.0
		}
		f.P[i] = Particle{
			X:        rangeF(rng, -SpawnHalfWidth, SpawnHalfWidth),
			Y:        rangeF(rng, -SpawnHalfWidth, SpawnHalfWidth),
			Scale:    rangeF(rng, MinPuffScale, MaxPuffScale),
			Rotation: rng.Float64(),
			Speed:    rng.Float64(),
			Spin:     spin,
		}
	}
	return f
}

func (f *Field) Len() int { return len(f.P) }

// Recycled returns how many times a particle has been sent back to the bottom.
func (f *Field) Recycled() uint64 { return f.recycled }

// Update advances every particle by delta nominal frames. Fixed timing always
// passes 1.
func (f *Field) Update(delta float64) {
	rise := f.cfg.FrameStep * f.cfg.VerticalSpeed * delta
	spin := f.cfg.RotationSpeed * delta
	for i := range f.P {
		p := &f.P[i]
		p.Y += p.Speed * rise
		if p.Y > RecycleTop {
			p.X = rangeF(f.rng, -SpawnHalfWidth, SpawnHalfWidth)
			p.Y = RecycleBottom
			f.recycled++
		}
		p.Rotation += p.Spin * spin * p.Speed
	}
}

// Each visits particles in insertion order.
func (f *Field) Each(fn func(i int, p *Particle)) {
	for i := range f.P {
		fn(i, &f.P[i])
	}
}
