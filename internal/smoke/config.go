package smoke

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Particle field defaults.
const (
	DefaultParticleCount = 40
	DefaultVerticalSpeed = 0.1
	DefaultRotationSpeed = 0.001
	FrameStep            = 0.01 // world units per frame at speed 1, before VerticalSpeed
)

// Recycle bounds (logical world space).
const (
	RecycleTop     = 2.0
	RecycleBottom  = -4.0
	SpawnHalfWidth = 2.0
)

// Scale range of a puff, uniform on x/y/z.
const (
	MinPuffScale = 1.0
	MaxPuffScale = 3.0
)

// Camera and projection.
const (
	CameraDistance = 2.0
	FieldOfView    = 45.0 // degrees, vertical
	NearPlane      = 0.1
	FarPlane       = 100.0
)

// Window defaults.
const (
	WindowWidth  = 1280
	WindowHeight = 720
)

// Texture defaults.
const (
	PuffTextureSize = 256
	MaxTextureSize  = 2048
)

// Timing modes.
const (
	TimingFixed    = "fixed"
	TimingRealtime = "realtime"
)

// MaxRealtimeDelta caps the elapsed time fed into a realtime step.
const MaxRealtimeDelta = 0.1

var ErrInvalidConfig = errors.New("invalid config")

type RGB [3]float32

type RGBA [4]float32

type SnapshotConfig struct {
	Output string `toml:"output"`
	Frames int    `toml:"frames"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type AudioConfig struct {
	Volume float64 `toml:"volume"`
}

// Config is read once at startup and shared read-only by the field and the
// renderers.
type Config struct {
	Count         int     `toml:"count"`
	Opacity       float32 `toml:"opacity"`
	Tint          RGB     `toml:"tint"`
	ClearColor    RGBA    `toml:"clear_color"`
	VerticalSpeed float64 `toml:"vertical_speed"`
	RotationSpeed float64 `toml:"rotation_speed"`
	FrameStep     float64 `toml:"frame_step"`
	Timing        string  `toml:"timing"`

	FieldOfView float32 `toml:"fov"`
	Near        float32 `toml:"near"`
	Far         float32 `toml:"far"`

	TexturePath string `toml:"texture"`
	Seed        uint64 `toml:"seed"`

	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
	LogLevel     string `toml:"log_level"`

	Audio    AudioConfig    `toml:"audio"`
	Snapshot SnapshotConfig `toml:"snapshot"`
}

func DefaultConfig() Config {
	return Config{
		Count:         DefaultParticleCount,
		Opacity:       0.2,
		Tint:          RGB{0.5, 0.3, 0.0},
		ClearColor:    RGBA{0.6, 0.6, 0.6, 1.0},
		VerticalSpeed: DefaultVerticalSpeed,
		RotationSpeed: DefaultRotationSpeed,
		FrameStep:     FrameStep,
		Timing:        TimingFixed,
		FieldOfView:   FieldOfView,
		Near:          NearPlane,
		Far:           FarPlane,
		WindowWidth:   WindowWidth,
		WindowHeight:  WindowHeight,
		LogLevel:      "info",
		Audio:         AudioConfig{Volume: 0.12},
		Snapshot: SnapshotConfig{
			Frames: 600,
			Width:  WindowWidth,
			Height: WindowHeight,
		},
	}
}

// LoadConfig decodes a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return err
	}
	return nil
}

// ApplyEnv overrides fields from SMOKE_* environment variables.
func (c *Config) ApplyEnv() error {
	if s := os.Getenv("SMOKE_SEED"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SMOKE_SEED: %v", ErrInvalidConfig, err)
		}
		c.Seed = v
	}
	if s := os.Getenv("SMOKE_TEXTURE"); s != "" {
		c.TexturePath = s
	}
	if s := os.Getenv("SMOKE_SNAPSHOT"); s != "" {
		c.Snapshot.Output = s
	}
	if s := os.Getenv("SMOKE_LOG_LEVEL"); s != "" {
		c.LogLevel = s
	}
	return c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	case c.Opacity < 0 || c.Opacity > 1:
		return fmt.Errorf("%w: opacity %v outside [0,1]", ErrInvalidConfig, c.Opacity)
	case !unitRange(c.Tint[:]...):
		return fmt.Errorf("%w: tint %v outside [0,1]", ErrInvalidConfig, c.Tint)
	case !unitRange(c.ClearColor[:]...):
		return fmt.Errorf("%w: clear color %v outside [0,1]", ErrInvalidConfig, c.ClearColor)
	case c.VerticalSpeed < 0 || c.RotationSpeed < 0 || c.FrameStep < 0:
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidConfig)
	case c.Timing != TimingFixed && c.Timing != TimingRealtime:
		return fmt.Errorf("%w: unknown timing %q", ErrInvalidConfig, c.Timing)
	case c.FieldOfView <= 0 || c.FieldOfView >= 180:
		return fmt.Errorf("%w: fov %v outside (0,180)", ErrInvalidConfig, c.FieldOfView)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("%w: clip planes near=%v far=%v", ErrInvalidConfig, c.Near, c.Far)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, c.WindowWidth, c.WindowHeight)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: audio volume %v outside [0,1]", ErrInvalidConfig, c.Audio.Volume)
	case c.Snapshot.Output != "" && (c.Snapshot.Frames <= 0 || c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0):
		return fmt.Errorf("%w: snapshot needs positive frames and size", ErrInvalidConfig)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}

// Headless reports whether a snapshot output was requested.
func (c Config) Headless() bool { return c.Snapshot.Output != "" }

func unitRange(vs ...float32) bool {
	for _, v := range vs {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}
