package smoke

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
)

// RenderSnapshot runs the scene headless on a SoftRenderer for
// cfg.Snapshot.Frames frames and writes the last frame as PNG.
func RenderSnapshot(ctx context.Context, cfg *Config, log *slog.Logger) error {
	tex, err := ResolveTexture(cfg)
	if err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	log.Info("texture ready", "path", cfg.TexturePath, "size", tex.Rect.Size())

	rend := NewSoftRenderer(cfg, tex)
	sched := NewScheduler(&HeadlessRefresh{Remaining: cfg.Snapshot.Frames})
	field := NewField(cfg, NewRand(cfg.Seed))
	surface := FixedSurface{Width: cfg.Snapshot.Width, Height: cfg.Snapshot.Height}

	scene := NewScene(cfg, field, rend, surface, sched, log)
	scene.Start()
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if err := writePNG(cfg.Snapshot.Output, rend); err != nil {
		return err
	}
	log.Info("snapshot written",
		"path", cfg.Snapshot.Output,
		"frames", sched.Frames(),
		"recycled", field.Recycled(),
	)
	return nil
}

func writePNG(path string, rend *SoftRenderer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, rend.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}
