//go:build !android

package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"smoke/internal/smoke"
)

// Run opens a window and animates the smoke layer until the window closes,
// Escape is pressed or ctx is cancelled.
func Run(ctx context.Context, cfg *smoke.Config, log *slog.Logger) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// Texture is resolved before any GL state exists so a bad path fails fast.
	img, err := smoke.ResolveTexture(cfg)
	if err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	log.Info("texture ready", "path", cfg.TexturePath, "size", img.Rect.Size())

	window, err := initWindow(cfg)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info("gl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	rend, err := NewGLRenderer(cfg, img)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	amb, err := StartAmbience(cfg.Audio.Volume, cfg.Seed^0xA1B)
	if err != nil {
		log.Warn("audio init failed, continuing without sound", "err", err)
	} else if amb != nil {
		defer amb.Close()
		log.Info("ambience started", "volume", cfg.Audio.Volume)
	}

	sched := smoke.NewScheduler(window)
	field := smoke.NewField(cfg, smoke.NewRand(cfg.Seed))
	scene := smoke.NewScene(cfg, field, rend, window, sched, log)
	scene.Start()

	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("stopped", "frames", sched.Frames(), "recycled", field.Recycled())
	return nil
}
