//go:build android

package desktop

import (
	"context"
	"errors"
	"log/slog"

	"smoke/internal/smoke"
)

var ErrNoDesktop = errors.New("desktop runner not available on android")

// Run has no window system to drive here; use snapshot mode instead.
func Run(_ context.Context, _ *smoke.Config, _ *slog.Logger) error {
	return ErrNoDesktop
}
