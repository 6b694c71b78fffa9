// Package logging provides the package-level structured logger used by
// the CLI and the dataset layer.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

var Logger *slog.Logger

func init() {
	SetLevel(slog.LevelInfo)
}

// SetLevel rebuilds Logger at the given minimum level. init calls it with
// slog.LevelInfo; the CLI does not change the level.
func SetLevel(level slog.Level) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  level <= slog.LevelDebug,
	})
	Logger = slog.New(handler)
}
