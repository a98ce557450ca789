package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// Attach routes ERROR+ records to the database handler in addition to stdout.
func Attach(db *DBHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(NewJSONHandler(os.Stdout), db)))
}
