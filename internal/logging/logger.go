package logging

import (
	"io"
	"log/slog"
	"os"
)

// Level picks the minimum log level for an environment.
func Level(appEnv string) slog.Level {
	if appEnv == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewStdoutHandler returns the JSON handler every process writes to stdout.
func NewStdoutHandler(w io.Writer, appEnv string) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: Level(appEnv)})
}

// Setup installs the stdout JSON logger as the slog default.
func Setup(appEnv string) {
	slog.SetDefault(slog.New(ContextHandler{NewStdoutHandler(os.Stdout, appEnv)}))
}

// Install makes stdout and the system_logs sink the slog default.
func Install(appEnv string, pg *PGHandler) {
	slog.SetDefault(slog.New(ContextHandler{NewMultiHandler(
		NewStdoutHandler(os.Stdout, appEnv),
		pg,
	)}))
}
