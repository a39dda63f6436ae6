package logging

import (
	"log/slog"
	"os"
)

// DebugEnvVar forces debug logging when set to any non-empty value.
const DebugEnvVar = "TASKBOARD_DEBUG"

// DebugEnabled returns true if debug mode is enabled via TASKBOARD_DEBUG
func DebugEnabled() bool {
	return os.Getenv(DebugEnvVar) != ""
}

// effectiveLevel lowers level to debug when debug mode is enabled.
func effectiveLevel(level slog.Level) slog.Level {
	if DebugEnabled() {
		return slog.LevelDebug
	}
	return level
}
