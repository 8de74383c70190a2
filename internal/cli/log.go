package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command and logs it with structured fields.
// It is not safe for concurrent use.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) *stage {
	l.Debug("start", "stage", name)
	return &stage{logger: l, name: name, start: time.Now()}
}

// done logs the stage with its elapsed time, rounded to the millisecond,
// and any extra key/value pairs.
func (s *stage) done(keyvals ...any) {
	kv := append([]any{"stage", s.name, "duration", time.Since(s.start).Round(time.Millisecond)}, keyvals...)
	s.logger.Info("done", kv...)
}
