package logger

import (
	"log"
	"os"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// Output goes to stderr only; stdout belongs to the composed status line.
type StdLogger struct {
	verbose bool
	l       *log.Logger
}

// NewStd creates a StdLogger.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{verbose: verbose, l: log.New(os.Stderr, "paceline ", log.LstdFlags)}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.l.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.l.Println("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.l.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.l.Println("[ERROR]", msg, err, fields)
}
