// Package logger provides the bootstrap logger used before slog is configured.
package logger

import (
	"fmt"
	"log"
	"os"
)

// New returns a stderr logger with a component prefix.
func New(component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(os.Stderr, prefix, log.LstdFlags|log.Lmsgprefix)
}
