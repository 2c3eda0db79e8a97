// Package logger provides the process-wide structured logger.
package logger

import (
	"sync"
)

// Levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	global *Logger
	once   sync.Once
)

// Get returns the singleton logger. The first call builds it at the given
// level; later calls return the same instance regardless of level.
func Get(level string) *Logger {
	once.Do(func() {
		global = newZapLogger(level)
	})
	return global
}
