// Package utils holds small shared infrastructure, currently the rotating
// file logger.
package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes operational log lines to a rotating file under .codexsync/.
// Core decision packages never log; only commands and collaborators do.
type Logger struct {
	logger   *log.Logger
	jsonMode bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton logger, creating it on first use. Log
// output rotates at 10 MB with a few backups kept. Setting CODEXSYNC_JSON_LOGS=1
// switches lines to JSON.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   ".codexsync/codexsync.log",
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
		if os.Getenv("CODEXSYNC_JSON_LOGS") == "1" {
			globalLogger.jsonMode = true
		}
	})
	return globalLogger
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if logFile, ok := l.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// Log writes a message to the log file.
func (l *Logger) Log(message string) {
	if l.jsonMode {
		_ = json.NewEncoder(l.logger.Writer()).Encode(map[string]any{"level": "info", "msg": message})
		return
	}
	l.logger.Print(message)
}

// Logf writes a formatted message to the log file.
func (l *Logger) Logf(format string, v ...interface{}) {
	l.Log(fmt.Sprintf(format, v...))
}

// LogError records an error.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	if l.jsonMode {
		_ = json.NewEncoder(l.logger.Writer()).Encode(map[string]any{"level": "error", "error": err.Error()})
		return
	}
	l.logger.Printf("ERROR: %v", err)
}
