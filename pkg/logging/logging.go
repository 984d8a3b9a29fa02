// Package logging builds the run-scoped logger. Every message is mirrored to
// the console and to a per-run timestamped log file; the logger is handed to
// the pipeline as an explicit dependency, and losing the file sink never
// changes processing behavior or outputs.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger teeing console output with a log file named
// <identifier>_log_<YYYYMMDD_HHMMSS>.txt under logDir. The returned closer
// flushes and releases the file handle; call it on every exit path.
func New(logDir, identifier string, verbose bool) (*zap.SugaredLogger, func(), error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	consoleCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)

	file, err := openLogFile(logDir, identifier)
	if err != nil {
		// Console-only fallback: a missing log file must not stop the run.
		logger := zap.New(consoleCore).Sugar()
		logger.Warnf("Logging to file disabled: %v", err)
		return logger, func() { _ = logger.Sync() }, nil
	}

	fileCore := zapcore.NewCore(encoder, zapcore.AddSync(file), level)
	logger := zap.New(zapcore.NewTee(consoleCore, fileCore)).Sugar()

	closer := func() {
		_ = logger.Sync()
		_ = file.Close()
	}
	return logger, closer, nil
}

func openLogFile(logDir, identifier string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := fmt.Sprintf("%s_log_%s.txt", identifier, time.Now().Format("20060102_150405"))
	file, err := os.Create(filepath.Join(logDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return file, nil
}

// Discard returns a logger that drops everything. Used by tests exercising
// the pipeline without caring about its messages.
func Discard() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
