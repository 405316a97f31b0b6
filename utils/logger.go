package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// InfoLogger logs informational messages
	InfoLogger *zap.SugaredLogger
	// ErrorLogger logs error messages
	ErrorLogger *zap.SugaredLogger
	// DebugLogger logs debug messages
	DebugLogger *zap.SugaredLogger
)

// InitLogger initializes the loggers, one daily file per level under logs/
func InitLogger() error {
	return InitLoggerIn("logs")
}

// InitLoggerIn initializes the loggers writing into logsDir
func InitLoggerIn(logsDir string) error {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	var err error
	if InfoLogger, err = newFileLogger(logsDir, "info", timestamp, zapcore.InfoLevel); err != nil {
		return err
	}
	if ErrorLogger, err = newFileLogger(logsDir, "error", timestamp, zapcore.ErrorLevel); err != nil {
		return err
	}
	if DebugLogger, err = newFileLogger(logsDir, "debug", timestamp, zapcore.DebugLevel); err != nil {
		return err
	}
	return nil
}

func newFileLogger(dir, name, timestamp string, level zapcore.Level) (*zap.SugaredLogger, error) {
	file, err := os.OpenFile(
		filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, timestamp)),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s log file: %v", name, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(file), level)

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar(), nil
}

// SyncLoggers flushes buffered log entries
func SyncLoggers() {
	for _, l := range []*zap.SugaredLogger{InfoLogger, ErrorLogger, DebugLogger} {
		if l != nil {
			_ = l.Sync()
		}
	}
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Infof(format, v...)
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Errorf(format, v...)
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Debugf(format, v...)
	}
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	if InfoLogger != nil {
		InfoLogger.Infow("request",
			"method", method,
			"path", path,
			"ip", ip,
			"status", status,
			"duration", duration,
		)
	}
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Errorf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
