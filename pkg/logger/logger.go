// Package logger provides structured logging capabilities for the application.
// It wraps uber-go/zap for high-performance, leveled logging with JSON output support.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Global logger instance
	globalLogger *zap.Logger
	once         sync.Once
)

// Config holds the logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level"`
	// Format is the output format (json, text)
	Format string `yaml:"format"`
	// File is the log file path (empty for stdout only)
	// When set, logs are written to both console and file
	File string `yaml:"file"`
	// MaxSize is the maximum size in megabytes of the log file before it gets rotated
	MaxSize int `yaml:"max_size"`
	// MaxAge is the maximum number of days to retain old log files
	MaxAge int `yaml:"max_age"`
	// MaxBackups is the maximum number of old log files to retain
	MaxBackups int `yaml:"max_backups"`
	// Compress determines if the rotated log files should be compressed using gzip
	Compress bool `yaml:"compress"`
	// AccessLog determines if HTTP request logs should be printed at info level
	AccessLog bool `yaml:"access_log"`
}

// Init initializes the global logger with the given configuration.
// This function is safe to call multiple times; only the first call will take effect.
func Init(cfg Config) error {
	var initErr error
	once.Do(func() {
		initErr = initLogger(cfg)
	})
	return initErr
}

// initLogger creates and sets the global logger
func initLogger(cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Apply default values for rotation config
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100 // Default 100 MB
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 7 // Default 7 days
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 5 // Default 5 backups
	}

	var consoleEncoder, fileEncoder zapcore.Encoder
	if cfg.Format == "text" {
		consoleEncoder = zapcore.NewConsoleEncoder(textEncoderConfig(true))
		fileEncoder = zapcore.NewConsoleEncoder(textEncoderConfig(false))
	} else {
		jsonCfg := jsonEncoderConfig()
		consoleEncoder = zapcore.NewJSONEncoder(jsonCfg)
		fileEncoder = zapcore.NewJSONEncoder(jsonCfg)
	}

	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	core := consoleCore
	if cfg.File != "" {
		dir := filepath.Dir(cfg.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create log directory: %v, using console only\n", err)
		} else {
			// Use lumberjack for log rotation
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,    // megabytes
				MaxAge:     cfg.MaxAge,     // days
				MaxBackups: cfg.MaxBackups, // number of backups
				Compress:   cfg.Compress,   // compress old files
			})
			fileCore := zapcore.NewCore(fileEncoder, fileWriter, level)
			core = zapcore.NewTee(consoleCore, fileCore)
		}
	}

	globalLogger = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return nil
}

// textEncoderConfig returns the console encoder config used for text format.
// Color is applied to the console output only, never to files.
func textEncoderConfig(color bool) zapcore.EncoderConfig {
	levelEncoder := bracketLevelEncoder
	if color {
		levelEncoder = bracketColorLevelEncoder
	}
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          zapcore.OmitKey,
		CallerKey:        "caller",
		FunctionKey:      zapcore.OmitKey,
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      levelEncoder,
		EncodeTime:       bracketTimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}
}

// jsonEncoderConfig returns the encoder config used for JSON format.
func jsonEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// bracketTimeEncoder formats time with brackets: [2006-01-02 15:04:05]
func bracketTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("2006-01-02 15:04:05") + "]")
}

// bracketLevelEncoder formats level with brackets: [INFO]
func bracketLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

// bracketColorLevelEncoder formats level with brackets and ANSI color: [INFO]
func bracketColorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var color string
	switch level {
	case zapcore.DebugLevel:
		color = "\x1b[35m" // Magenta
	case zapcore.InfoLevel:
		color = "\x1b[34m" // Blue
	case zapcore.WarnLevel:
		color = "\x1b[33m" // Yellow
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		color = "\x1b[31m" // Red
	default:
		color = "\x1b[0m" // Reset
	}
	reset := "\x1b[0m"
	enc.AppendString(color + "[" + level.CapitalString() + "]" + reset)
}

// parseLevel converts a string level to zapcore.Level
func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(level))
	return l, err
}

// Get returns the global logger instance.
// If the logger hasn't been initialized, it returns a no-op logger.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// With creates a child logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Named creates a child logger with the given name
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	Get().WithOptions(zap.AddCallerSkip(1)).Fatal(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
