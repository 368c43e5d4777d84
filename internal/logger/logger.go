// Package logger holds the process-wide zap logger. Packages take a
// component logger from Named where they log, so that everything created
// before Init still lands in the configured sinks.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log discards everything until Init is called.
var Log = zap.NewNop()

// Sugar mirrors Log for printf-style call sites.
var Sugar = Log.Sugar()

// FileConfig controls the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig keeps three compressed 20MB backups for a week.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{Path: path, MaxSizeMB: 20, MaxBackups: 3, MaxAgeDays: 7, Compress: true}
}

// Init logs to stdout and, when logFile is set, to a rotating file.
func Init(level string, logFile string) error {
	var file FileConfig
	if logFile != "" {
		file = DefaultFileConfig(logFile)
	}
	return InitWithFileConfig(level, file, true)
}

// InitWithFileConfig replaces the global logger. Tests pass
// consoleOutput=false to keep stdout clean.
func InitWithFileConfig(level string, fileCfg FileConfig, consoleOutput bool) error {
	enabled := ParseLevel(level)

	var sinks []zapcore.Core
	if consoleOutput {
		sinks = append(sinks, zapcore.NewCore(
			zapcore.NewConsoleEncoder(lineLayout(true)), zapcore.Lock(os.Stdout), enabled))
	}
	if fileCfg.Path != "" {
		sinks = append(sinks, zapcore.NewCore(
			zapcore.NewConsoleEncoder(lineLayout(false)), zapcore.AddSync(rotating(fileCfg)), enabled))
	}

	Log = zap.New(zapcore.NewTee(sinks...), zap.AddCaller())
	Sugar = Log.Sugar()
	return nil
}

// lineLayout renders "time LEVEL component caller msg fields". The
// terminal variant uses a wall clock and colored levels.
func lineLayout(terminal bool) zapcore.EncoderConfig {
	layout := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "component",
		CallerKey:        "caller",
		MessageKey:       "msg",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if terminal {
		layout.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		layout.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return layout
}

func rotating(c FileConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   c.Compress,
		LocalTime:  true,
	}
}

// ParseLevel accepts zap level names in either case. Anything it does not
// recognize logs at info.
func ParseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Named returns the current logger tagged with a component name. Nested
// components join with a dot, e.g. Named("renderer").Named("shadow").
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes buffered entries. Errors from syncing a terminal are noise.
func Sync() {
	_ = Log.Sync()
}

// Shorthands for the unnamed root logger, used by the command entry points.

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }

// Fatal logs and exits with status 1.
func Fatal(msg string, fields ...zap.Field) { Log.Fatal(msg, fields...) }
