// Package logger holds the process-wide zap logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger = zap.NewNop()

// Init builds the global logger. Production (JSON) encoding is used when
// format is "json" or a log file is given; otherwise the development console
// encoder is used.
func Init(level, format, logFile string) error {
	var config zap.Config

	if format == "json" || logFile != "" {
		config = zap.NewProductionConfig()
		if logFile != "" {
			config.OutputPaths = []string{logFile, "stdout"}
		}
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	built, err := config.Build(zap.Fields(zap.String("service", "videotube-api")))
	if err != nil {
		return err
	}

	Log = built
	return nil
}

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Nop replaces the global logger with a no-op logger.
func Nop() {
	Log = zap.NewNop()
}

func Sync() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}
