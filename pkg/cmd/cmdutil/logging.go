package cmdutil

import (
	"os"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/config"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func newLogger(level log.Level) *log.Logger {
	opts := []log.Option{
		log.WithCaller(true),
		log.AddCallerSkip(1),
		log.WithFilter(config.LogFilter),
	}
	if config.LogFormat == "json" {
		return log.New(os.Stderr, level, opts...)
	}
	return log.DevLogger(os.Stderr, level, opts...)
}

// SetupLogger installs the default logger configured by the log flags.
func SetupLogger() *log.Logger {
	logger := newLogger(parseLogLevel(config.LogLevel, log.InfoLevel))
	log.ResetDefault(logger)
	return logger
}

// SQLLogger is the logger for the query tracer. It has its own level.
func SQLLogger() *log.Logger {
	return newLogger(parseLogLevel(config.SQLLogLevel, log.DebugLevel)).Named("sql")
}
