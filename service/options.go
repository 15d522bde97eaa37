package service

import (
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default queue capacities: bounded channels are the backpressure
// mechanism that makes a slow transport slow the whole
// pipeline down, including eventually the reader.
const (
	defaultResponseQueueCapacity = 1024
	defaultWriteQueueCapacity    = 1024
	defaultCommandQueueCapacity  = 16
)

// Option configures a Service at construction time using the standard
// functional-options pattern.
type Option func(*options)

type options struct {
	logger                *zap.Logger
	responseQueueCapacity int
	writeQueueCapacity    int
	commandQueueCapacity  int
}

func defaultOptions() *options {
	return &options{
		logger:                defaultLogger(),
		responseQueueCapacity: defaultResponseQueueCapacity,
		writeQueueCapacity:    defaultWriteQueueCapacity,
		commandQueueCapacity:  defaultCommandQueueCapacity,
	}
}

// defaultLogger builds a production-shaped zap.Logger: JSON encoding,
// ISO8601 timestamps, and host/instance identity fields baked in so logs
// from many running
// services can be told apart.
func defaultLogger() *zap.Logger {
	hostname, _ := os.Hostname()
	cfg := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"host.name":           hostname,
			"service.instance.id": uuid.NewString(),
		},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			TimeKey:      "time",
			LevelKey:     "severity",
			NameKey:      "logger",
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeLevel:  zapcore.CapitalLevelEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	logger, err := cfg.Build()
	if err != nil {
		// zap.Config.Build only fails on malformed configuration, which
		// the literal above never produces; fall back to a no-op logger
		// rather than panicking a caller that just wanted a server.
		return zap.NewNop()
	}
	return logger
}

// WithLogger overrides the zap.Logger used for all task and supervisor
// logging. The logger is named per task ("reader", "response-writer",
// "writer", "command-handler") via Logger.Named.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithQueueCapacities overrides the ResponseQueue/WriteQueue/CommandQueue
// buffer sizes. Zero or negative values leave the corresponding default
// untouched; this exists primarily so tests can shrink the queues to
// exercise backpressure without needing thousands of messages.
func WithQueueCapacities(response, write, command int) Option {
	return func(o *options) {
		if response > 0 {
			o.responseQueueCapacity = response
		}
		if write > 0 {
			o.writeQueueCapacity = write
		}
		if command > 0 {
			o.commandQueueCapacity = command
		}
	}
}
