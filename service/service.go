// Package service implements the message-dispatch runtime: given a
// bidirectional byte stream to a single LSP client and a MessageHandler,
// it reads framed inbound messages, dispatches them to the handler,
// collects asynchronous responses, and writes them back to the client in
// the exact order the requests arrived — regardless of the order in which
// the handler actually completes them.
//
// The runtime is four cooperating goroutines — reader, response writer,
// writer, command handler — wired by bounded channels, supervised by
// Start, which returns immediately with a ServiceHandle once all four are
// running.
package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kavodev/lspservice/jsonrpc2"
)

// Service is the internal supervisor: it owns the shutdown state and
// spawns the four tasks. It has no externally visible API — callers only
// ever see the ServiceHandle that Start returns.
type Service struct {
	logger   *zap.Logger
	shutdown *shutdownState
}

// Start wires a Service around rw and begins processing immediately in the
// background; it does not block. If ctx is cancelled, the service shuts
// down the same way an explicit ServiceHandle.Shutdown would (a clean
// resolution, not an error) — ctx may be nil to opt out of this.
//
// If rw also implements io.Closer, it is closed once the service shuts
// down, which is what unblocks a reader goroutine parked in a blocking
// Read call on the underlying transport.
func Start(ctx context.Context, handler MessageHandler, rw io.ReadWriter, opts ...Option) *ServiceHandle {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	shutdown := newShutdownState()
	commandSend := make(chan command, o.commandQueueCapacity)
	responseQueue := make(chan (<-chan jsonrpc2.ResponseMessage), o.responseQueueCapacity)
	writeQueue := make(chan jsonrpc2.OutgoingMessage, o.writeQueueCapacity)

	handle := &ServiceHandle{
		shutdownFuture: ShutdownFuture{state: shutdown},
		commandSend:    commandSend,
	}

	svc := &Service{logger: o.logger, shutdown: shutdown}

	fr := jsonrpc2.NewFrameReader(rw)
	fw := jsonrpc2.NewFrameWriter(rw)

	var g errgroup.Group

	svc.spawn(&g, "reader", func(done <-chan struct{}, logger *zap.Logger) error {
		return readerTask(done, fr, handler, handle, responseQueue, logger)
	})
	svc.spawn(&g, "response-writer", func(done <-chan struct{}, logger *zap.Logger) error {
		return responseWriterTask(done, responseQueue, writeQueue, logger)
	})
	svc.spawn(&g, "writer", func(done <-chan struct{}, logger *zap.Logger) error {
		return writerTask(done, writeQueue, fw, logger)
	})
	svc.spawn(&g, "command-handler", func(done <-chan struct{}, logger *zap.Logger) error {
		return commandTask(done, commandSend, writeQueue, shutdown.resolve, logger)
	})

	// Unblock a blocked transport Read once shutdown resolves by closing
	// the underlying stream, if it supports closing.
	go func() {
		<-shutdown.done
		if closer, ok := rw.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				shutdown.resolve(nil)
			case <-shutdown.done:
			}
		}()
	}

	go func() {
		_ = g.Wait()
	}()

	return handle
}

// spawn launches run as a goroutine under g, named logger included. Any
// error run returns resolves the shared shutdown state (the first task to
// fail wins; later failures are discarded, per shutdownState.resolve),
// which fans out to every other task via their own done channel. spawn
// never itself returns a non-nil error to g — errgroup's own
// error-cancellation isn't used, since ShutdownFuture's Ok/Err duality
// already distinguishes clean shutdown from failure.
func (s *Service) spawn(g *errgroup.Group, name string, run func(done <-chan struct{}, logger *zap.Logger) error) {
	logger := s.logger.Named(name)
	g.Go(func() error {
		logger.Debug("task starting")
		if err := run(s.shutdown.done, logger); err != nil {
			var svcErr *ServiceError
			if !errors.As(err, &svcErr) {
				svcErr = newServiceError(KindUnknown, err)
			}
			logger.Error("task failed", zap.Error(svcErr))
			s.shutdown.resolve(svcErr)
		}
		logger.Debug("task stopped")
		return nil
	})
}
