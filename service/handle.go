package service

import (
	"context"
	"sync"
	"sync/atomic"
)

// shutdownState is the shared, single-resolution terminal signal backing
// every ShutdownFuture clone. Only the first call to resolve has any
// effect; every later call is a no-op.
type shutdownState struct {
	once sync.Once
	done chan struct{}
	err  atomic.Pointer[ServiceError]
}

func newShutdownState() *shutdownState {
	return &shutdownState{done: make(chan struct{})}
}

// resolve records the terminal outcome. err == nil means a clean, explicit
// shutdown; a non-nil err is the first fatal error observed by any task.
// Only the first call has any effect.
func (s *shutdownState) resolve(err *ServiceError) {
	s.once.Do(func() {
		if err != nil {
			s.err.Store(err)
		}
		close(s.done)
	})
}

func (s *shutdownState) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// ShutdownFuture is a cheaply cloneable, observable terminal signal. All
// clones share the same underlying state and observe the same resolution.
// Done is the select-able primitive; Wait and TryErr are convenience
// wrappers around it.
type ShutdownFuture struct {
	state *shutdownState
}

// Done returns a channel that is closed exactly once, when the service has
// shut down (cleanly or due to a fatal error).
func (f ShutdownFuture) Done() <-chan struct{} {
	return f.state.done
}

// TryErr reports the resolved outcome without blocking. ok is false if the
// future has not resolved yet; if ok is true, err is nil for a clean
// shutdown or the first fatal ServiceError otherwise.
func (f ShutdownFuture) TryErr() (err error, ok bool) {
	if !f.state.isDone() {
		return nil, false
	}
	if e := f.state.err.Load(); e != nil {
		return e, true
	}
	return nil, true
}

// Wait blocks until the future resolves or ctx is cancelled, whichever
// happens first.
func (f ShutdownFuture) Wait(ctx context.Context) error {
	select {
	case <-f.state.done:
		err, _ := f.TryErr()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// command is the sum type carried over CommandQueue.
type command interface{ isCommand() }

type sendNotificationCommand struct {
	method string
	params []byte
}

func (sendNotificationCommand) isCommand() {}

type shutdownCommand struct{}

func (shutdownCommand) isCommand() {}

// ServiceHandle is a cheaply cloneable control surface: Shutdown and
// SendNotification never block, and dropping every clone does not shut the
// service down on its own. It holds only channel ends and a shutdown
// future — no back-reference to the supervisor — so the handler (which may
// itself hold a ServiceHandle) cannot create a reference cycle with the
// supervisor that owns it.
type ServiceHandle struct {
	shutdownFuture ShutdownFuture
	commandSend    chan command
}

// ShutdownFuture returns an observable handle to the service's terminal
// status.
func (h *ServiceHandle) ShutdownFuture() ShutdownFuture {
	return h.shutdownFuture
}

// Shutdown requests a graceful shutdown. It returns immediately; the
// request is delivered to the command handler task in the background. If
// the service has already shut down, the request is silently dropped —
// there is nothing left to shut down.
func (h *ServiceHandle) Shutdown() {
	go func() {
		select {
		case h.commandSend <- shutdownCommand{}:
		case <-h.shutdownFuture.Done():
		}
	}()
}

// SendNotification queues a server-originated notification for delivery to
// the client. It returns immediately; delivery happens asynchronously and
// is not ordered with respect to in-flight request responses (both compete
// for the write queue on a first-come basis). If the service has already
// shut down, the notification is silently dropped.
func (h *ServiceHandle) SendNotification(method string, params []byte) {
	go func() {
		select {
		case h.commandSend <- sendNotificationCommand{method: method, params: params}:
		case <-h.shutdownFuture.Done():
		}
	}()
}
