package service

import (
	"encoding/json"
	"runtime"
	"sync/atomic"

	"github.com/kavodev/lspservice/jsonrpc2"
)

// ResponseOutput is a detachable, one-shot reply capability for a single
// request. It is created by the reader task when a request arrives and
// handed to the MessageHandler, which may complete it from any goroutine —
// ResponseOutput is safe to pass across goroutines even though the rest of
// the runtime is loop-local.
//
// Calling SendResult or SendError exactly once is the expected usage.
// Never calling either (letting the output become unreachable) is also
// permitted and is treated as cancellation: the response writer emits no
// frame for that request. Cancel makes that abandonment explicit instead
// of relying on garbage collection.
type ResponseOutput struct {
	id     json.RawMessage
	ch     chan jsonrpc2.ResponseMessage
	closed atomic.Bool
}

// newResponseOutput creates a ResponseOutput for id and returns it along
// with the read half of its reply channel, which the caller must enqueue
// onto the response queue before reading any further inbound message.
func newResponseOutput(id json.RawMessage) (*ResponseOutput, <-chan jsonrpc2.ResponseMessage) {
	ch := make(chan jsonrpc2.ResponseMessage, 1)
	out := &ResponseOutput{id: id, ch: ch}
	// If the handler discards the output without completing it, the
	// finalizer closes the channel so the response writer can tell
	// "cancelled" apart from "still pending". SendResult/SendError clear
	// this before the output ever reaches the collector, so the common
	// path never touches GC.
	runtime.SetFinalizer(out, (*ResponseOutput).Cancel)
	return out, ch
}

// SendResult completes the request with a successful result. result is
// marshalled to JSON; a marshalling failure is reported back to the caller
// so it can decide how to degrade (e.g. send an InternalError instead).
func (o *ResponseOutput) SendResult(result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	o.complete(jsonrpc2.ResponseMessage{
		JSONRPC: jsonrpc2.Version,
		ID:      o.id,
		Result:  raw,
	})
	return nil
}

// SendError completes the request with an error response.
func (o *ResponseOutput) SendError(respErr *jsonrpc2.ErrorObject) {
	o.complete(jsonrpc2.ResponseMessage{
		JSONRPC: jsonrpc2.Version,
		ID:      o.id,
		Error:   respErr,
	})
}

// Cancel explicitly abandons the request: no response frame will ever be
// written for it. Calling Cancel after SendResult/SendError, or calling it
// twice, is a no-op. It exists for handlers and tests that want
// deterministic cancellation instead of depending on GC timing for the
// finalizer to run.
func (o *ResponseOutput) Cancel() {
	if o.closed.CompareAndSwap(false, true) {
		close(o.ch)
	}
}

func (o *ResponseOutput) complete(resp jsonrpc2.ResponseMessage) {
	if !o.closed.CompareAndSwap(false, true) {
		return
	}
	runtime.SetFinalizer(o, nil)
	o.ch <- resp
}
