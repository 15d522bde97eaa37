package jsonrpc2

import (
	"encoding/json"
	"fmt"
	"io"
)

// FrameWriter writes framed JSON-RPC messages to an io.Writer.
//
// A FrameWriter is not safe for concurrent use. The service package's
// architecture guarantees exactly one goroutine (the writer task) ever
// calls WriteEnvelope, so no internal locking is needed here.
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter wraps w in a FrameWriter.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteEnvelope marshals env.Message and writes it as a single framed
// message. env.Headers is ignored beyond existing as part of the wire
// model: the runtime always sends empty headers.
func (f *FrameWriter) WriteEnvelope(env Envelope) error {
	body, err := json.Marshal(env.Message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return writeFrame(f.w, body)
}
