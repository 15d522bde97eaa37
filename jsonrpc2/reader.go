package jsonrpc2

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// FrameReader reads framed JSON-RPC messages off an io.Reader and classifies
// them as a RequestMessage, NotificationMessage or ResponseMessage.
//
// A FrameReader is not safe for concurrent use; the service package gives
// each one exactly one reader goroutine.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps r in a FrameReader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// base is used to sniff the method/id fields before committing to a concrete
// message type.
type base struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
}

// ReadMessage blocks until the next framed message is available, returning
// it as an IncomingMessage, or returns the underlying read/parse error.
// A closed or EOF'd underlying reader surfaces as io.EOF or the wrapped
// *io.PipeError/net error from the read call — callers distinguish "clean
// close" from "malformed frame" by checking with errors.Is(err, io.EOF).
func (f *FrameReader) ReadMessage() (IncomingMessage, error) {
	body, err := readFrame(f.r)
	if err != nil {
		return nil, err
	}

	var b base
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, NewError(ParseError, fmt.Sprintf("failed to parse message: %v", err))
	}

	hasID := len(b.ID) > 0 && string(b.ID) != "null"

	switch {
	case b.Method != "" && hasID:
		var req RequestMessage
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, NewError(ParseError, fmt.Sprintf("failed to parse request: %v", err))
		}
		return &req, nil
	case b.Method != "":
		var n NotificationMessage
		if err := json.Unmarshal(body, &n); err != nil {
			return nil, NewError(ParseError, fmt.Sprintf("failed to parse notification: %v", err))
		}
		return &n, nil
	case hasID:
		var resp ResponseMessage
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, NewError(ParseError, fmt.Sprintf("failed to parse response: %v", err))
		}
		return &resp, nil
	default:
		return nil, NewError(InvalidRequest, "message is neither a request, notification, nor response")
	}
}
