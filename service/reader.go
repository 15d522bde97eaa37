package service

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kavodev/lspservice/jsonrpc2"
)

// readerTask pulls inbound framed messages off fr, dispatches them to
// handler, and for requests enqueues a freshly created reply read-half
// into responseQueue before reading the next message. That ordering — push
// before read — is what keeps response frames in request order regardless
// of handler completion order.
func readerTask(
	done <-chan struct{},
	fr *jsonrpc2.FrameReader,
	handler MessageHandler,
	handle *ServiceHandle,
	responseQueue chan<- (<-chan jsonrpc2.ResponseMessage),
	logger *zap.Logger,
) error {
	var pending <-chan jsonrpc2.ResponseMessage

	for {
		if pending != nil {
			select {
			case <-done:
				return nil
			case responseQueue <- pending:
				pending = nil
				continue
			}
		}

		msg, err := fr.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Error("incoming stream ended unexpectedly")
				return newServiceError(KindUnknown, err)
			}
			var jsonErr *jsonrpc2.ErrorObject
			if errors.As(err, &jsonErr) {
				logger.Error("fatal JSON-RPC framing error", zap.Error(jsonErr))
			}
			return newServiceError(KindRead, err)
		}

		switch m := msg.(type) {
		case *jsonrpc2.RequestMessage:
			logger.Debug("received request", zap.String("method", m.Method), zap.ByteString("id", m.ID))
			output, readHalf := newResponseOutput(m.ID)
			handler.HandleRequest(handle, m, output)
			pending = readHalf

		case *jsonrpc2.NotificationMessage:
			logger.Debug("received notification", zap.String("method", m.Method))
			handler.HandleNotification(handle, m)

		case *jsonrpc2.ResponseMessage:
			// The server never issues requests of its own, so receiving a
			// response back from the client is a programmer/protocol
			// error, not a recoverable condition.
			return newServiceError(KindUnknown, fmt.Errorf("unexpected response message for id %s", string(m.ID)))
		}
	}
}
