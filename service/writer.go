package service

import (
	"go.uber.org/zap"

	"github.com/kavodev/lspservice/jsonrpc2"
)

// writerTask drains writeQueue and forwards every message to fw, wrapped in
// an envelope with empty headers. It is a thin pipe: all ordering decisions
// were already made by its producers (responseWriterTask and
// commandTask).
func writerTask(
	done <-chan struct{},
	writeQueue <-chan jsonrpc2.OutgoingMessage,
	fw *jsonrpc2.FrameWriter,
	logger *zap.Logger,
) error {
	for {
		select {
		case <-done:
			return nil
		case msg, ok := <-writeQueue:
			if !ok {
				return newServiceError(KindUnknown, errUnexpectedClose("write queue"))
			}
			if err := fw.WriteEnvelope(jsonrpc2.Envelope{Headers: map[string]string{}, Message: msg}); err != nil {
				logger.Error("failed to write message", zap.Error(err))
				return newServiceError(KindWrite, err)
			}
		}
	}
}
