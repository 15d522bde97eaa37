package service

import (
	"go.uber.org/zap"

	"github.com/kavodev/lspservice/jsonrpc2"
)

// responseWriterTask serializes per-request replies into writeQueue in the
// exact order their read-halves were enqueued by the reader. It processes
// one reply at a time: it will not pull a second read-half from
// responseQueue until the first has either resolved (and been handed to
// writeQueue) or been cancelled.
func responseWriterTask(
	done <-chan struct{},
	responseQueue <-chan (<-chan jsonrpc2.ResponseMessage),
	writeQueue chan<- jsonrpc2.OutgoingMessage,
	logger *zap.Logger,
) error {
	for {
		var readHalf <-chan jsonrpc2.ResponseMessage
		select {
		case <-done:
			return nil
		case rh, ok := <-responseQueue:
			if !ok {
				return newServiceError(KindUnknown, errUnexpectedClose("response queue"))
			}
			readHalf = rh
		}

		var resp jsonrpc2.ResponseMessage
		var resolved bool
		select {
		case <-done:
			return nil
		case r, ok := <-readHalf:
			if ok {
				resp = r
				resolved = true
			}
			// !ok: the ResponseOutput was dropped/cancelled without a
			// reply. Silently skip — no frame is ever emitted for this
			// request id.
		}

		if !resolved {
			logger.Debug("request cancelled, emitting no response frame")
			continue
		}

		logger.Debug("response resolved", zap.ByteString("id", resp.ID))
		respCopy := resp
		select {
		case <-done:
			return nil
		case writeQueue <- &respCopy:
		}
	}
}
