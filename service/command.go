package service

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/kavodev/lspservice/jsonrpc2"
)

// commandTask drains commandQueue, turning SendNotification commands into
// writeQueue pushes and a Shutdown command into a resolved ShutdownFuture.
// After processing Shutdown it waits on done, which the resolution has
// closed (or an earlier one already closed), and then returns: there is
// nothing further for it to do.
func commandTask(
	done <-chan struct{},
	commandQueue <-chan command,
	writeQueue chan<- jsonrpc2.OutgoingMessage,
	resolve func(*ServiceError),
	logger *zap.Logger,
) error {
	var pending jsonrpc2.OutgoingMessage

	for {
		if pending != nil {
			select {
			case <-done:
				return nil
			case writeQueue <- pending:
				pending = nil
				continue
			}
		}

		select {
		case <-done:
			return nil
		case cmd, ok := <-commandQueue:
			if !ok {
				return newServiceError(KindUnknown, errUnexpectedClose("command queue"))
			}

			switch c := cmd.(type) {
			case sendNotificationCommand:
				var params json.RawMessage
				if c.params != nil {
					params = c.params
				}
				pending = &jsonrpc2.NotificationMessage{
					JSONRPC: jsonrpc2.Version,
					Method:  c.method,
					Params:  params,
				}

			case shutdownCommand:
				logger.Info("shutdown command received")
				resolve(nil)
				<-done
				return nil
			}
		}
	}
}
