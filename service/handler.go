package service

import "github.com/kavodev/lspservice/jsonrpc2"

// MessageHandler is the capability a caller of Start implements to react to
// inbound requests and notifications. Both methods are invoked synchronously
// from the reader task and must return quickly: they may (and typically do)
// offload the actual work to another goroutine, completing the
// ResponseOutput whenever that work finishes. Neither method may block,
// since the reader task cannot read the next inbound message until
// dispatch returns.
//
// HandleRequest and HandleNotification are never called concurrently with
// each other — the reader task invokes them one at a time, in the order
// messages were read off the wire — but a handler may itself be shared
// across many Service instances and must be safe for that.
type MessageHandler interface {
	// HandleRequest is called once per inbound RequestMessage. The handler
	// owns output and must eventually call output.SendResult or
	// output.SendError, or explicitly (or implicitly, via garbage
	// collection) abandon it via Cancel to produce no response frame.
	HandleRequest(handle *ServiceHandle, request *jsonrpc2.RequestMessage, output *ResponseOutput)

	// HandleNotification is called once per inbound NotificationMessage.
	// There is no reply channel: notifications never produce a response
	// frame.
	HandleNotification(handle *ServiceHandle, notification *jsonrpc2.NotificationMessage)
}
