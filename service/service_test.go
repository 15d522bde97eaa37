package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kavodev/lspservice/jsonrpc2"
)

// controlledHandler lets a test decide exactly when each request completes
// and in what order, so the ordering guarantee can be tested independently
// of handler speed.
type controlledHandler struct {
	mu            sync.Mutex
	pending       map[string]*ResponseOutput
	requests      chan *jsonrpc2.RequestMessage
	notifications chan *jsonrpc2.NotificationMessage
}

func newControlledHandler() *controlledHandler {
	return &controlledHandler{
		pending:       make(map[string]*ResponseOutput),
		requests:      make(chan *jsonrpc2.RequestMessage, 16),
		notifications: make(chan *jsonrpc2.NotificationMessage, 16),
	}
}

func (h *controlledHandler) HandleRequest(_ *ServiceHandle, req *jsonrpc2.RequestMessage, output *ResponseOutput) {
	h.mu.Lock()
	h.pending[string(req.ID)] = output
	h.mu.Unlock()
	h.requests <- req
}

func (h *controlledHandler) HandleNotification(_ *ServiceHandle, n *jsonrpc2.NotificationMessage) {
	h.notifications <- n
}

func (h *controlledHandler) take(t *testing.T, id string) *ResponseOutput {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	out, ok := h.pending[id]
	require.True(t, ok, "no pending output for id %s", id)
	delete(h.pending, id)
	return out
}

func (h *controlledHandler) complete(t *testing.T, id string, result any) {
	t.Helper()
	require.NoError(t, h.take(t, id).SendResult(result))
}

func (h *controlledHandler) cancel(t *testing.T, id string) {
	t.Helper()
	h.take(t, id).Cancel()
}

// testTransport wires a pair of io.Pipes so the test can play the client
// role: writing requests/notifications in, reading responses/notifications
// out, while the Service under test owns the other end.
type testTransport struct {
	serverRW            io.ReadWriter
	clientSend          io.WriteCloser
	clientRecv          *jsonrpc2.FrameReader
	serverWriteToClient io.Closer
	closeAll            func()
}

func newTestTransport() *testTransport {
	toServerR, toServerW := io.Pipe()
	toClientR, toClientW := io.Pipe()
	return &testTransport{
		serverRW:            ReadWriter{Reader: toServerR, Writer: toClientW},
		clientSend:          toServerW,
		clientRecv:          jsonrpc2.NewFrameReader(toClientR),
		serverWriteToClient: toClientW,
		closeAll: func() {
			_ = toServerR.Close()
			_ = toServerW.Close()
			_ = toClientR.Close()
			_ = toClientW.Close()
		},
	}
}

func (tr *testTransport) sendRequest(t *testing.T, id, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,"method":%q,"params":%s}`, id, method, raw)
	writeFrame(t, tr.clientSend, body)
}

func (tr *testTransport) sendNotification(t *testing.T, method string, params any) {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	body := fmt.Sprintf(`{"jsonrpc":"2.0","method":%q,"params":%s}`, method, raw)
	writeFrame(t, tr.clientSend, body)
}

func writeFrame(t *testing.T, w io.Writer, body string) {
	t.Helper()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Content-Length: %d\r\n\r\n%s", len(body), body)
	_, err := w.Write(buf.Bytes())
	require.NoError(t, err)
}

// recvResponse reads the next message off the client's receive end and
// requires it to be a ResponseMessage, with a deadline so a missing frame
// fails the test instead of hanging it.
func recvResponse(t *testing.T, tr *testTransport) *jsonrpc2.ResponseMessage {
	t.Helper()
	type result struct {
		msg jsonrpc2.IncomingMessage
		err error
	}
	out := make(chan result, 1)
	go func() {
		msg, err := tr.clientRecv.ReadMessage()
		out <- result{msg, err}
	}()
	select {
	case r := <-out:
		require.NoError(t, r.err)
		resp, ok := r.msg.(*jsonrpc2.ResponseMessage)
		require.True(t, ok, "expected a response message, got %T", r.msg)
		return resp
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for response frame")
		return nil
	}
}

func assertNoMoreFrames(t *testing.T, tr *testTransport) {
	t.Helper()
	out := make(chan error, 1)
	go func() {
		_, err := tr.clientRecv.ReadMessage()
		out <- err
	}()
	select {
	case err := <-out:
		t.Fatalf("expected no further frame, got one (err=%v)", err)
	case <-time.After(150 * time.Millisecond):
	}
}

func newTestOptions() Option {
	return WithLogger(zap.NewNop())
}

func TestOrderedReplies_SurviveOutOfOrderCompletion(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	handle := Start(context.Background(), handler, tr.serverRW, newTestOptions())
	defer handle.Shutdown()

	tr.sendRequest(t, "1", "ping", nil)
	tr.sendRequest(t, "2", "ping", nil)
	tr.sendRequest(t, "3", "ping", nil)

	for i := 0; i < 3; i++ {
		<-handler.requests
	}

	// Complete out of arrival order: 3, then 1, then 2.
	handler.complete(t, `3`, "pong-3")
	handler.complete(t, `1`, "pong-1")
	handler.complete(t, `2`, "pong-2")

	first := recvResponse(t, tr)
	second := recvResponse(t, tr)
	third := recvResponse(t, tr)

	require.JSONEq(t, `1`, string(first.ID))
	require.JSONEq(t, `2`, string(second.ID))
	require.JSONEq(t, `3`, string(third.ID))
}

func TestCancelledRequestEmitsNoFrame(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	handle := Start(context.Background(), handler, tr.serverRW, newTestOptions())
	defer handle.Shutdown()

	tr.sendRequest(t, "1", "ping", nil)
	tr.sendRequest(t, "2", "ping", nil)
	tr.sendRequest(t, "3", "ping", nil)

	for i := 0; i < 3; i++ {
		<-handler.requests
	}

	handler.cancel(t, `2`)
	handler.complete(t, `1`, "pong-1")
	handler.complete(t, `3`, "pong-3")

	first := recvResponse(t, tr)
	second := recvResponse(t, tr)

	require.JSONEq(t, `1`, string(first.ID))
	require.JSONEq(t, `3`, string(second.ID))
	assertNoMoreFrames(t, tr)
}

func TestNotificationsDoNotProduceFrames(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	handle := Start(context.Background(), handler, tr.serverRW, newTestOptions())
	defer handle.Shutdown()

	tr.sendNotification(t, "textDocument/didOpen", nil)
	tr.sendRequest(t, "1", "ping", nil)

	n := <-handler.notifications
	require.Equal(t, "textDocument/didOpen", n.Method)

	req := <-handler.requests
	handler.complete(t, string(req.ID), "pong")

	resp := recvResponse(t, tr)
	require.JSONEq(t, "1", string(resp.ID))
}

func TestServerNotification(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	handle := Start(context.Background(), handler, tr.serverRW, newTestOptions())
	defer handle.Shutdown()

	handle.SendNotification("window/logMessage", []byte(`{"message":"hello"}`))

	msg, err := tr.clientRecv.ReadMessage()
	require.NoError(t, err)
	n, ok := msg.(*jsonrpc2.NotificationMessage)
	require.True(t, ok)
	require.Equal(t, "window/logMessage", n.Method)
	require.JSONEq(t, `{"message":"hello"}`, string(n.Params))
}

func TestExplicitShutdown_ResolvesCleanly(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	handle := Start(context.Background(), handler, tr.serverRW, newTestOptions())

	handle.Shutdown()

	select {
	case <-handle.ShutdownFuture().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown future never resolved")
	}

	err, ok := handle.ShutdownFuture().TryErr()
	require.True(t, ok)
	require.NoError(t, err)
}

func TestReadFailure_ResolvesShutdownFutureWithError(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	handle := Start(context.Background(), handler, tr.serverRW, newTestOptions())

	_ = tr.clientSend.Close()

	err := handle.ShutdownFuture().Wait(context.Background())
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
}

func TestWriteFailure_ResolvesShutdownFutureWithError(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	handle := Start(context.Background(), handler, tr.serverRW, newTestOptions())

	tr.sendRequest(t, "1", "ping", nil)
	req := <-handler.requests

	// Close only the half the service writes responses into, so the writer
	// task's write fails without also failing the reader's read.
	require.NoError(t, tr.serverWriteToClient.Close())

	handler.complete(t, string(req.ID), "pong")

	err := handle.ShutdownFuture().Wait(context.Background())
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, KindWrite, svcErr.Kind)
}

func TestContextCancellation_ShutsDownCleanly(t *testing.T) {
	tr := newTestTransport()
	defer tr.closeAll()
	handler := newControlledHandler()
	ctx, cancel := context.WithCancel(context.Background())
	handle := Start(ctx, handler, tr.serverRW, newTestOptions())

	cancel()

	err := handle.ShutdownFuture().Wait(context.Background())
	require.NoError(t, err)
}
