// Command demo-lsp is a minimal language server built on the lspservice
// runtime: it understands initialize/shutdown/exit, tracks open document
// text, and answers textDocument/hover with a plain-text note giving the
// document's size and the hovered position. It exists to
// exercise the service package end-to-end over stdio, not as a real
// language server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/kavodev/lspservice/jsonrpc2"
	"github.com/kavodev/lspservice/protocol"
	"github.com/kavodev/lspservice/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	handler := newDemoHandler(logger)
	transport := service.ReadWriter{Reader: os.Stdin, Writer: os.Stdout}

	handle := service.Start(ctx, handler, transport, service.WithLogger(logger))

	if err := handle.ShutdownFuture().Wait(context.Background()); err != nil {
		logger.Fatal("service stopped with error", zap.Error(err))
	}
	logger.Info("service stopped cleanly")
}

// demoHandler implements service.MessageHandler. It holds one logical
// client's open documents; a real server would key this per workspace, but
// demo-lsp only ever talks to one client at a time.
type demoHandler struct {
	logger *zap.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentURI]string
}

func newDemoHandler(logger *zap.Logger) *demoHandler {
	return &demoHandler{logger: logger, docs: make(map[protocol.DocumentURI]string)}
}

func (h *demoHandler) HandleRequest(handle *service.ServiceHandle, req *jsonrpc2.RequestMessage, output *service.ResponseOutput) {
	switch req.Method {
	case protocol.MethodInitialize:
		h.handleInitialize(output)
	case protocol.MethodTextDocumentHover:
		h.handleHover(req, output)
	case protocol.MethodShutdown:
		h.logger.Info("shutdown request received")
		if err := output.SendResult(nil); err != nil {
			h.logger.Error("failed to reply to shutdown", zap.Error(err))
		}
	default:
		msg := fmt.Sprintf("method not found: %s", req.Method)
		output.SendError(jsonrpc2.NewError(jsonrpc2.MethodNotFound, msg))
		if err := protocol.ShowMessage(handle, protocol.Warning, msg); err != nil {
			h.logger.Error("failed to send show-message notice", zap.Error(err))
		}
	}
}

func (h *demoHandler) HandleNotification(handle *service.ServiceHandle, n *jsonrpc2.NotificationMessage) {
	switch n.Method {
	case protocol.MethodInitialized:
		if err := protocol.LogMessage(handle, protocol.Info, "demo-lsp ready"); err != nil {
			h.logger.Error("failed to send ready log message", zap.Error(err))
		}
	case protocol.MethodTextDocumentDidOpen:
		h.handleDidOpen(handle, n)
	case protocol.MethodTextDocumentDidChange:
		h.handleDidChange(handle, n)
	case protocol.MethodTextDocumentDidSave:
		h.logger.Debug("document saved")
	case protocol.MethodTextDocumentDidClose:
		h.handleDidClose(n)
	case protocol.MethodExit:
		h.logger.Info("exit notification received")
		handle.Shutdown()
	}
}

func (h *demoHandler) handleInitialize(output *service.ResponseOutput) {
	result := protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{Name: "demo-lsp", Version: "0.1.0"},
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{OpenClose: true, Change: protocol.SyncFull},
			HoverProvider:    &protocol.HoverOptions{},
		},
	}
	if err := output.SendResult(result); err != nil {
		h.logger.Error("failed to reply to initialize", zap.Error(err))
	}
}

func (h *demoHandler) handleDidOpen(handle *service.ServiceHandle, n *jsonrpc2.NotificationMessage) {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(n.Params, &params); err != nil {
		h.logger.Error("malformed didOpen params", zap.Error(err))
		return
	}
	h.mu.Lock()
	h.docs[params.TextDocument.URI] = params.TextDocument.Text
	h.mu.Unlock()
	h.logger.Debug("document opened", zap.String("uri", string(params.TextDocument.URI)))
	h.clearDiagnostics(handle, params.TextDocument.URI)
}

func (h *demoHandler) handleDidChange(handle *service.ServiceHandle, n *jsonrpc2.NotificationMessage) {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(n.Params, &params); err != nil {
		h.logger.Error("malformed didChange params", zap.Error(err))
		return
	}
	h.mu.Lock()
	for _, change := range params.ContentChanges {
		if change.Range == nil {
			h.docs[params.TextDocument.URI] = change.Text
		}
		// Incremental ranges are intentionally unsupported: demo-lsp only
		// requests full-document sync in its initialize result.
	}
	h.mu.Unlock()
	h.clearDiagnostics(handle, params.TextDocument.URI)
}

// handleDidClose drops the document's tracked text; hover on a closed URI
// falls back to the "no document open" response.
func (h *demoHandler) handleDidClose(n *jsonrpc2.NotificationMessage) {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(n.Params, &params); err != nil {
		h.logger.Error("malformed didClose params", zap.Error(err))
		return
	}
	h.mu.Lock()
	delete(h.docs, params.TextDocument.URI)
	h.mu.Unlock()
	h.logger.Debug("document closed", zap.String("uri", string(params.TextDocument.URI)))
}

// clearDiagnostics republishes an empty diagnostic set for uri. demo-lsp
// never produces diagnostics itself, but every sync notification is a
// point where a real analyzer would recompute and publish them.
func (h *demoHandler) clearDiagnostics(handle *service.ServiceHandle, uri protocol.DocumentURI) {
	if err := protocol.PublishDiagnostics(handle, uri, nil); err != nil {
		h.logger.Error("failed to publish diagnostics", zap.Error(err))
	}
}

func (h *demoHandler) handleHover(req *jsonrpc2.RequestMessage, output *service.ResponseOutput) {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		output.SendError(jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
		return
	}

	h.mu.Lock()
	text, known := h.docs[params.TextDocument.URI]
	h.mu.Unlock()

	value := fmt.Sprintf("no document open for `%s`", params.TextDocument.URI)
	if known {
		value = fmt.Sprintf("`%s` is %d bytes, hovering at line %d, col %d",
			params.TextDocument.URI, len(text), params.Position.Line, params.Position.Character)
	}

	result := protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.PlainText, Value: value},
	}
	if err := output.SendResult(result); err != nil {
		h.logger.Error("failed to reply to hover", zap.Error(err))
	}
}
