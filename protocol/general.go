package protocol

import "encoding/json"

// InitializeParams carries the client's handshake: who it is, what it can
// render, and which workspace (if any) it's opening.
type InitializeParams struct {
	ProcessID             *int               `json:"processId,omitempty"`
	ClientInfo            *ClientInfo        `json:"clientInfo,omitempty"`
	RootURI               *DocumentURI       `json:"rootUri,omitempty"`
	InitializationOptions json.RawMessage    `json:"initializationOptions,omitempty"`
	Capabilities          ClientCapabilities `json:"capabilities"`
	Trace                 string             `json:"trace,omitempty"`
	WorkspaceFolders      []WorkspaceFolder  `json:"workspaceFolders,omitempty"`
}

// ClientInfo names the editor or tool driving the session.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// WorkspaceFolder is one root the client has open.
type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// ClientCapabilities declares what the client understands. Only the
// workspace applyEdit, document-sync and hover branches are modeled, and
// cmd/demo-lsp's handler does not inspect them; an unset field just means
// "client didn't advertise it."
type ClientCapabilities struct {
	Workspace    *WorkspaceClientCapabilities    `json:"workspace,omitempty"`
	TextDocument *TextDocumentClientCapabilities `json:"textDocument,omitempty"`
}

// WorkspaceClientCapabilities is the workspace-scoped subset of
// ClientCapabilities this runtime cares about.
type WorkspaceClientCapabilities struct {
	ApplyEdit bool `json:"applyEdit,omitempty"`
}

// TextDocumentClientCapabilities is the document-scoped subset of
// ClientCapabilities this runtime cares about.
type TextDocumentClientCapabilities struct {
	Synchronization *TextDocumentSyncClientCapabilities `json:"synchronization,omitempty"`
	Hover           *HoverClientCapabilities            `json:"hover,omitempty"`
}

// TextDocumentSyncClientCapabilities reports whether the client will send
// didSave notifications.
type TextDocumentSyncClientCapabilities struct {
	DidSave bool `json:"didSave,omitempty"`
}

// HoverClientCapabilities reports the markup kinds a client can render in
// a hover popup, most preferred first.
type HoverClientCapabilities struct {
	DynamicRegistration bool         `json:"dynamicRegistration,omitempty"`
	ContentFormat       []MarkupKind `json:"contentFormat,omitempty"`
}

// MarkupKind is the content type of a Hover or similar result literal.
type MarkupKind string

const (
	PlainText MarkupKind = "plaintext"
	Markdown  MarkupKind = "markdown"
)

// InitializeResult answers the handshake with what the server offers.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

// ServerInfo names the server answering the handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ServerCapabilities advertises the requests and notifications this server
// will actually answer. Only the providers a handler implements belong
// here; advertising one without a matching handler branch is a protocol
// bug waiting to happen.
type ServerCapabilities struct {
	TextDocumentSync *TextDocumentSyncOptions `json:"textDocumentSync,omitempty"`
	HoverProvider    *HoverOptions            `json:"hoverProvider,omitempty"`
}

// TextDocumentSyncOptions controls which document-lifecycle notifications
// the client should send and how change payloads are shaped.
type TextDocumentSyncOptions struct {
	OpenClose bool                 `json:"openClose,omitempty"`
	Change    TextDocumentSyncKind `json:"change,omitempty"`
}

// TextDocumentSyncKind is the shape of textDocument/didChange payloads a
// server has asked for.
type TextDocumentSyncKind int

const (
	SyncNone        TextDocumentSyncKind = 0
	SyncFull        TextDocumentSyncKind = 1
	SyncIncremental TextDocumentSyncKind = 2
)

// WorkDoneProgressOptions is embedded by provider-option structs that can
// report long-running work; HoverOptions embeds it for that reason even
// though this runtime never actually reports progress.
type WorkDoneProgressOptions struct {
	WorkDoneProgress bool `json:"workDoneProgress,omitempty"`
}

// InitializedParams is sent once the client has processed InitializeResult.
// It carries no data.
type InitializedParams struct{}

// MessageType classifies a log or user-facing message by severity.
type MessageType int

const (
	Error   MessageType = 1
	Warning MessageType = 2
	Info    MessageType = 3
	Log     MessageType = 4
)

// LogMessageParams is sent on window/logMessage: diagnostic output meant
// for the client's output panel, not its notification tray.
type LogMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// ShowMessageParams is sent on window/showMessage: a message meant to
// surface directly in the client's UI.
type ShowMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// ShutdownParams carries no data; shutdown is a request so it still gets a
// response, unlike exit.
type ShutdownParams struct{}

// ExitParams carries no data.
type ExitParams struct{}
