package protocol

import "encoding/json"

// DidOpenTextDocumentParams is sent once per document, carrying the full
// initial text.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams is sent on every edit. With full-document
// sync (the only mode this runtime advertises) ContentChanges holds
// exactly one entry carrying the entire new text.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// TextDocumentContentChangeEvent describes one edit. Range/RangeLength are
// only present under incremental sync; a nil Range means Text replaces
// the whole document.
type TextDocumentContentChangeEvent struct {
	Range       *Range `json:"range,omitempty"`
	RangeLength *uint  `json:"rangeLength,omitempty"`
	Text        string `json:"text"`
}

// DidSaveTextDocumentParams is sent after the client writes a document to
// disk. Text is only populated if the client advertised that capability.
type DidSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

// DidCloseTextDocumentParams is sent when the client stops tracking a
// document; its contents may no longer reflect what's on disk.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// PublishDiagnosticsParams replaces the full diagnostic set for one
// document. LSP has no delta form: every publish is the complete set.
type PublishDiagnosticsParams struct {
	URI         DocumentURI  `json:"uri"`
	Version     *int         `json:"version,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic is one compiler-error/lint-warning style annotation anchored
// to a range in a document.
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	Code     json.RawMessage    `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

// DiagnosticSeverity ranks a Diagnostic from error down to hint.
type DiagnosticSeverity int

const (
	SeverityError   DiagnosticSeverity = 1
	SeverityWarning DiagnosticSeverity = 2
	SeverityInfo    DiagnosticSeverity = 3
	SeverityHint    DiagnosticSeverity = 4
)
