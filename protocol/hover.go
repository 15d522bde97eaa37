package protocol

// TextDocumentPositionParams locates a single point in a document: which
// document, which line/column. textDocument/hover embeds it directly since
// hover needs nothing else.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// HoverParams is the textDocument/hover request payload.
type HoverParams struct {
	TextDocumentPositionParams
}

// Hover is the textDocument/hover response: rendered content, and
// optionally the span it describes.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// MarkupContent pairs a rendering hint with the text to render.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// HoverOptions is the hoverProvider value in ServerCapabilities; an empty
// value advertises hover support with no extra behavior.
type HoverOptions struct {
	WorkDoneProgressOptions
}
