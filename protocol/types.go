package protocol

// DocumentURI identifies a document the way the client named it, usually a
// file:// URI but never parsed as one here — it's an opaque key for the
// document map, not a filesystem path.
type DocumentURI string

// TextDocumentIdentifier references a document by URI alone.
type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

// VersionedTextDocumentIdentifier references a document at a specific
// edit version, required on every didChange so out-of-order delivery can
// be detected (this runtime doesn't check it, but the field round-trips).
type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version int `json:"version"`
}

// TextDocumentItem is the full document payload a client sends on open:
// identity, language, version, and the starting text.
type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`
}

// Position is a zero-based line/character offset into a document.
type Position struct {
	Line      uint `json:"line"`
	Character uint `json:"character"`
}

// Range spans from Start up to, but not including, End.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}
