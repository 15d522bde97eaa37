package protocol

// Method names used on the wire. Grouped by the lifecycle stage that sends
// them rather than by LSP section, since that's the order a handler's
// switch statement actually dispatches them in.

const (
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"
	MethodShutdown    = "shutdown"
	MethodExit        = "exit"

	MethodTextDocumentDidOpen   = "textDocument/didOpen"
	MethodTextDocumentDidChange = "textDocument/didChange"
	MethodTextDocumentDidSave   = "textDocument/didSave"
	MethodTextDocumentDidClose  = "textDocument/didClose"

	MethodTextDocumentHover = "textDocument/hover"

	MethodWindowShowMessage = "window/showMessage"
	MethodWindowLogMessage  = "window/logMessage"

	MethodTextDocumentPublishDiagnostics = "textDocument/publishDiagnostics"
)
