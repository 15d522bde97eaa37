package protocol

import (
	"encoding/json"

	"github.com/kavodev/lspservice/service"
)

// ShowMessage sends a window/showMessage notification through handle.
func ShowMessage(handle *service.ServiceHandle, msgType MessageType, message string) error {
	params, err := json.Marshal(ShowMessageParams{Type: msgType, Message: message})
	if err != nil {
		return err
	}
	handle.SendNotification(MethodWindowShowMessage, params)
	return nil
}

// LogMessage sends a window/logMessage notification through handle.
func LogMessage(handle *service.ServiceHandle, msgType MessageType, message string) error {
	params, err := json.Marshal(LogMessageParams{Type: msgType, Message: message})
	if err != nil {
		return err
	}
	handle.SendNotification(MethodWindowLogMessage, params)
	return nil
}

// PublishDiagnostics sends the full current set of diagnostics for uri. LSP
// expects the complete set on every publish, not a delta, so callers should
// pass the diagnostics they want to replace the previous set with; an empty
// or nil slice clears them.
func PublishDiagnostics(handle *service.ServiceHandle, uri DocumentURI, diagnostics []Diagnostic) error {
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}
	params, err := json.Marshal(PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics})
	if err != nil {
		return err
	}
	handle.SendNotification(MethodTextDocumentPublishDiagnostics, params)
	return nil
}
