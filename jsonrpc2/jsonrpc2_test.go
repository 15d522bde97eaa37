package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, []byte(body)))
	return buf.Bytes()
}

func TestFrameReader_ClassifiesRequest(t *testing.T) {
	data := frame(t, `{"jsonrpc":"2.0","id":1,"method":"ping","params":{"x":1}}`)
	r := NewFrameReader(bytes.NewReader(data))

	msg, err := r.ReadMessage()
	require.NoError(t, err)

	req, ok := msg.(*RequestMessage)
	require.True(t, ok)
	assert.Equal(t, "ping", req.Method)
	assert.Equal(t, json.RawMessage("1"), req.ID)
}

func TestFrameReader_ClassifiesNotification(t *testing.T) {
	data := frame(t, `{"jsonrpc":"2.0","method":"log","params":{"msg":"hi"}}`)
	r := NewFrameReader(bytes.NewReader(data))

	msg, err := r.ReadMessage()
	require.NoError(t, err)

	n, ok := msg.(*NotificationMessage)
	require.True(t, ok)
	assert.Equal(t, "log", n.Method)
}

func TestFrameReader_ClassifiesResponse(t *testing.T) {
	data := frame(t, `{"jsonrpc":"2.0","id":7,"result":{"ok":true}}`)
	r := NewFrameReader(bytes.NewReader(data))

	msg, err := r.ReadMessage()
	require.NoError(t, err)

	resp, ok := msg.(*ResponseMessage)
	require.True(t, ok)
	assert.Equal(t, json.RawMessage("7"), resp.ID)
}

func TestFrameReader_RejectsMessageWithoutMethodOrID(t *testing.T) {
	data := frame(t, `{"jsonrpc":"2.0"}`)
	r := NewFrameReader(bytes.NewReader(data))

	_, err := r.ReadMessage()
	require.Error(t, err)

	var jsonErr *ErrorObject
	require.ErrorAs(t, err, &jsonErr)
	assert.Equal(t, InvalidRequest, jsonErr.Code)
}

func TestFrameReader_MissingContentLength(t *testing.T) {
	r := NewFrameReader(bytes.NewReader([]byte("\r\n{}")))
	_, err := r.ReadMessage()
	require.Error(t, err)
}

func TestFrameWriter_RoundTripsResponse(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)

	resp := &ResponseMessage{JSONRPC: Version, ID: json.RawMessage("1"), Result: json.RawMessage(`{"ok":1}`)}
	require.NoError(t, w.WriteEnvelope(Envelope{Headers: map[string]string{}, Message: resp}))

	r := NewFrameReader(&buf)
	msg, err := r.ReadMessage()
	require.NoError(t, err)

	got, ok := msg.(*ResponseMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":1}`, string(got.Result))
}

func TestFrameWriter_RoundTripsNotification(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)

	n := &NotificationMessage{JSONRPC: Version, Method: "tick", Params: json.RawMessage(`{}`)}
	require.NoError(t, w.WriteEnvelope(Envelope{Message: n}))

	r := NewFrameReader(&buf)
	msg, err := r.ReadMessage()
	require.NoError(t, err)

	got, ok := msg.(*NotificationMessage)
	require.True(t, ok)
	assert.Equal(t, "tick", got.Method)
}

func TestErrorObject_Error(t *testing.T) {
	e := NewError(InvalidParams, "bad params")
	assert.Contains(t, e.Error(), "bad params")
	assert.Contains(t, e.Error(), "-32602")
}
