package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJsonRpcRequest(t *testing.T) {
	req, err := ParseJsonRpcRequest([]byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	require.NoError(t, err)
	assert.Equal(t, "tools/list", req.Method)
	assert.False(t, req.IsNotification())

	note, err := ParseJsonRpcRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.True(t, note.IsNotification())
}

func TestParseJsonRpcRequestRejectsBadInput(t *testing.T) {
	_, err := ParseJsonRpcRequest([]byte(`{"jsonrpc":"1.0","method":"ping","id":1}`))
	assert.Error(t, err)

	_, err = ParseJsonRpcRequest([]byte(`{"jsonrpc":"2.0","id":1}`))
	assert.Error(t, err)

	_, err = ParseJsonRpcRequest([]byte(`{"jsonrpc":`))
	assert.Error(t, err)
}

func TestNewJsonRpcResponse(t *testing.T) {
	resp, err := NewJsonRpcResponse(map[string]int{"teams": 20}, 7)
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{"teams":20},"id":7}`, string(data))

	back, err := ParseJsonRpcResponse(data)
	require.NoError(t, err)
	assert.Nil(t, back.Error)
}

func TestErrorResponse(t *testing.T) {
	resp := NewJsonRpcErrorResponse(ErrMethodNotFound, "Method not found: foo", nil, "abc")
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32601,"message":"Method not found: foo"},"id":"abc"}`, string(data))
	assert.Contains(t, resp.Error.Error(), "-32601")
}
