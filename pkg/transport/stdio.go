package transport

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/protocol"
)

// StdioTransport reads requests from one stream and writes newline terminated
// responses to another.
type StdioTransport struct {
	decoder *json.Decoder
	writer  *bufio.Writer
	mu      sync.Mutex
}

// NewStdioTransport creates a new transport that uses stdin/stdout
func NewStdioTransport() *StdioTransport {
	return NewStreamTransport(os.Stdin, os.Stdout)
}

// NewStreamTransport speaks JSON-RPC over arbitrary streams.
func NewStreamTransport(r io.Reader, w io.Writer) *StdioTransport {
	return &StdioTransport{
		decoder: json.NewDecoder(bufio.NewReader(r)),
		writer:  bufio.NewWriter(w),
	}
}

// ParseError is returned when a message is valid JSON but not a valid request.
// The stream is still usable afterwards.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "invalid request: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// ReadRequest blocks until one complete JSON value arrives.
func (t *StdioTransport) ReadRequest() (*protocol.JsonRpcRequest, error) {
	var raw json.RawMessage
	if err := t.decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			logger.Info("Received EOF on stdin, client disconnected")
		}
		return nil, err
	}
	logger.Debug("Received raw request:", string(raw))

	request, err := protocol.ParseJsonRpcRequest(raw)
	if err != nil {
		logger.Error("Failed to parse JSON-RPC request:", err)
		return nil, &ParseError{Err: err}
	}
	return request, nil
}

// WriteResponse writes a JSON-RPC response followed by a newline.
func (t *StdioTransport) WriteResponse(response *protocol.JsonRpcResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		logger.Error("Failed to marshal response:", err)
		return err
	}
	responseBytes = append(responseBytes, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.writer.Write(responseBytes); err != nil {
		logger.Error("Failed to write response:", err)
		return err
	}
	if err := t.writer.Flush(); err != nil {
		logger.Error("Failed to flush response:", err)
		return err
	}
	logger.Debug("Sending response:", string(responseBytes))
	return nil
}
