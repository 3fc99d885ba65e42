package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/protocol"
	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/transport"
)

const (
	serverName    = "scoreline"
	serverVersion = "1.0.0"
	// clients such as Amazon Q prefix tool names with this
	toolPrefix = "mcp___"
)

// Server answers JSON-RPC requests from a tool client
type Server struct {
	transport transport.Transport
	handlers  map[string]HandlerFunc
	tools     []protocol.Tool
	mu        sync.Mutex
}

// HandlerFunc is a function that handles a request or a tool call
type HandlerFunc = func(params any) (any, error)

// NewServer creates a server with the built-in methods registered and no tools.
func NewServer(t transport.Transport) *Server {
	s := &Server{
		transport: t,
		handlers:  make(map[string]HandlerFunc),
	}
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodPing)] = s.handlePing
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	return s
}

// RegisterTool registers a tool with the server
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, tool)
	s.handlers[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Tool(nil), s.tools...)
}

func (s *Server) handler(name string) HandlerFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handlers[name]
}

// Start starts the server and begins processing requests
func (s *Server) Start() error {
	logger.Info("Starting tool server")

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig)
		return nil
	}
}

// ProcessRequests reads and answers requests until the client goes away.
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var parseErr *transport.ParseError
		if errors.As(err, &parseErr) {
			resp := protocol.NewJsonRpcErrorResponse(protocol.ErrInvalidRequest, parseErr.Error(), nil, nil)
			if err := s.transport.WriteResponse(resp); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		// nil means no response is required
		resp := s.handleRequest(req)
		if resp == nil {
			continue
		}
		if err := s.transport.WriteResponse(resp); err != nil {
			return err
		}
	}
}

// handleRequest processes a request and returns a response
func (s *Server) handleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> " + req.Method)

	if strings.HasPrefix(req.Method, "notifications/") || req.IsNotification() {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	handler := s.handler(req.Method)
	if handler == nil {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil, req.ID)
	}

	result, err := call(handler, req.Params)
	if err != nil {
		var rpcErr *protocol.JsonRpcError
		if errors.As(err, &rpcErr) {
			return protocol.NewJsonRpcErrorResponse(rpcErr.Code, rpcErr.Message, rpcErr.Data, req.ID)
		}
		return protocol.NewJsonRpcErrorResponse(protocol.ErrToolExecutionFailed, err.Error(), nil, req.ID)
	}

	resp, err := protocol.NewJsonRpcResponse(result, req.ID)
	if err != nil {
		return protocol.NewJsonRpcErrorResponse(protocol.ErrInternal,
			"Failed to marshal result: "+err.Error(), nil, req.ID)
	}
	logger.Debug("Full response:", string(resp.Result))
	return resp
}

// call runs handler and turns a panic into an internal error so one bad
// request cannot take the server down.
func call(handler HandlerFunc, params any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Handler panicked:", fmt.Sprint(r), string(debug.Stack()))
			err = &protocol.JsonRpcError{
				Code:    protocol.ErrInternal,
				Message: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()
	return handler(params)
}

func (s *Server) handlePing(params any) (any, error) {
	return struct{}{}, nil
}

// handleToolsList handles the tools/list method
func (s *Server) handleToolsList(params any) (any, error) {
	logger.Info("Handling tools/list request")
	return protocol.ToolsResponse{Tools: s.GetTools()}, nil
}

type initializeResponse struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

// handleInitialize echoes the client's protocol version and advertises tools.
func (s *Server) handleInitialize(params any) (any, error) {
	version := "2024-11-05"
	if raw, ok := params.(json.RawMessage); ok && len(raw) > 0 {
		var p struct {
			ProtocolVersion string `json:"protocolVersion"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			logger.Warn("Failed to parse initialize params:", err)
		} else if p.ProtocolVersion != "" {
			version = p.ProtocolVersion
		}
	}
	logger.Info("Protocol version to use:", version)

	resp := initializeResponse{
		ProtocolVersion: version,
		Capabilities:    map[string]any{},
	}
	if len(s.GetTools()) > 0 {
		resp.Capabilities["tools"] = map[string]any{"listChanged": false}
	}
	resp.ServerInfo.Name = serverName
	resp.ServerInfo.Version = serverVersion
	return resp, nil
}

func (s *Server) handleToolsCall(params any) (any, error) {
	var call struct {
		Arguments map[string]any `json:"arguments"`
		Name      string         `json:"name"`
	}
	raw, _ := params.(json.RawMessage)
	if err := json.Unmarshal(raw, &call); err != nil {
		return nil, &protocol.JsonRpcError{
			Code:    protocol.ErrInvalidParams,
			Message: "invalid tools/call parameters: " + err.Error(),
		}
	}
	logger.Info("Tool call requested for:", call.Name)

	handler := s.handler(call.Name)
	if handler == nil && strings.HasPrefix(call.Name, toolPrefix) {
		handler = s.handler(strings.TrimPrefix(call.Name, toolPrefix))
	}
	if handler == nil || isBuiltin(call.Name) {
		return nil, &protocol.JsonRpcError{
			Code:    protocol.ErrInvalidParams,
			Message: "tool not found: " + call.Name,
		}
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}

	result, err := handler(call.Arguments)
	if err != nil {
		return nil, fmt.Errorf("tool execution failed: %w", err)
	}

	text, err := json.MarshalIndent(result, "", " ")
	if err != nil {
		return nil, err
	}
	return protocol.ToolCallResult{
		Content:           []protocol.ToolContent{{Type: "text", Text: string(text)}},
		StructuredContent: result,
	}, nil
}

func isBuiltin(name string) bool {
	switch protocol.MethodType(name) {
	case protocol.MethodInitialize, protocol.MethodPing, protocol.MethodToolsList, protocol.MethodToolsCall:
		return true
	}
	return false
}
