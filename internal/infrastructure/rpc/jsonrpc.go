package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"ModelScout/internal/domain"
	"ModelScout/internal/tools"
)

const (
	jsonRPCVersion  = "2.0"
	protocolVersion = "2025-03-26"
	maxRequestBytes = 1 << 20
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type callParams struct {
	Name      string     `json:"name"`
	Arguments tools.Args `json:"arguments"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content           []textContent `json:"content"`
	StructuredContent any           `json:"structuredContent,omitempty"`
	IsError           bool          `json:"isError"`
}

var nullID = json.RawMessage("null")

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeRPC(w, rpcResponse{ID: nullID, Error: &rpcError{Code: CodeParseError, Message: "cannot read request body"}})
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeRPC(w, rpcResponse{ID: nullID, Error: &rpcError{Code: CodeParseError, Message: "parse error: " + err.Error()}})
		return
	}

	id := req.ID
	if len(id) == 0 {
		id = nullID
	}
	if req.JSONRPC != jsonRPCVersion || req.Method == "" {
		writeRPC(w, rpcResponse{ID: id, Error: &rpcError{Code: CodeInvalidRequest, Message: "invalid request"}})
		return
	}

	result, rpcErr := s.dispatch(r, req)

	// Notifications carry no id and get no response body.
	if len(req.ID) == 0 {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeRPC(w, rpcResponse{ID: id, Result: result, Error: rpcErr})
}

func (s *Server) dispatch(r *http.Request, req rpcRequest) (any, *rpcError) {
	switch req.Method {
	case "initialize":
		return map[string]any{
			"protocolVersion": protocolVersion,
			"serverInfo":      map[string]string{"name": serverName, "version": serverVersion},
			"capabilities":    map[string]any{"tools": map[string]any{}},
		}, nil
	case "notifications/initialized", "ping":
		return map[string]any{}, nil
	case "tools/list":
		return map[string]any{"tools": s.registry.List()}, nil
	case "tools/call":
		return s.callTool(r, req.Params)
	default:
		return nil, &rpcError{Code: CodeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func (s *Server) callTool(r *http.Request, raw json.RawMessage) (any, *rpcError) {
	var params callParams
	dec := json.NewDecoder(bytes.NewReader(raw))
	if len(raw) == 0 || dec.Decode(&params) != nil {
		return nil, &rpcError{Code: CodeInvalidParams, Message: "params must be an object with name and arguments"}
	}
	if params.Name == "" {
		return nil, &rpcError{Code: CodeInvalidParams, Message: "missing tool name"}
	}
	if strings.TrimSpace(params.Arguments.Query) == "" {
		return nil, &rpcError{Code: CodeInvalidParams, Message: "missing query argument"}
	}

	res, err := s.invoke(r.Context(), params.Name, params.Arguments)
	switch {
	case errors.Is(err, domain.ErrUnknownTool):
		return nil, &rpcError{Code: CodeInvalidParams, Message: err.Error()}
	case err != nil:
		return callResult{Content: []textContent{{Type: "text", Text: err.Error()}}, IsError: true}, nil
	}

	return callResult{
		Content:           []textContent{{Type: "text", Text: res.Text}},
		StructuredContent: structured(res.Structured),
	}, nil
}

// structured wraps list results in an object as clients expect.
func structured(v any) any {
	if v == nil {
		return nil
	}
	return map[string]any{"result": v}
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	resp.JSONRPC = jsonRPCVersion
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
