// Package mcp speaks the Model Context Protocol to a provisioned
// shebe-mcp subprocess over newline-delimited JSON-RPC 2.0 on
// stdin/stdout.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Request is a JSON-RPC 2.0 request frame. A nil ID makes it a
// notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  any             `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response frame.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// writeFrame writes one request as a single NDJSON line.
func writeFrame(w io.Writer, req *Request) error {
	req.JSONRPC = "2.0"
	enc, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if _, err := w.Write(append(enc, '\n')); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// readFrame reads one NDJSON line and decodes it as a response.
func readFrame(r *bufio.Reader) (*Response, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("invalid json-rpc frame: %w", err)
	}
	return &resp, nil
}
