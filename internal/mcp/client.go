package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

const (
	// ProtocolVersion is the MCP revision this client implements.
	ProtocolVersion = "2024-11-05"

	// shutdownGrace is how long Close waits for the subprocess to exit
	// after stdin closes before killing it.
	shutdownGrace = 3 * time.Second
)

// ClientInfo identifies this client in the initialize handshake.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerInfo identifies the server, as reported by initialize.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the server's half of the handshake.
type InitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    json.RawMessage `json:"capabilities"`
	ServerInfo      ServerInfo      `json:"serverInfo"`
}

// Tool describes one tool the server exposes.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// Client drives a shebe-mcp subprocess. Requests are serialized; the
// protocol is strictly request/response over stdio.
type Client struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	info ClientInfo

	mu     sync.Mutex
	nextID int64
	closed bool
}

// Spawn starts binaryPath as an MCP server subprocess. The context
// bounds the subprocess lifetime; cancelling it kills the server.
func Spawn(ctx context.Context, binaryPath string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, binaryPath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", binaryPath, err)
	}

	return &Client{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		info:   ClientInfo{Name: "shebe-releases", Version: "1.0"},
	}, nil
}

// Initialize performs the MCP handshake and sends the initialized
// notification. Must be called once before any other request.
func (c *Client) Initialize(ctx context.Context) (*InitializeResult, error) {
	params := map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      c.info,
	}

	raw, err := c.Call(ctx, "initialize", params)
	if err != nil {
		return nil, err
	}

	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode initialize result: %w", err)
	}

	if err := c.notify("notifications/initialized", nil); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListTools returns the tools the server exposes.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	raw, err := c.Call(ctx, "tools/list", map[string]any{})
	if err != nil {
		return nil, err
	}

	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode tools/list result: %w", err)
	}

	return result.Tools, nil
}

// Call sends one request and waits for the matching response. Frames
// with a different ID (server notifications, stray responses) are
// skipped.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("client is closed")
	}

	c.nextID++
	id := json.RawMessage(fmt.Sprintf("%d", c.nextID))

	req := &Request{ID: id, Method: method, Params: params}
	if err := writeFrame(c.stdin, req); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	for {
		resp, err := c.readResponse(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}

		if !bytes.Equal(resp.ID, id) {
			continue
		}

		if resp.Error != nil {
			return nil, fmt.Errorf("%s: %w", method, resp.Error)
		}

		return resp.Result, nil
	}
}

// notify sends a request without an ID and expects no response.
func (c *Client) notify(method string, params any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}

	return writeFrame(c.stdin, &Request{Method: method, Params: params})
}

// readResponse reads the next frame, honoring context cancellation. The
// pipe read itself cannot be interrupted, so the read runs in a
// goroutine; on cancellation the subprocess is already doomed via
// CommandContext and the goroutine ends with the pipe.
func (c *Client) readResponse(ctx context.Context) (*Response, error) {
	type frame struct {
		resp *Response
		err  error
	}

	ch := make(chan frame, 1)
	go func() {
		resp, err := readFrame(c.stdout)
		ch <- frame{resp, err}
	}()

	select {
	case f := <-ch:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the subprocess down: close stdin so a well-behaved server
// exits, then kill it if it lingers.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.stdin.Close()

	done := make(chan error, 1)
	go func() {
		done <- c.cmd.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(shutdownGrace):
		c.cmd.Process.Kill()
		<-done
		return nil
	}
}
