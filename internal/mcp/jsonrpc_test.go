package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	req := &Request{
		ID:     json.RawMessage("1"),
		Method: "tools/list",
		Params: map[string]any{},
	}

	if err := writeFrame(&buf, req); err != nil {
		t.Fatalf("writeFrame failed: %v", err)
	}

	line := buf.String()
	if !strings.HasSuffix(line, "\n") {
		t.Error("frame is not newline-terminated")
	}
	if strings.Count(line, "\n") != 1 {
		t.Error("frame spans multiple lines")
	}

	var decoded Request
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}

	if decoded.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q, want 2.0", decoded.JSONRPC)
	}
	if decoded.Method != "tools/list" {
		t.Errorf("method = %q, want tools/list", decoded.Method)
	}
}

func TestReadFrame(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":7,"result":{"ok":true}}` + "\n"
	resp, err := readFrame(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("readFrame failed: %v", err)
	}

	if string(resp.ID) != "7" {
		t.Errorf("id = %s, want 7", resp.ID)
	}
	if resp.Error != nil {
		t.Errorf("unexpected error object: %v", resp.Error)
	}
}

func TestReadFrameErrorObject(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}` + "\n"
	resp, err := readFrame(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("readFrame failed: %v", err)
	}

	if resp.Error == nil {
		t.Fatal("expected error object")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("code = %d, want -32601", resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Error(), "method not found") {
		t.Errorf("error string %q missing message", resp.Error.Error())
	}
}

func TestReadFrameInvalidJSON(t *testing.T) {
	input := "this is not json\n"
	if _, err := readFrame(bufio.NewReader(strings.NewReader(input))); err == nil {
		t.Fatal("expected error for invalid frame")
	}
}
