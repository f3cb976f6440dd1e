// Package mcptools exposes plan pricing as MCP tools so assistants can
// draft, inspect and edit plans.
//
// Each tool is a struct holding its service, with Definition returning the
// tool schema and Handle serving calls. Failures are reported as tool
// errors, never as protocol errors.
package mcptools

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string) (int, bool) {
	switch v := req.GetArguments()[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// objectArg decodes an object argument into out and validates its binding
// tags. A JSON string holding the object is accepted too.
func objectArg(req mcp.CallToolRequest, key string, out any) error {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return fmt.Errorf("'%s' is required", key)
	}
	var data []byte
	if s, isString := raw.(string); isString {
		data = []byte(s)
	} else {
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return fmt.Errorf("encoding '%s': %w", key, err)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("'%s' is not a valid object: %w", key, err)
	}
	if err := binding.Validator.ValidateStruct(out); err != nil {
		return fmt.Errorf("invalid '%s': %w", key, err)
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func errorResult(action string, err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err)), nil
}
