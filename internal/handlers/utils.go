package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
)

// APIResponse represents the standard response format for our tools
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  string      `json:"summary"`
	Error    string      `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Team      string    `json:"team,omitempty"`
	Trials    int       `json:"trials,omitempty"`
}

// formatJSONResponse converts a response struct to a formatted JSON string
func formatJSONResponse(response interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(jsonBytes), nil
}

// textResult wraps text in a successful tool result
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errorResult wraps a message in a failed tool result
func errorResult(format string, args ...interface{}) *mcp.CallToolResult {
	result := textResult(fmt.Sprintf(format, args...))
	result.IsError = true
	return result
}

// jsonResult formats the response as JSON, reporting formatting failures as
// a failed tool result
func jsonResult(response APIResponse) *mcp.CallToolResult {
	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		return errorResult("Error formatting response: %s", err.Error())
	}
	return textResult(jsonResponse)
}

// optionalInt reads an optional numeric argument and reports whether it was
// given. JSON numbers arrive as float64.
func optionalInt(args map[string]interface{}, key string) (int, bool, error) {
	raw, exists := args[key]
	if !exists || raw == nil {
		return 0, false, nil
	}
	value, ok := raw.(float64)
	if !ok || value < 0 || value != float64(int(value)) {
		return 0, true, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return int(value), true, nil
}

// trialsArg reads the optional trials argument. Zero means the default trial
// count when absent and is rejected when given explicitly.
func trialsArg(args map[string]interface{}) (int, error) {
	trials, present, err := optionalInt(args, "trials")
	if err != nil {
		return 0, err
	}
	if present && trials == 0 {
		return 0, fmt.Errorf("trials: %w", simulation.ErrNoTrials)
	}
	return trials, nil
}

// requiredString reads a required string argument
func requiredString(args map[string]interface{}, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is required and must be a string", key)
	}
	return value, nil
}
