package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolNameValidate is the name of the stage validation tool.
const ToolNameValidate = "stagegate_validate"

// Sentinel errors for tool input validation.
var (
	// ErrEmptyPath indicates the path parameter is empty.
	ErrEmptyPath = errors.New("path parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates the path is not an absolute path.
	ErrPathNotAbsolute = errors.New("path must be an absolute path")
	// ErrProjectNotFound indicates the project path does not exist.
	ErrProjectNotFound = errors.New("project path does not exist")
	// ErrNotDirectory indicates the project path is not a directory.
	ErrNotDirectory = errors.New("project path is not a directory")
)

// ValidateInput is the input schema for the stagegate_validate tool.
type ValidateInput struct {
	ERD            string `json:"erd,omitempty"             jsonschema:"ERD document path relative to the project root (default: erd.json)"`
	OpenAPI        string `json:"openapi,omitempty"         jsonschema:"OpenAPI contract path relative to the project root (default: openapi.json)"`
	Path           string `json:"path"                      jsonschema:"absolute path to the generated project root"`
	Stages         []int  `json:"stages,omitempty"          jsonschema:"pipeline stage numbers to validate, 1 through 5 (default: all)"`
	UpdateBaseline bool   `json:"update_baseline,omitempty" jsonschema:"record the current tree as the new drift baseline"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateToolDescription documents the stagegate_validate tool.
const validateToolDescription = "Validate a generated React/TypeScript project against its " +
	"ERD document and OpenAPI contract. Runs the requested pipeline stage checkers " +
	"(ERD structure, entity scaffolding, infrastructure, routing/layout, application shell) " +
	"plus the module export/import resolution engine, and returns the diagnostics as JSON."
