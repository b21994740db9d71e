// Package mcpserver implements a Model Context Protocol server exposing
// stagegate validation as an MCP tool over stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stagegate-dev/stagegate/internal/config"
	"github.com/stagegate-dev/stagegate/internal/validators"
	"github.com/stagegate-dev/stagegate/pkg/version"
)

// serverName is the MCP server implementation name.
const serverName = "stagegate"

// ErrNilRunner indicates NewServer was called without a validation runner.
var ErrNilRunner = errors.New("mcp server requires a validation runner")

// ServerDeps holds injectable dependencies for the MCP server.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Runner executes the stage validators. Required.
	Runner *validators.Runner

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with the stagegate tool registrations.
type Server struct {
	inner  *mcpsdk.Server
	mu     sync.RWMutex
	tools  []string
	runner *validators.Runner
	logger *slog.Logger
	tracer trace.Tracer
}

// NewServer creates a new MCP server with the validation tool registered.
func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Runner == nil {
		return nil, ErrNilRunner
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{
		inner:  inner,
		runner: deps.Runner,
		logger: logger,
		tracer: deps.Tracer,
	}

	srv.registerTools()

	return srv, nil
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameValidate,
		Description: validateToolDescription,
	}, withTracing(s.tracer, ToolNameValidate, s.handleValidate))

	s.trackTool(ToolNameValidate)
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// handleValidate loads the project inputs and runs the requested stages.
func (s *Server) handleValidate(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ValidateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateProjectPath(input.Path)
	if err != nil {
		return errorResult(err)
	}

	cfg := toolConfig(input)

	in, err := validators.LoadInputs(cfg, s.logger)
	if err != nil {
		return errorResult(fmt.Errorf("load project inputs: %w", err))
	}

	run, err := s.runner.Run(ctx, in, input.Stages)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(run)
}

// toolConfig maps tool input onto a validation config, filling defaults for
// the fields the tool does not expose.
func toolConfig(input ValidateInput) config.Config {
	cfg := config.Config{
		Root:        input.Path,
		ERDPath:     config.DefaultERDPath,
		OpenAPIPath: config.DefaultOpenAPIPath,
		Baseline: config.BaselineConfig{
			Dir:    config.DefaultBaselineDir,
			Codec:  config.DefaultBaselineCodec,
			Update: input.UpdateBaseline,
		},
	}

	if input.ERD != "" {
		cfg.ERDPath = input.ERD
	}

	if input.OpenAPI != "" {
		cfg.OpenAPIPath = input.OpenAPI
	}

	return cfg
}

func validateProjectPath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrPathNotAbsolute, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, path)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	return nil
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		// Include trace_id in response when span is sampled.
		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}
