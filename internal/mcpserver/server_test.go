package mcpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/stagegate-dev/stagegate/internal/mcpserver"
	"github.com/stagegate-dev/stagegate/internal/validators"
	"github.com/stagegate-dev/stagegate/pkg/observability"
	"github.com/stagegate-dev/stagegate/pkg/report"
)

const sessionTimeout = 10 * time.Second

func newServer(t *testing.T) *mcpserver.Server {
	t.Helper()

	providers := observability.Providers{
		Tracer: nooptrace.NewTracerProvider().Tracer("test"),
		Meter:  noopmetric.NewMeterProvider().Meter("test"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	runner, err := validators.NewRunner(validators.DefaultRegistry(), providers)
	require.NoError(t, err)

	srv, err := mcpserver.NewServer(mcpserver.ServerDeps{
		Logger: providers.Logger,
		Runner: runner,
	})
	require.NoError(t, err)

	return srv
}

// connect wires a client session to the server over in-memory transport.
func connect(t *testing.T, srv *mcpserver.Server) (*mcpsdk.ClientSession, context.Context) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-serverDone
	})

	return session, ctx
}

func TestNewServer_RequiresRunner(t *testing.T) {
	t.Parallel()

	_, err := mcpserver.NewServer(mcpserver.ServerDeps{})
	require.ErrorIs(t, err, mcpserver.ErrNilRunner)
}

func TestServer_ListToolNames(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	assert.Equal(t, []string{mcpserver.ToolNameValidate}, srv.ListToolNames())
}

func TestServer_ToolsListOverTransport(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, newServer(t))

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, toolsResult.Tools, 1)

	assert.Equal(t, mcpserver.ToolNameValidate, toolsResult.Tools[0].Name)
	assert.NotNil(t, toolsResult.Tools[0].InputSchema)
}

func TestServer_CallValidate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "App.tsx"),
		[]byte("export const App = () => null;\n"), 0o600))

	session, ctx := connect(t, newServer(t))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: mcpserver.ToolNameValidate,
		Arguments: map[string]any{
			"path":   root,
			"stages": []int{1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var run report.Run
	require.NoError(t, json.Unmarshal([]byte(text.Text), &run))

	// No ERD document in the fixture, so stage 1 fails but the call succeeds.
	require.Len(t, run.Stages, 1)
	assert.Equal(t, 1, run.Stages[0].Stage)
	assert.False(t, run.Passed())
}

func TestServer_CallValidate_EmptyPath(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, newServer(t))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      mcpserver.ToolNameValidate,
		Arguments: map[string]any{"path": ""},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_CallValidate_RelativePath(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, newServer(t))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      mcpserver.ToolNameValidate,
		Arguments: map[string]any{"path": "some/project"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_CallValidate_UnknownStage(t *testing.T) {
	t.Parallel()

	session, ctx := connect(t, newServer(t))

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: mcpserver.ToolNameValidate,
		Arguments: map[string]any{
			"path":   t.TempDir(),
			"stages": []int{9},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
