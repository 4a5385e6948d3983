// Package mcp exposes a remote.Bridge as an MCP server: every keyword
// becomes a callable tool, so MCP clients can drive a library the same way
// a remote test runner does.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/naming"
	"github.com/MrSteve2/robotframework-tools/pkg/remote"
)

// Server wraps a dispatch bridge and exposes it as an MCP server.
//
// The tool set is built from the bridge's keywords at construction time;
// libraries imported afterwards are reachable through the run_keyword tool
// but do not get a dedicated tool.
type Server struct {
	bridge    *remote.Bridge
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer builds the MCP surface for a bridge.
func NewServer(bridge *remote.Bridge, version string, logger *slog.Logger) *Server {
	s := &Server{
		bridge:    bridge,
		logger:    logger,
		mcpServer: server.NewMCPServer("remoterobot-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts down
// when the context is cancelled or the bridge is stopped.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	case <-s.bridge.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_keywords
	s.mcpServer.AddTool(mcp.NewTool("list_keywords",
		mcp.WithDescription("List all keywords available on the remote server."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.bridge.GetKeywordNames())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: run_keyword, the generic escape hatch for keywords without a
	// dedicated tool (imported after startup, or with exotic names).
	runTool := mcp.NewTool("run_keyword",
		mcp.WithDescription("Run a keyword by name with JSON-encoded positional arguments."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Keyword name")),
		mcp.WithString("args", mcp.Description("JSON array of positional arguments (optional)")),
	)
	s.mcpServer.AddTool(runTool, s.handleRunKeyword)

	// One tool per keyword known at construction time.
	for _, name := range s.bridge.GetKeywordNames() {
		s.registerKeywordTool(name)
	}
}

func (s *Server) registerKeywordTool(name string) {
	doc, err := s.bridge.GetKeywordDocumentation(name)
	if err != nil {
		return
	}
	args, err := s.bridge.GetKeywordArguments(name)
	if err != nil {
		return
	}

	opts := []mcp.ToolOption{mcp.WithDescription(toolDescription(name, doc))}
	for _, arg := range args {
		if strings.HasPrefix(arg, "*") {
			// Variadic surplus has no fixed slot in a tool schema; the
			// run_keyword tool covers it.
			continue
		}
		argName, def, hasDefault := strings.Cut(arg, "=")
		if hasDefault {
			opts = append(opts, mcp.WithString(argName,
				mcp.Description(fmt.Sprintf("Defaults to %q", def))))
		} else {
			opts = append(opts, mcp.WithString(argName, mcp.Required()))
		}
	}

	keywordName := name
	argSpecs := args
	s.mcpServer.AddTool(mcp.NewTool(naming.Encode(name), opts...),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var positional []any
			for _, arg := range argSpecs {
				if strings.HasPrefix(arg, "*") {
					continue
				}
				argName, def, hasDefault := strings.Cut(arg, "=")
				if hasDefault {
					positional = append(positional, request.GetString(argName, def))
				} else {
					value, err := request.RequireString(argName)
					if err != nil {
						return mcp.NewToolResultError(err.Error()), nil
					}
					positional = append(positional, value)
				}
			}
			return s.dispatch(ctx, keywordName, positional), nil
		})
}

func (s *Server) handleRunKeyword(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var args []any
	if raw := request.GetString("args", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("args must be a JSON array: %v", err)), nil
		}
	}
	return s.dispatch(ctx, name, args), nil
}

// dispatch runs the keyword and renders the structured result as a tool
// outcome: FAIL becomes a tool error carrying the message.
func (s *Server) dispatch(ctx context.Context, name string, args []any) *mcp.CallToolResult {
	result := s.bridge.RunKeyword(ctx, name, args, nil)
	if result.Status == domain.StatusFail {
		return mcp.NewToolResultError(result.Error)
	}
	jsonBytes, err := json.Marshal(result.Return)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprint(result.Return))
	}
	return mcp.NewToolResultText(string(jsonBytes))
}

func toolDescription(name, doc string) string {
	short, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	if short == "" {
		return fmt.Sprintf("Run the %q keyword.", name)
	}
	return short
}
