// Package mcp exposes the state tree over the Model Context Protocol:
// tools to build scenes, inspect cells and superpose structures, plus the
// tree itself as a readable resource. It lets AI agents drive the engine
// the same way the HTTP adapter lets browsers do it.
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

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/internal/dto"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/structure"
)

// BuildResponse aligns with the HTTP report schema and provides a unified structure across adapters.
type BuildResponse struct {
	Name  string            `json:"name,omitempty" jsonschema_description:"The scene name from the build script"`
	Cells []dto.CellSummary `json:"cells" jsonschema_description:"Every cell of the settled tree, root first"`
}

// SuperposeResponse carries the result of aligning two structures.
type SuperposeResponse struct {
	RMSD      float64       `json:"rmsd" jsonschema_description:"Root mean square deviation after alignment, in Angstroms"`
	Transform geometry.Mat4 `json:"transform" jsonschema_description:"Column-major 4x4 matrix mapping the mobile structure onto the fixed one"`
}

// CellListResponse wraps a cell listing for structured tool output.
type CellListResponse struct {
	Cells []dto.CellSummary `json:"cells" jsonschema_description:"The matching cells, in tree order"`
}

// Engine defines the interface required by the MCP server to drive the tree.
type Engine interface {
	Current() domain.Snapshot
	Cells() []domain.Cell
	Cell(ref domain.Ref) (domain.Cell, bool)
	FindByTag(tag string) []domain.Cell
	BuildScript(ctx context.Context, data []byte) error
	Superpose(ctx context.Context, fixed, mobile domain.Ref) (structure.Superposition, error)
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("molstar-mcp", strings.TrimSpace(molstar.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	// Start the SSE server
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: build_scene
	buildTool := mcp.NewTool("build_scene",
		mcp.WithDescription("Apply a YAML build script to the state tree. The tree is diffed against the script: new transforms run, removed ones are pruned, the rest are reused."),
		mcp.WithString("script", mcp.Required(), mcp.Description("The YAML build script")),
		mcp.WithOutputSchema[BuildResponse](),
	)
	s.mcpServer.AddTool(buildTool, mcp.NewStructuredToolHandler(s.handleBuildScene))

	// TOOL: superpose
	superposeTool := mcp.NewTool("superpose",
		mcp.WithDescription("Align one structure onto another and graft the aligned conformation into the tree."),
		mcp.WithString("fixed", mcp.Required(), mcp.Description("Ref of the structure cell to align against")),
		mcp.WithString("mobile", mcp.Required(), mcp.Description("Ref of the structure cell to align")),
		mcp.WithOutputSchema[SuperposeResponse](),
	)
	s.mcpServer.AddTool(superposeTool, mcp.NewStructuredToolHandler(s.handleSuperpose))

	// TOOL: get_tree
	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the current state tree snapshot for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Current())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: list_cells
	s.mcpServer.AddTool(mcp.NewTool("list_cells",
		mcp.WithDescription("List every cell of the tree with its status, kind and labels."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(dto.SummarizeCells(s.engine.Cells()))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_cell
	getCellTool := mcp.NewTool("get_cell",
		mcp.WithDescription("Get one cell by ref."),
		mcp.WithString("ref", mcp.Required(), mcp.Description("The cell ref")),
		mcp.WithOutputSchema[dto.CellSummary](),
	)
	s.mcpServer.AddTool(getCellTool, mcp.NewStructuredToolHandler(s.handleGetCell))

	// TOOL: find_by_tag
	findByTagTool := mcp.NewTool("find_by_tag",
		mcp.WithDescription("Find cells carrying the given tag."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("The tag to search for")),
		mcp.WithOutputSchema[CellListResponse](),
	)
	s.mcpServer.AddTool(findByTagTool, mcp.NewStructuredToolHandler(s.handleFindByTag))
}

// Handler methods for structured tools

func (s *Server) handleBuildScene(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (BuildResponse, error) {
	script, _ := args["script"].(string)
	if script == "" {
		return BuildResponse{}, fmt.Errorf("script must not be empty")
	}

	if err := s.engine.BuildScript(ctx, []byte(script)); err != nil {
		// A failed build rolls the tree back, so there is no partial
		// result worth returning.
		slog.Error("MCP Build: script failed", "error", err)
		return BuildResponse{}, fmt.Errorf("build failed: %w", err)
	}

	return BuildResponse{
		Name:  s.engine.Current().Name,
		Cells: dto.SummarizeCells(s.engine.Cells()),
	}, nil
}

func (s *Server) handleSuperpose(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SuperposeResponse, error) {
	fixed, _ := args["fixed"].(string)
	mobile, _ := args["mobile"].(string)

	sup, err := s.engine.Superpose(ctx, domain.Ref(fixed), domain.Ref(mobile))
	if err != nil {
		return SuperposeResponse{}, fmt.Errorf("superpose failed: %w", err)
	}

	return SuperposeResponse{
		RMSD:      sup.RMSD,
		Transform: sup.Transform,
	}, nil
}

func (s *Server) handleGetCell(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (dto.CellSummary, error) {
	ref, _ := args["ref"].(string)

	cell, ok := s.engine.Cell(domain.Ref(ref))
	if !ok {
		return dto.CellSummary{}, fmt.Errorf("cell not found: %s", ref)
	}
	return dto.SummarizeCell(cell), nil
}

func (s *Server) handleFindByTag(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CellListResponse, error) {
	tag, _ := args["tag"].(string)
	return CellListResponse{Cells: dto.SummarizeCells(s.engine.FindByTag(tag))}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: molstar://tree
	s.mcpServer.AddResource(mcp.NewResource("molstar://tree", "Current State Tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Current())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tree: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "molstar://tree",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: molstar://cells
	s.mcpServer.AddResource(mcp.NewResource("molstar://cells", "Cell Listing",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(dto.SummarizeCells(s.engine.Cells()))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cells: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "molstar://cells",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
