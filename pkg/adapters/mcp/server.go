package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/moedit"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/outline"
	"github.com/aretw0/moedit/pkg/plan"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DocumentsURI lists the stored documents.
const DocumentsURI = "moedit://documents"

// Editor defines the operations the MCP server needs.
type Editor interface {
	ResolveText(ctx context.Context, text, path string) (domain.Span, domain.Trace, error)
	ApplyText(ctx context.Context, text string, steps []plan.Operation) (string, *plan.Report, error)
	Documents(ctx context.Context) ([]string, error)
	Document(ctx context.Context, id string) (domain.Document, error)
	Outline(ctx context.Context, id string) ([]*outline.Block, error)
	Apply(ctx context.Context, p *plan.Plan) (*moedit.Result, error)
}

// ResolveResponse is the structured result of resolve_block.
type ResolveResponse struct {
	Span  domain.Span  `json:"span" jsonschema_description:"The located block with its byte offset"`
	Trace domain.Trace `json:"trace" jsonschema_description:"One entry per path segment attempted"`
}

// ApplyResponse is the structured result of apply_steps.
type ApplyResponse struct {
	Document string       `json:"document,omitempty" jsonschema_description:"ID of the saved document, when a stored document was edited"`
	Text     string       `json:"text" jsonschema_description:"The edited text"`
	Report   *plan.Report `json:"report" jsonschema_description:"Steps applied with their byte deltas"`
}

// OutlineResponse is the structured result of outline.
type OutlineResponse struct {
	Blocks []*outline.Block `json:"blocks" jsonschema_description:"Top-level blocks with nested children"`
}

// Server wraps the Editor and exposes it as an MCP Server.
type Server struct {
	editor    Editor
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(editor Editor) *Server {
	s := &Server{
		editor:    editor,
		mcpServer: server.NewMCPServer("moedit-mcp", strings.TrimSpace(moedit.Version)),
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
// It returns when ctx is cancelled or the listener fails.
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
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
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
	// TOOL: resolve_block
	resolveTool := mcp.NewTool("resolve_block",
		mcp.WithDescription("Locate a model by dotted path (e.g. Example.G.R4C3) and return its exact text and offset."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Dotted path: packages then the model name")),
		mcp.WithString("document", mcp.Description("ID of a stored document (use this or text)")),
		mcp.WithString("text", mcp.Description("Source text to search (use this or document)")),
		mcp.WithOutputSchema[ResolveResponse](),
	)
	s.mcpServer.AddTool(resolveTool, mcp.NewStructuredToolHandler(s.handleResolve))

	// TOOL: apply_steps
	applyTool := mcp.NewTool("apply_steps",
		mcp.WithDescription("Apply edit steps in order. Ops: clone, extend, add_component, add_parameter, set_parameter, edit_connection, add_connection. With document, the result is saved."),
		mcp.WithString("steps", mcp.Required(), mcp.Description(`JSON array of steps, e.g. [{"op":"set_parameter","target":"Example.G.R4C3","name":"A_z","value":"100"}]`)),
		mcp.WithString("document", mcp.Description("ID of a stored document (use this or text)")),
		mcp.WithString("output", mcp.Description("Destination document ID (defaults to document)")),
		mcp.WithString("text", mcp.Description("Source text to edit without saving (use this or document)")),
		mcp.WithOutputSchema[ApplyResponse](),
	)
	s.mcpServer.AddTool(applyTool, mcp.NewStructuredToolHandler(s.handleApply))

	// TOOL: outline
	outlineTool := mcp.NewTool("outline",
		mcp.WithDescription("List the nested packages and models of a stored document."),
		mcp.WithString("document", mcp.Required(), mcp.Description("ID of a stored document")),
		mcp.WithOutputSchema[OutlineResponse](),
	)
	s.mcpServer.AddTool(outlineTool, mcp.NewStructuredToolHandler(s.handleOutline))
}

// Handler methods for structured tools

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ResolveResponse, error) {
	path, _ := args["path"].(string)

	text, err := s.sourceText(ctx, args)
	if err != nil {
		return ResolveResponse{}, err
	}

	span, trace, err := s.editor.ResolveText(ctx, text, path)
	if err != nil {
		return ResolveResponse{Trace: trace}, fmt.Errorf("resolve failed: %w", err)
	}
	return ResolveResponse{Span: span, Trace: trace}, nil
}

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ApplyResponse, error) {
	stepsStr, _ := args["steps"].(string)
	var raw []map[string]any
	if err := json.Unmarshal([]byte(stepsStr), &raw); err != nil {
		return ApplyResponse{}, fmt.Errorf("steps must be a JSON array of objects: %w", err)
	}
	steps, err := plan.DecodeSteps(raw)
	if err != nil {
		return ApplyResponse{}, err
	}

	if id, _ := args["document"].(string); id != "" {
		output, _ := args["output"].(string)
		res, err := s.editor.Apply(ctx, &plan.Plan{Input: id, Output: output, Steps: steps})
		if err != nil {
			return ApplyResponse{}, fmt.Errorf("apply failed: %w", err)
		}
		return ApplyResponse{Document: res.Document.ID, Text: res.Document.Text, Report: res.Report}, nil
	}

	text, ok := args["text"].(string)
	if !ok {
		return ApplyResponse{}, errors.New("either document or text is required")
	}
	out, report, err := s.editor.ApplyText(ctx, text, steps)
	if err != nil {
		return ApplyResponse{}, fmt.Errorf("apply failed: %w", err)
	}
	return ApplyResponse{Text: out, Report: report}, nil
}

func (s *Server) handleOutline(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (OutlineResponse, error) {
	id, _ := args["document"].(string)
	blocks, err := s.editor.Outline(ctx, id)
	if err != nil {
		return OutlineResponse{}, fmt.Errorf("outline failed: %w", err)
	}
	return OutlineResponse{Blocks: blocks}, nil
}

// sourceText returns the text argument, or the stored document it names.
func (s *Server) sourceText(ctx context.Context, args map[string]interface{}) (string, error) {
	if id, _ := args["document"].(string); id != "" {
		doc, err := s.editor.Document(ctx, id)
		if err != nil {
			return "", err
		}
		return doc.Text, nil
	}
	text, ok := args["text"].(string)
	if !ok {
		return "", errors.New("either document or text is required")
	}
	return text, nil
}

func (s *Server) registerResources() {
	// EXPOSE: moedit://documents
	s.mcpServer.AddResource(mcp.NewResource(DocumentsURI, "Stored Documents",
		mcp.WithMIMEType("application/json"),
	), s.readDocuments)
}

func (s *Server) readDocuments(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.editor.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	jsonBytes, _ := json.Marshal(ids)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
