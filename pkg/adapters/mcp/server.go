// Package mcp exposes the assistant as a Model Context Protocol server so
// agent hosts can drive support conversations as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	assistant "github.com/sunbun/assistant"
	"github.com/sunbun/assistant/internal/logging"
	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
	"github.com/sunbun/assistant/pkg/runner"
)

// ThreadResponse is the structured result shared by the thread tools.
type ThreadResponse struct {
	State *domain.State    `json:"state" jsonschema_description:"The full thread state"`
	Reply []domain.Message `json:"reply,omitempty" jsonschema_description:"Assistant messages produced by this call"`
}

// Server wraps the runner and exposes it as an MCP server.
type Server struct {
	runner    *runner.Runner
	engine    *graph.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server over the runner.
func NewServer(r *runner.Runner, engine *graph.Engine, opts ...Option) *Server {
	s := &Server{
		runner:    r,
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("sunbun-assistant", assistant.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts down
// gracefully when the context is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	createTool := mcp.NewTool("create_thread",
		mcp.WithDescription("Create a support thread. The assistant greeting is already present in the returned state."),
		mcp.WithString("thread_id", mcp.Description("Thread ID to create (generated when omitted)")),
		mcp.WithOutputSchema[ThreadResponse](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreateThread))

	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a customer message to a thread and run the conversation until it waits for input again."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Target thread ID")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The customer message")),
		mcp.WithOutputSchema[ThreadResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Read the full state of a thread without advancing it."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Target thread ID")),
		mcp.WithOutputSchema[ThreadResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetState))
}

func (s *Server) handleCreateThread(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ThreadResponse, error) {
	threadID, _ := args["thread_id"].(string)
	if threadID == "" {
		threadID = uuid.NewString()
	}

	state, err := s.runner.Bootstrap(ctx, threadID)
	if err != nil {
		s.logger.Error("MCP create_thread failed", "thread_id", threadID, "err", err)
		return ThreadResponse{}, fmt.Errorf("create thread failed: %w", err)
	}
	return ThreadResponse{State: state, Reply: state.Messages}, nil
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ThreadResponse, error) {
	threadID, _ := args["thread_id"].(string)
	content, _ := args["content"].(string)
	if threadID == "" {
		return ThreadResponse{}, errors.New("thread_id is required")
	}

	before := 0
	if prior, err := s.runner.Sessions().Load(ctx, threadID); err == nil {
		before = len(prior.Messages)
	}

	var final *domain.State
	err := s.runner.Submit(ctx, threadID, runner.Input{
		Messages: []domain.Message{domain.NewHuman(content)},
	}, func(ev runner.Event) error {
		if ev.Type == runner.EventValues {
			final = ev.State
		}
		return nil
	})
	if err != nil {
		return ThreadResponse{}, fmt.Errorf("send message failed: %w", err)
	}

	resp := ThreadResponse{State: final}
	if final != nil && before <= len(final.Messages) {
		for _, m := range final.Messages[before:] {
			if m.Role == domain.RoleAssistant {
				resp.Reply = append(resp.Reply, m)
			}
		}
	}
	return resp, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ThreadResponse, error) {
	threadID, _ := args["thread_id"].(string)
	if threadID == "" {
		return ThreadResponse{}, errors.New("thread_id is required")
	}

	state, err := s.runner.Sessions().Load(ctx, threadID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return ThreadResponse{}, fmt.Errorf("thread %q not found", threadID)
	}
	if err != nil {
		s.logger.Error("MCP get_state failed", "thread_id", threadID, "err", err)
		return ThreadResponse{}, fmt.Errorf("get state failed: %w", err)
	}
	return ThreadResponse{State: state}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("sunbun://graph", "Conversation Graph Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		g := s.engine.Graph()
		catalog := map[string]any{
			"entry": g.Entry(),
			"nodes": g.Nodes(),
		}
		jsonBytes, err := json.Marshal(catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "sunbun://graph",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
