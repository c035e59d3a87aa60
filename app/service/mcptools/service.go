// Package mcptools exposes the assistant as MCP tools over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"meetassist/app/service/assistant"
	"meetassist/app/service/history"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

const (
	serverName    = "meetassist"
	serverVersion = "1.0.0"
)

type Runner interface {
	Run(ctx context.Context, req assistant.Request) (*assistant.Result, error)
}

type History interface {
	Save(entry history.Entry)
	List() []history.Entry
}

type Service struct {
	assistant Runner
	history   History
	server    *server.MCPServer
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*assistant.Service](di),
		do.MustInvoke[*history.Service](di),
	), nil
}

func NewService(runner Runner, hist History) *Service {
	s := &Service{
		assistant: runner,
		history:   hist,
		server:    server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false)),
	}

	s.server.AddTool(
		mcp.NewTool("summarize",
			mcp.WithDescription("Summarize a transcript into bullet points and generate advice framed by role, context, focus and format."),
			mcp.WithString("text", mcp.Required(), mcp.Description("Transcript text")),
			mcp.WithString("role", mcp.Description("Role the model should act as")),
			mcp.WithString("context", mcp.Description("Task the model performs")),
			mcp.WithString("focus", mcp.Description("What the advice should focus on")),
			mcp.WithString("custom", mcp.Description("Output format for the advice")),
		),
		s.handleSummarize,
	)

	s.server.AddTool(
		mcp.NewTool("save_settings",
			mcp.WithDescription("Save a set of prompt parameters to the recent settings history."),
			mcp.WithString("role", mcp.Description("Role")),
			mcp.WithString("context", mcp.Description("Context")),
			mcp.WithString("focus", mcp.Description("Focus")),
			mcp.WithString("custom", mcp.Description("Custom format")),
		),
		s.handleSaveSettings,
	)

	s.server.AddTool(
		mcp.NewTool("list_settings",
			mcp.WithDescription("List recently saved settings, newest first."),
		),
		s.handleListSettings,
	)

	return s
}

// Serve answers MCP requests read from stdin until ctx is done or stdin closes.
func (s *Service) Serve(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	slog.Info("MCP server listening on stdio")

	if err := server.NewStdioServer(s.server).Listen(ctx, stdin, stdout); err != nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}

	return nil
}

func (s *Service) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.assistant.Run(ctx, assistant.Request{
		Text:         text,
		Role:         request.GetString("role", ""),
		Context:      request.GetString("context", ""),
		Focus:        request.GetString("focus", ""),
		CustomFormat: request.GetString("custom", ""),
	})
	if err != nil {
		slog.WarnContext(ctx, "MCP summarize failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(result)
}

func (s *Service) handleSaveSettings(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry := history.Entry{
		Role:         request.GetString("role", ""),
		Context:      request.GetString("context", ""),
		Focus:        request.GetString("focus", ""),
		CustomFormat: request.GetString("custom", ""),
	}

	s.history.Save(entry)

	return jsonResult(entry)
}

func (s *Service) handleListSettings(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.history.List())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}
