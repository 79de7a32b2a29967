// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes organizer tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nstrand/binder/internal/entity"
	"github.com/nstrand/binder/internal/organizer"
)

// Server wraps the MCP server with organizer tools.
type Server struct {
	mcp *server.MCPServer
	svc *organizer.Service
}

// New creates a new MCP server with all organizer tools registered.
func New(svc *organizer.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Binder",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_entities",
		mcp.WithDescription("List all projects, processes, and lists with their metadata."),
		mcp.WithString("sort", mcp.Description("Sort mode: 'updated_at' (default) or 'order' to group siblings by container")),
	), s.listEntities)

	s.mcp.AddTool(mcp.NewTool("create_entity",
		mcp.WithDescription("Create a project, process, or list. Lists may be nested under a "+
			"project or process via container_id; projects and processes are always top-level."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("One of 'project', 'process', 'list'")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
		mcp.WithString("container_id", mcp.Description("Parent project/process id (lists only)")),
		mcp.WithString("content_json", mcp.Description("Initial content document as JSON text (defaults to {})")),
	), s.createEntity)

	s.mcp.AddTool(mcp.NewTool("read_content",
		mcp.WithDescription("Read the content document of an entity."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entity id")),
	), s.readContent)

	s.mcp.AddTool(mcp.NewTool("update_content",
		mcp.WithDescription("Overwrite the content document of an entity."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entity id")),
		mcp.WithString("content_json", mcp.Required(), mcp.Description("New content document as JSON text")),
	), s.updateContent)

	s.mcp.AddTool(mcp.NewTool("delete_entity",
		mcp.WithDescription("Delete an entity. Deleting a project or process also removes its nested lists."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entity id")),
	), s.deleteEntity)

	s.mcp.AddTool(mcp.NewTool("read_scratchpad",
		mcp.WithDescription("Read the free-text editor scratchpad stored at a location key."),
		mcp.WithString("location", mcp.Required(), mcp.Description("Scratchpad location key (e.g. 'main')")),
	), s.readScratchpad)

	s.mcp.AddTool(mcp.NewTool("write_scratchpad",
		mcp.WithDescription("Write the free-text editor scratchpad at a location key, replacing any existing value."),
		mcp.WithString("location", mcp.Required(), mcp.Description("Scratchpad location key")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New scratchpad text (may be empty)")),
	), s.writeScratchpad)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sortMode := entity.SortByUpdatedAt
	if v, err := req.RequireString("sort"); err == nil && v != "" {
		sortMode = v
	}
	rows, err := s.svc.ListIndex(ctx, nil, sortMode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createEntity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e := entity.NewEntity{Kind: kind, Name: name}
	if v, err := req.RequireString("container_id"); err == nil && v != "" {
		e.ContainerID = &v
	}
	if v, err := req.RequireString("content_json"); err == nil && v != "" {
		if !json.Valid([]byte(v)) {
			return mcp.NewToolResultError("content_json is not valid JSON"), nil
		}
		e.ContentJSON = json.RawMessage(v)
	}

	created, err := s.svc.CreateEntity(ctx, e)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s %s (order %d)", created.Kind, created.ID, created.Order)), nil
}

func (s *Server) readContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := s.svc.GetContent(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(string(row.ContentJSON)), nil
}

func (s *Server) updateContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content_json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !json.Valid([]byte(content)) {
		return mcp.NewToolResultError("content_json is not valid JSON"), nil
	}

	updatedAt, err := s.svc.UpdateContent(ctx, id, json.RawMessage(content), nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated %s at %s", id, entity.FormatTime(updatedAt))), nil
}

func (s *Server) deleteEntity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteEntity(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) readScratchpad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := req.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	row, err := s.svc.GetEditorContent(ctx, location)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", location)), nil
	}
	return mcp.NewToolResultText(row.Content), nil
}

func (s *Server) writeScratchpad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := req.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.PutEditorContent(ctx, location, content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", location)), nil
}
