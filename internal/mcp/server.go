package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jcdickinson/javadocfetch/internal/db"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

const (
	defaultLimit = 20
	uriScheme    = "javadoc://"
)

// Index is the lookup surface the server needs from the store.
type Index interface {
	Search(ctx context.Context, prefix string, limit int) ([]db.Hit, error)
	Get(ctx context.Context, id string) (json.RawMessage, error)
}

type Server struct {
	mcpServer *server.MCPServer
	index     Index
}

func NewServer(index Index, version string) *Server {
	s := &Server{index: index}

	mcpServer := server.NewMCPServer(
		"javadocfetch",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("search_javadoc",
			mcp.WithDescription("Search indexed Java API documentation by class or method name prefix. Returns ids that can be passed to get_javadoc."),
			mcp.WithString("query",
				mcp.Description("Name prefix, simple (\"ArrayList\") or qualified (\"java.util.ArrayList.add\")"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearch,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_javadoc",
			mcp.WithDescription("Get the full documentation record of a class or method by id."),
			mcp.WithString("id",
				mcp.Description("Record id from search_javadoc, e.g. \"java.util.ArrayList\" or \"java.util.ArrayList#get(int)\""),
				mcp.Required(),
			),
		),
		s.handleGet,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriScheme+"{id}",
			"Javadoc record",
			mcp.WithTemplateDescription("Read a class or method record. Search results carry the ids."),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := defaultLimit
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if hits == nil {
		hits = []db.Hit{}
	}

	resultJSON, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	doc, err := s.index.Get(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no record with id %q", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(doc)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := strings.TrimPrefix(uri, uriScheme)
	if id == uri || id == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	doc, err := s.index.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(doc),
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
