// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/helixml/fundmatch/application/service"
	"github.com/helixml/fundmatch/domain/fund"
	"github.com/helixml/fundmatch/domain/search"
	"github.com/helixml/fundmatch/infrastructure/api/jsonapi"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name announced during initialization.
const ServerName = "fundmatch"

// Matcher runs queries and exposes the indexed catalog.
type Matcher interface {
	Match(ctx context.Context, query string, opts ...service.MatchOption) (service.Result, error)
	Catalog() (fund.Catalog, error)
}

// Server wraps the MCP server with fund matching tools.
type Server struct {
	mcpServer  *server.MCPServer
	matcher    Matcher
	serializer *jsonapi.Serializer
	version    string
	logger     *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(matcher Matcher, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		matcher:    matcher,
		serializer: jsonapi.NewSerializer(),
		version:    version,
		logger:     logger,
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	matchTool := mcp.NewTool("match_fund",
		mcp.WithDescription("Find the investment fund that best fits a free-text request, "+
			"with the ranked candidates and a line-by-line explanation of the decision"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What the investor is looking for, e.g. 'tax saving elss'"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("How many semantic candidates to re-rank (default: 3)"),
		),
	)
	mcpServer.AddTool(matchTool, s.handleMatch)

	listTool := mcp.NewTool("list_funds",
		mcp.WithDescription("List every fund in the catalog with its metadata"),
	)
	mcpServer.AddTool(listTool, s.handleListFunds)

	getTool := mcp.NewTool("get_fund",
		mcp.WithDescription("Get one fund's metadata by its exact name"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The fund name as listed by list_funds"),
		),
	)
	mcpServer.AddTool(getTool, s.handleGetFund)

	versionTool := mcp.NewTool("get_version",
		mcp.WithDescription("Get the fundmatch server version"),
	)
	mcpServer.AddTool(versionTool, s.handleGetVersion)
}

func (s *Server) handleMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	var opts []service.MatchOption
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		if _, set := args["top_k"]; set {
			opts = append(opts, service.WithTopK(request.GetInt("top_k", 0)))
		}
	}

	result, err := s.matcher.Match(ctx, query, opts...)
	if err != nil {
		if !errors.Is(err, search.ErrInvalidQuery) && !errors.Is(err, search.ErrInvalidTopK) {
			s.logger.Error("match failed", slog.String("error", err.Error()))
		}
		return mcp.NewToolResultError(fmt.Sprintf("match failed: %v", err)), nil
	}

	return s.jsonResult(s.serializer.MatchAttributes(result))
}

func (s *Server) handleListFunds(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := s.matcher.Catalog()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list funds failed: %v", err)), nil
	}

	funds := make([]jsonapi.FundAttributes, 0, catalog.Len())
	for _, r := range catalog.Records() {
		funds = append(funds, s.serializer.FundAttributes(r))
	}
	return s.jsonResult(funds)
}

func (s *Server) handleGetFund(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}

	catalog, err := s.matcher.Catalog()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get fund failed: %v", err)), nil
	}

	record, ok := catalog.Find(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("fund not found: %s", name)), nil
	}
	return s.jsonResult(s.serializer.FundAttributes(record))
}

func (s *Server) handleGetVersion(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.version), nil
}

func (s *Server) jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
