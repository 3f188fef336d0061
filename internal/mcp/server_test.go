package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/helixml/fundmatch/application/service"
	domainservice "github.com/helixml/fundmatch/domain/service"
	"github.com/helixml/fundmatch/domain/search"
	"github.com/helixml/fundmatch/infrastructure/api/jsonapi"
	"github.com/helixml/fundmatch/infrastructure/catalog"
	"github.com/helixml/fundmatch/internal/testembed"
	"github.com/mark3labs/mcp-go/mcp"
)

func testMatcher(t *testing.T) *service.Matcher {
	t.Helper()

	builder, err := domainservice.NewIndexBuilder(testembed.New())
	if err != nil {
		t.Fatalf("new index builder: %v", err)
	}
	source := catalog.NewBuiltinSource()
	m := service.NewMatcher(builder, search.DefaultMatchConfig(), source, &atomic.Bool{}, nil, nil)
	if err := m.ReloadFromSource(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return m
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(testMatcher(t), "0.1.0-test", nil)
}

// sendMessage marshals a JSON-RPC request, sends it through HandleMessage,
// and returns the JSONRPCResponse. It fatals on marshal failure or unexpected
// response type.
func sendMessage(t *testing.T, srv *Server, method string, id int, params map[string]any) mcp.JSONRPCResponse {
	t.Helper()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	result := srv.MCPServer().HandleMessage(context.Background(), raw)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T: %+v", result, result)
	}
	return resp
}

// resultJSON re-marshals the Result field through JSON into dst.
func resultJSON(t *testing.T, resp mcp.JSONRPCResponse, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("unmarshal result into %T: %v", dst, err)
	}
}

func initializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "0.0.1",
		},
	}
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) mcp.CallToolResult {
	t.Helper()
	sendMessage(t, srv, "initialize", 1, initializeParams())

	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      name,
		"arguments": args,
	})

	var result mcp.CallToolResult
	resultJSON(t, resp, &result)
	return result
}

func textFromContent(t *testing.T, result mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in response")
	}
	b, err := json.Marshal(result.Content[0])
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	var tc struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(b, &tc); err != nil {
		t.Fatalf("unmarshal text content: %v", err)
	}
	return tc.Text
}

func TestServer_Initialize(t *testing.T) {
	srv := testServer(t)
	resp := sendMessage(t, srv, "initialize", 1, initializeParams())

	var result mcp.InitializeResult
	resultJSON(t, resp, &result)

	if result.ServerInfo.Name != "fundmatch" {
		t.Errorf("expected server name fundmatch, got %s", result.ServerInfo.Name)
	}
	if result.ServerInfo.Version != "0.1.0-test" {
		t.Errorf("expected version 0.1.0-test, got %s", result.ServerInfo.Version)
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be present")
	}
}

func TestServer_ListTools(t *testing.T) {
	srv := testServer(t)
	sendMessage(t, srv, "initialize", 1, initializeParams())

	resp := sendMessage(t, srv, "tools/list", 2, nil)

	var result mcp.ListToolsResult
	resultJSON(t, resp, &result)

	tools := map[string]mcp.Tool{}
	for _, tool := range result.Tools {
		tools[tool.Name] = tool
	}
	if len(tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(tools))
	}
	for _, name := range []string{"match_fund", "list_funds", "get_fund", "get_version"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing tool: %s", name)
		}
	}

	match := tools["match_fund"]
	if _, ok := match.InputSchema.Properties["top_k"]; !ok {
		t.Error("match_fund missing top_k parameter")
	}
	if !contains(match.InputSchema.Required, "query") {
		t.Error("query should be required")
	}
}

func TestServer_MatchFund(t *testing.T) {
	srv := testServer(t)

	result := callTool(t, srv, "match_fund", map[string]any{"query": "tax saving elss", "top_k": 2})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var attrs jsonapi.MatchAttributes
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &attrs); err != nil {
		t.Fatalf("unmarshal match: %v", err)
	}
	if !attrs.Matched || attrs.Fund == nil {
		t.Fatalf("expected a match, got %+v", attrs)
	}
	if len(attrs.Candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(attrs.Candidates))
	}
	if len(attrs.Explanation) == 0 {
		t.Fatal("expected an explanation")
	}
	last := attrs.Explanation[len(attrs.Explanation)-1]
	if !strings.HasPrefix(last, "Best Match: "+attrs.Fund.Name) {
		t.Errorf("last explanation line = %q", last)
	}
}

func TestServer_MatchFundNoMatch(t *testing.T) {
	srv := testServer(t)

	result := callTool(t, srv, "match_fund", map[string]any{"query": "xyz nonsense query"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var attrs jsonapi.MatchAttributes
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &attrs); err != nil {
		t.Fatalf("unmarshal match: %v", err)
	}
	if attrs.Matched || attrs.Fund != nil {
		t.Errorf("expected no match, got %+v", attrs.Fund)
	}
	if attrs.Message != search.NoMatchMessage {
		t.Errorf("message = %q", attrs.Message)
	}
	if len(attrs.Explanation) < 2 {
		t.Fatalf("expected advisory and summary lines, got %v", attrs.Explanation)
	}
	if got := attrs.Explanation[len(attrs.Explanation)-2]; got != search.NoMatchMessage {
		t.Errorf("advisory line = %q", got)
	}
	if last := attrs.Explanation[len(attrs.Explanation)-1]; !strings.HasPrefix(last, "Best Match: ") {
		t.Errorf("last explanation line = %q", last)
	}
}

func TestServer_MatchFundErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing query", map[string]any{}, "query is required"},
		{"blank query", map[string]any{"query": "   "}, "match failed"},
		{"zero top_k", map[string]any{"query": "tax", "top_k": 0}, "top_k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, testServer(t), "match_fund", tt.args)
			if !result.IsError {
				t.Fatal("expected error response")
			}
			if text := textFromContent(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("expected error text containing %q, got: %s", tt.want, text)
			}
		})
	}
}

func TestServer_ListFunds(t *testing.T) {
	result := callTool(t, testServer(t), "list_funds", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}

	var funds []jsonapi.FundAttributes
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &funds); err != nil {
		t.Fatalf("unmarshal funds: %v", err)
	}
	if len(funds) != 3 {
		t.Fatalf("expected 3 funds, got %d", len(funds))
	}
	if funds[0].Name != "Axis Long Term Equity Fund" || funds[0].Type != "ELSS" {
		t.Errorf("unexpected first fund: %+v", funds[0])
	}
}

func TestServer_GetFund(t *testing.T) {
	srv := testServer(t)

	result := callTool(t, srv, "get_fund", map[string]any{"name": "HDFC Balanced Advantage Fund"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", textFromContent(t, result))
	}
	var f jsonapi.FundAttributes
	if err := json.Unmarshal([]byte(textFromContent(t, result)), &f); err != nil {
		t.Fatalf("unmarshal fund: %v", err)
	}
	if f.Category != "Hybrid" {
		t.Errorf("category = %q, want Hybrid", f.Category)
	}

	missing := callTool(t, srv, "get_fund", map[string]any{"name": "Nope"})
	if !missing.IsError {
		t.Fatal("expected error for unknown fund")
	}
	if text := textFromContent(t, missing); !strings.Contains(text, "fund not found") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestServer_GetVersion(t *testing.T) {
	result := callTool(t, testServer(t), "get_version", map[string]any{})
	if got := textFromContent(t, result); got != "0.1.0-test" {
		t.Errorf("version = %q, want 0.1.0-test", got)
	}
}

func contains(items []string, target string) bool {
	for _, s := range items {
		if s == target {
			return true
		}
	}
	return false
}

// Ensure the application matcher satisfies the tool dependency.
var _ Matcher = (*service.Matcher)(nil)
