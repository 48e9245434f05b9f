// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Destiny MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Destiny Matcher Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg.Clone(),
		mgr:     mgr,
	}

	// --- 1. Tool: evaluate_compatibility ---
	s.AddTool(mcp.NewTool("evaluate_compatibility",
		mcp.WithDescription("Score the compatibility of two zodiac signs across every category."),
		mcp.WithString("sign_a", mcp.Description("First sign by id (0-11), name or icon."), mcp.Required()),
		mcp.WithString("sign_b", mcp.Description("Second sign by id (0-11), name or icon. Order matters."), mcp.Required()),
	), h.handleEvaluate)

	// --- 2. Tool: list_signs ---
	s.AddTool(mcp.NewTool("list_signs",
		mcp.WithDescription("List the selectable zodiac signs with their ids and icons."),
	), h.handleListSigns)

	// --- 3. Tool: list_tiers ---
	s.AddTool(mcp.NewTool("list_tiers",
		mcp.WithDescription("List the score tiers with their ranges, stars, labels and predictions."),
	), h.handleListTiers)

	// --- 4. Tool: compose_share_text ---
	s.AddTool(mcp.NewTool("compose_share_text",
		mcp.WithDescription("Evaluate two signs and compose the shareable message for the result."),
		mcp.WithString("sign_a", mcp.Description("First sign by id, name or icon."), mcp.Required()),
		mcp.WithString("sign_b", mcp.Description("Second sign by id, name or icon."), mcp.Required()),
	), h.handleComposeShareText)

	return s
}

// StartMCPServer starts the Destiny MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
