// Package tools provides the think tool and the MCP (Model Context Protocol)
// server that exposes it.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/think-mcp/pkg/tools/think] — the think tool: schema, description and handler
//   - [github.com/germanamz/think-mcp/pkg/tools/mcpserver] — MCP server using the official MCP Go SDK for exposing tools over stdio or streamable HTTP
//
// The mcpserver package is a thin wrapper around the official MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk). It knows nothing about think;
// anything with a Register(*mcp.Server) method can be served.
package tools
