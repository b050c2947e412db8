// Package mcp provides an MCP (Model Context Protocol) server adapter for opsrag.
// It enables AI assistants like Claude to query the local CloudOps knowledge base.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
