package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for opsrag resources.
const uriScheme = "opsrag://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the loaded knowledge base.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "metadata",
		Name:        "metadata",
		Description: "Build provenance of the loaded knowledge base",
		MIMEType:    "application/json",
	}, s.handleMetadataResource)

	// Static resource listing indexed source files.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "List of indexed source document files",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

// handleMetadataResource returns the knowledge base metadata record.
func (s *Server) handleMetadataResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	metadata := s.ports.Ask.Metadata()

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSourcesResource returns the indexed source file names.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources := s.ports.Ask.Metadata().SourceFiles
	if sources == nil {
		sources = []string{}
	}

	data, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("marshal sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
