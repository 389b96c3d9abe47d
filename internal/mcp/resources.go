// ABOUTME: MCP resource implementations for workout records.
// ABOUTME: Provides the workoutlog://recent resource.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentURI   = "workoutlog://recent"
	recentLimit = 10
)

func (s *Server) registerResources() {
	// workoutlog://recent - Last 10 records across all users
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Workout Records",
		Description: "Last 10 workout records, newest first",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.query(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) > recentLimit {
		records = records[:recentLimit]
	}

	data, err := json.MarshalIndent(map[string]any{
		"records": toOutputs(records),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      recentURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
