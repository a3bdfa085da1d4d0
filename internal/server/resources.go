package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const usageGuidelines = `# archmap usage guidelines

archmap analyzes the structure of a source repository: which files depend
on which, where the hubs and circular imports are, and where execution
enters the codebase.

Suggested workflow:

1. Call ` + "`status`" + ` first. If no pass has completed, call ` + "`analyze`" + `.
2. Use ` + "`get_hubs`" + ` to find the files where changes carry the most risk.
   Each hub lists its blast radius: the files affected if its interface
   changes.
3. Use ` + "`get_clusters`" + ` to see which files form de-facto modules, and
   ` + "`get_chains`" + ` to follow representative dependency paths from entry
   points.
4. Use ` + "`get_file`" + ` for a single file's symbols, imports and dependents
   before editing it.

All paths are workspace-relative with forward slashes. Results come from
the last completed pass; call ` + "`analyze`" + ` after large changes.
`

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "archmap://usage-guidelines",
		Name:        "Usage Guidelines",
		Description: "Suggested workflow for the archmap MCP server",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      "archmap://usage-guidelines",
					MIMEType: "text/markdown",
					Text:     usageGuidelines,
				},
			},
		}, nil
	})

	// Tool name -> schema JSON for dynamic dispatch.
	schemaMap := buildSchemaMap()

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "archmap://schemas/{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		toolName := strings.TrimPrefix(uri, "archmap://schemas/")
		schemaJSON, ok := schemaMap[toolName]
		if !ok {
			return nil, fmt.Errorf("unknown tool schema: %q", toolName)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/schema+json",
					Text:     schemaJSON,
				},
			},
		}, nil
	})
}

// buildSchemaMap constructs a map from tool name to its JSON schema string.
// Schemas are derived from the args structs using jsonschema inference.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[AnalyzeArgs](m, "analyze")
	addSchema[StatusArgs](m, "status")
	addSchema[GetHubsArgs](m, "get_hubs")
	addSchema[GetClustersArgs](m, "get_clusters")
	addSchema[GetChainsArgs](m, "get_chains")
	addSchema[GetFileArgs](m, "get_file")
	addSchema[GetEntryPointsArgs](m, "get_entry_points")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(schemaJSON)
}
