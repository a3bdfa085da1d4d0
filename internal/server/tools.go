package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"archmap/internal/graph"
	"archmap/internal/symbols"
	"archmap/util"
)

// Arguments structs

type AnalyzeArgs struct{}

type StatusArgs struct{}

type GetHubsArgs struct {
	Limit int `json:"limit" jsonschema:"description:Maximum number of hubs to return; 0 means all ranked hubs"`
}

type GetClustersArgs struct{}

type GetChainsArgs struct{}

type GetFileArgs struct {
	FilePath string `json:"file_path" jsonschema:"required,description:Workspace-relative path of the file to describe"`
}

type GetEntryPointsArgs struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze",
		Description: "Runs a full structural analysis pass over the workspace",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeArgs) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		if err := s.runAnalysis(ctx); err != nil {
			return errorResult(fmt.Sprintf("Analysis failed: %v", err)), nil, nil
		}
		snap := s.Snapshot()
		msg := fmt.Sprintf("Analyzed %d files: %d edges, %d symbols, %d hubs in %.2fs",
			len(snap.Files), len(snap.Edges), len(snap.Symbols), len(snap.Hubs),
			time.Since(start).Seconds())
		return textResult(msg), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "status",
		Description: "Returns the current analysis status of the workspace",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
		status, err, duration := s.Status()

		result := map[string]any{
			"status": string(status),
		}
		if duration > 0 {
			result["duration_seconds"] = duration.Seconds()
		}
		if err != nil {
			result["error"] = err.Error()
		}
		if snap := s.Snapshot(); snap != nil {
			result["files"] = len(snap.Files)
			result["edges"] = len(snap.Edges)
			result["circular_pairs"] = len(snap.CircularPairs)
			if len(snap.CircularPairs) > 0 {
				result["circular_sample"] = graph.SummarizeCircularPairs(snap.CircularPairs)
			}
		}

		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_hubs",
		Description: "Returns the highest-connectivity app files with risk tier and blast radius",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetHubsArgs) (*mcp.CallToolResult, any, error) {
		snap, errRes := s.readySnapshot(ctx)
		if errRes != nil {
			return errRes, nil, nil
		}

		hubs := snap.Hubs
		if args.Limit > 0 && args.Limit < len(hubs) {
			hubs = hubs[:args.Limit]
		}
		if len(hubs) == 0 {
			return textResult("No hubs found."), nil, nil
		}
		jsonBytes, _ := json.MarshalIndent(hubs, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_clusters",
		Description: "Returns groups of files that are frequently imported together",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetClustersArgs) (*mcp.CallToolResult, any, error) {
		snap, errRes := s.readySnapshot(ctx)
		if errRes != nil {
			return errRes, nil, nil
		}

		if len(snap.Clusters) == 0 {
			return textResult("No clusters found."), nil, nil
		}
		jsonBytes, _ := json.MarshalIndent(snap.Clusters, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_chains",
		Description: "Returns representative dependency chains starting from entry points",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetChainsArgs) (*mcp.CallToolResult, any, error) {
		snap, errRes := s.readySnapshot(ctx)
		if errRes != nil {
			return errRes, nil, nil
		}

		if len(snap.Chains) == 0 {
			return textResult("No chains found."), nil, nil
		}
		jsonBytes, _ := json.MarshalIndent(snap.Chains, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_file",
		Description: "Returns a file's classification, symbols, dependencies and dependents",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetFileArgs) (*mcp.CallToolResult, any, error) {
		snap, errRes := s.readySnapshot(ctx)
		if errRes != nil {
			return errRes, nil, nil
		}

		detail, ok := fileDetail(snap, args.FilePath)
		if !ok {
			return textResult(fmt.Sprintf("File %q is not in the analyzed set.", args.FilePath)), nil, nil
		}
		jsonBytes, _ := json.MarshalIndent(detail, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_entry_points",
		Description: "Returns the files where external execution begins, with category and confidence",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetEntryPointsArgs) (*mcp.CallToolResult, any, error) {
		snap, errRes := s.readySnapshot(ctx)
		if errRes != nil {
			return errRes, nil, nil
		}

		if len(snap.EntryPoints) == 0 {
			return textResult("No entry points found."), nil, nil
		}
		jsonBytes, _ := json.MarshalIndent(snap.EntryPoints, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})
}

// readySnapshot waits for the first pass to complete and returns the
// snapshot, or the error result to send back when it is unavailable.
func (s *Server) readySnapshot(ctx context.Context) (*graph.Snapshot, *mcp.CallToolResult) {
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.WaitForSnapshot(waitCtx); err != nil {
		status, statusErr, _ := s.Status()
		if statusErr != nil {
			return nil, errorResult(fmt.Sprintf("Analysis failed: %v", statusErr))
		}
		if status == AnalysisStatusInProgress {
			return nil, errorResult("Analysis in progress, please try again")
		}
		return nil, errorResult(fmt.Sprintf("Analysis wait failed: %v", err))
	}
	snap := s.Snapshot()
	if snap == nil {
		status, statusErr, _ := s.Status()
		if statusErr != nil {
			return nil, errorResult(fmt.Sprintf("Analysis failed: %v", statusErr))
		}
		return nil, errorResult(fmt.Sprintf("No snapshot available (status %s)", status))
	}
	return snap, nil
}

// FileDetail is the get_file response shape.
type FileDetail struct {
	Path        string                 `json:"path"`
	URI         string                 `json:"uri"`
	Kind        string                 `json:"kind"`
	ContentHash string                 `json:"content_hash,omitempty"`
	Symbols     []symbols.Record       `json:"symbols,omitempty"`
	Imports     []graph.DependencyEdge `json:"imports,omitempty"`
	Dependents  []string               `json:"dependents,omitempty"`
	EntryPoint  *FileEntryPoint        `json:"entry_point,omitempty"`
}

type FileEntryPoint struct {
	Category   string `json:"category"`
	Confidence string `json:"confidence"`
	RouteCount int    `json:"route_count,omitempty"`
}

func fileDetail(snap *graph.Snapshot, path string) (FileDetail, bool) {
	var record *graph.FileRecord
	for i := range snap.Files {
		if snap.Files[i].Path == path {
			record = &snap.Files[i]
			break
		}
	}
	if record == nil {
		return FileDetail{}, false
	}

	detail := FileDetail{
		Path:        record.Path,
		URI:         util.PathToURI(record.Path),
		Kind:        string(record.Kind),
		ContentHash: record.ContentHash,
	}
	for _, rec := range snap.Symbols {
		if rec.File == path {
			detail.Symbols = append(detail.Symbols, rec)
		}
	}
	for _, e := range snap.Edges {
		if e.Source == path {
			detail.Imports = append(detail.Imports, e)
		}
		if e.Target == path {
			detail.Dependents = append(detail.Dependents, e.Source)
		}
	}
	sort.Strings(detail.Dependents)
	for _, ep := range snap.EntryPoints {
		if ep.File == path {
			detail.EntryPoint = &FileEntryPoint{
				Category:   string(ep.Category),
				Confidence: string(ep.Confidence),
				RouteCount: ep.RouteCount,
			}
			break
		}
	}
	return detail, true
}
