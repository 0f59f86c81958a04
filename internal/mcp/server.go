// Package mcp exposes graph extraction and queries to MCP clients over
// stdio.
package mcp

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jcdickinson/crategraph/internal/api"
	"github.com/jcdickinson/crategraph/internal/config"
	"github.com/jcdickinson/crategraph/internal/db"
	"github.com/jcdickinson/crategraph/internal/rustdoc"
)

//go:embed instructions.md
var instructions string

type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	db        *db.DB
}

func NewServer(cfg *config.Config) (*Server, error) {
	database, err := db.New(config.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{cfg: cfg, db: database}

	mcpServer := server.NewMCPServer(
		"crategraph",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s, nil
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("extract_api",
			mcp.WithDescription("Build the API graph for a local Rust crate by running cargo-doc against its manifest. Stores the graph for later list_paths queries and returns a summary."),
			mcp.WithString("manifest_path",
				mcp.Description("Path to the crate's Cargo.toml"),
				mcp.Required(),
			),
			mcp.WithBoolean("deps",
				mcp.Description("Document dependencies as well (slower, catches dependency types leaking into the API)"),
			),
		),
		s.handleExtractAPI,
	)

	mcpServer.AddTool(
		mcp.NewTool("fetch_api",
			mcp.WithDescription("Build the API graph for a published crate from its docs.rs rustdoc JSON. Stores the graph for later list_paths queries and returns a summary. Version defaults to \"latest\"."),
			mcp.WithString("crate",
				mcp.Description("Crate name (e.g., \"serde\")"),
				mcp.Required(),
			),
			mcp.WithString("version",
				mcp.Description("Version (default: \"latest\")"),
			),
		),
		s.handleFetchAPI,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_paths",
			mcp.WithDescription("List the namespace paths of a stored API graph. Paths marked with an item handle carry a concrete definition; the rest are pure namespace nodes or aliases."),
			mcp.WithString("package",
				mcp.Description("Package whose graph to query"),
				mcp.Required(),
			),
			mcp.WithString("kind",
				mcp.Description("Optional path kind filter (module, struct, function, import, ...)"),
			),
		),
		s.handleListPaths,
	)
}

func (s *Server) handleExtractAPI(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	manifestPath, _ := args["manifest_path"].(string)
	if manifestPath == "" {
		return mcp.NewToolResultError("missing required parameter: manifest_path"), nil
	}

	pkg, err := rustdoc.PackageName(manifestPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dumper := rustdoc.Dumper{
		Deps:      s.cfg.Rustdoc.Deps,
		TargetDir: string(s.cfg.Rustdoc.TargetDir),
	}
	if deps, ok := args["deps"].(bool); ok {
		dumper.Deps = deps
	}

	crate, err := dumper.Load(ctx, manifestPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("extracting %s: %v", pkg, err)), nil
	}

	return s.resolveAndStore(pkg, crate)
}

func (s *Server) handleFetchAPI(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["crate"].(string)
	if name == "" {
		return mcp.NewToolResultError("missing required parameter: crate"), nil
	}
	version, _ := args["version"].(string)
	if version == "" {
		version = "latest"
	}

	var crate *rustdoc.Crate
	var err error
	if rustdoc.HasCache(name, version) {
		crate, err = rustdoc.LoadCache(name, version)
	} else {
		var data []byte
		data, err = rustdoc.Fetch(ctx, name, version, s.cfg.Fetch.UserAgent)
		if err == nil {
			rustdoc.SaveCache(data, name, version)
			crate, err = rustdoc.Decode(data)
		}
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching %s@%s: %v", name, version, err)), nil
	}

	return s.resolveAndStore(name, crate)
}

func (s *Server) resolveAndStore(pkg string, crate *rustdoc.Crate) (*mcp.CallToolResult, error) {
	a, err := api.Resolve(crate)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolving %s: %v", pkg, err)), nil
	}

	if err := s.db.SaveAPI(pkg, a); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("storing graph for %s: %v", pkg, err)), nil
	}

	summary := map[string]any{
		"package": pkg,
		"paths":   len(a.Paths),
		"items":   len(a.Items),
		"crates":  len(a.Crates),
		"root":    a.Path(a.Root).Name,
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleListPaths(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	pkg, _ := args["package"].(string)
	if pkg == "" {
		return mcp.NewToolResultError("missing required parameter: package"), nil
	}
	kind, _ := args["kind"].(string)

	paths, err := s.db.ListPaths(pkg, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return mcp.NewToolResultError(fmt.Sprintf("no stored graph for %s (extract or fetch it first)", pkg)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing paths: %v", err)), nil
	}

	out, _ := json.MarshalIndent(paths, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Close() error {
	return s.db.Close()
}
