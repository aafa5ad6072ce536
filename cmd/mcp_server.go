package cmd

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/version"
	"gopkg.in/yaml.v3"
)

// mcpServer exposes the command pipeline as MCP tools.
type mcpServer struct {
	app *app
	mcp *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer creates an MCP server with all eva tools.
func newMCPServer(a *app) *mcpServer {
	s := &mcpServer{
		app: a,
		mcp: mcpserver.NewMCPServer("eva", version.Version),
	}
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		logger.Info("mcp server listening", "port", cfg.Port)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("run_command",
			mcp.WithDescription("Execute a natural-language desktop command, e.g. 'open chrome', 'set volume to 40', 'search for golang on youtube'. Returns the outcome, category and confidence."),
			mcp.WithString("command", mcp.Required(), mcp.Description("The command, as it would be spoken")),
		),
		s.handleRun,
	)

	s.mcp.AddTool(
		mcp.NewTool("plan_command",
			mcp.WithDescription("Show how a command would be classified and which steps it would run, without executing anything"),
			mcp.WithString("command", mcp.Required(), mcp.Description("The command to plan")),
		),
		s.handlePlan,
	)

	s.mcp.AddTool(
		mcp.NewTool("classify_command",
			mcp.WithDescription("Classify a command into an intent category with a confidence"),
			mcp.WithString("command", mcp.Required(), mcp.Description("The command to classify")),
		),
		s.handleClassify,
	)

	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the screen as a PNG image. Optionally detect and annotate the visible UI elements."),
			mcp.WithString("region", mcp.Description("Capture only x,y,width,height")),
			mcp.WithBoolean("detect", mcp.Description("List UI elements found by the vision oracle")),
			mcp.WithBoolean("annotate", mcp.Description("Draw the detected elements on the image")),
		),
		s.handleScreenshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("history",
			mcp.WithDescription("List recently executed commands, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum number of entries (default 20)")),
		),
		s.handleHistory,
	)
}

// toText serializes a tool result to YAML for the MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func commandParam(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	command := stringParam(request.GetArguments(), "command", "")
	if command == "" {
		return "", mcp.NewToolResultError("command parameter is required")
	}
	return command, nil
}

func (s *mcpServer) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, errResult := commandParam(request)
	if errResult != nil {
		return errResult, nil
	}
	result := runResult(s.app.pipeline.Execute(ctx, command))
	if !result.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *mcpServer) handlePlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, errResult := commandParam(request)
	if errResult != nil {
		return errResult, nil
	}
	preview, err := s.app.pipeline.Plan(ctx, command)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(preview)), nil
}

func (s *mcpServer) handleClassify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, errResult := commandParam(request)
	if errResult != nil {
		return errResult, nil
	}
	preview, err := s.app.pipeline.Plan(ctx, command)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(preview.Classification)), nil
}

func (s *mcpServer) handleScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	opts := shotOptions{
		Detect:   boolParam(params, "detect", false),
		Annotate: boolParam(params, "annotate", false),
	}
	if region := stringParam(params, "region", ""); region != "" {
		b, err := platform.ParseBBox(region)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Region = b
	}

	data, result, err := takeScreenshot(ctx, s.app.provider, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content := []mcp.Content{
		mcp.ImageContent{
			Type:     "image",
			Data:     base64.StdEncoding.EncodeToString(data),
			MIMEType: "image/png",
		},
	}
	if len(result.Elements) > 0 {
		content = append(content, mcp.TextContent{Type: "text", Text: toText(result.Elements)})
	}
	return &mcp.CallToolResult{Content: content}, nil
}

func (s *mcpServer) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.app.journal == nil {
		return mcp.NewToolResultError("command journal is not available"), nil
	}
	entries, err := s.app.journal.Recent(ctx, intParam(request.GetArguments(), "limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(entries)), nil
}
