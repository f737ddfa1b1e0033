// Package think provides the "think" tool. The tool performs no retrieval and
// changes no state: it records the caller's thought in the session log and
// returns it unchanged.
package think

import (
	"context"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name is the identifier the tool is registered under.
const Name = "think"

// Description is shown to clients listing the server's tools.
const Description = "Use the tool to think about something. It will not obtain new information or change the database, but just append the thought to the log. Use it when complex reasoning or some cache memory is needed."

// LogMessage labels the log record emitted for every thought.
const LogMessage = "Thinking process"

// Input holds the arguments of a think call.
type Input struct {
	Thought string `json:"thought"`
}

// Schema returns the input schema of the tool. The SDK validates arguments
// against it before the handler runs.
func Schema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"thought": {
				Type:        "string",
				Description: "A thought to think about.",
			},
		},
		Required: []string{"thought"},
	}
}

// LoggerFunc returns the logger a single invocation writes its record to.
type LoggerFunc func(req *mcp.CallToolRequest) *slog.Logger

// SessionLogger sends records to the calling client as MCP log
// notifications. Records are dropped until the client sets a logging level.
func SessionLogger(req *mcp.CallToolRequest) *slog.Logger {
	if req == nil || req.Session == nil {
		return slog.New(slog.DiscardHandler)
	}

	return slog.New(mcp.NewLoggingHandler(req.Session, &mcp.LoggingHandlerOptions{
		LoggerName: Name,
	}))
}

// Tool is the think tool. The zero value logs through SessionLogger, so the
// "Thinking process" record reaches a client only after it has sent
// logging/setLevel; until then the SDK drops it.
type Tool struct {
	logger LoggerFunc
}

// New creates a Tool. A nil logger selects SessionLogger.
func New(logger LoggerFunc) *Tool {
	return &Tool{logger: logger}
}

// Definition returns the SDK tool metadata.
func (t *Tool) Definition() *mcp.Tool {
	return &mcp.Tool{
		Name:        Name,
		Description: Description,
		InputSchema: Schema(),
	}
}

// Handle logs the thought and echoes it back verbatim.
func (t *Tool) Handle(ctx context.Context, req *mcp.CallToolRequest, in Input) (*mcp.CallToolResult, any, error) {
	t.loggerFor(req).InfoContext(ctx, LogMessage, "thought", in.Thought)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: in.Thought}},
	}, nil, nil
}

// Register adds the tool to server.
func (t *Tool) Register(server *mcp.Server) {
	mcp.AddTool(server, t.Definition(), t.Handle)
}

func (t *Tool) loggerFor(req *mcp.CallToolRequest) *slog.Logger {
	if t.logger == nil {
		return SessionLogger(req)
	}

	return t.logger(req)
}
