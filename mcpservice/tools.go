package mcpservice

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/ggoodman/mcp-framework-go/mcp"
)

// ToolHandler handles a tools/call invocation. args is the raw "arguments"
// member of the request and may be empty. The returned value is JSON-encoded
// into the text of the result's single content block.
//
// Handlers built by NewTool and NewFuncTool return *ArgumentError when the
// arguments do not bind to the declared parameters.
type ToolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// ToolFunc is the handler shape used with NewFuncTool.
type ToolFunc func(ctx context.Context, args Arguments) (any, error)

// ToolDefinition pairs a tool's listing metadata with its handler.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  mcp.ParameterSchema
	Handler     ToolHandler
}

// Descriptor returns the tools/list entry for the tool.
func (d ToolDefinition) Descriptor() mcp.Tool {
	return mcp.Tool{Name: d.Name, Description: d.Description, Parameters: d.Parameters}
}

// Call invokes the tool's handler.
func (d ToolDefinition) Call(ctx context.Context, args json.RawMessage) (any, error) {
	if d.Handler == nil {
		return nil, errors.New("tool has no handler")
	}
	return d.Handler(ctx, args)
}

// ToolOption configures NewTool and NewFuncTool.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description  string
	parameters   *mcp.ParameterSchema
	allowUnknown bool // default false (strict)
}

// WithToolDescription sets the tool description used in listings.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) { c.description = desc }
}

// WithParameters sets an explicit parameter schema. It is advertised as-is in
// place of the inferred one; binding still follows the declared parameters.
func WithParameters(schema mcp.ParameterSchema) ToolOption {
	return func(c *toolConfig) { c.parameters = &schema }
}

// WithToolAllowAdditionalArguments controls whether arguments that match no
// declared parameter are accepted. When false (default) they are rejected.
func WithToolAllowAdditionalArguments(allow bool) ToolOption {
	return func(c *toolConfig) { c.allowUnknown = allow }
}

func newToolConfig(opts []ToolOption) toolConfig {
	cfg := toolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c toolConfig) schema(params []Param) mcp.ParameterSchema {
	if c.parameters != nil {
		return *c.parameters
	}
	return InferParameters(params)
}

// NewFuncTool constructs a tool from an explicit parameter list. Arguments are
// validated against params, defaults are applied, and fn receives the bound
// result.
//
//	mcpservice.NewFuncTool("add",
//	    []mcpservice.Param{mcpservice.P("a", "int"), mcpservice.P("b", "int", mcpservice.WithDefault(1))},
//	    func(ctx context.Context, args mcpservice.Arguments) (any, error) {
//	        return args.Int("a") + args.Int("b"), nil
//	    },
//	    mcpservice.WithToolDescription("Add two integers"),
//	)
func NewFuncTool(name string, params []Param, fn ToolFunc, opts ...ToolOption) ToolDefinition {
	cfg := newToolConfig(opts)
	declared := slices.Clone(params)
	return ToolDefinition{
		Name:        name,
		Description: cfg.description,
		Parameters:  cfg.schema(declared),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args, err := bindArguments(declared, raw, cfg.allowUnknown)
			if err != nil {
				return nil, err
			}
			return fn(ctx, args)
		},
	}
}

// NewTool constructs a tool from a typed argument struct A. The parameter
// list is reflected from A's exported fields: json tags name the parameters,
// fields without omitempty are required, and `jsonschema:"default=..."` tags
// supply defaults. Bound arguments are decoded into a fresh A for every call.
func NewTool[A any](name string, fn func(ctx context.Context, args A) (any, error), opts ...ToolOption) ToolDefinition {
	cfg := newToolConfig(opts)
	params, isStruct := reflectParams[A]()
	return ToolDefinition{
		Name:        name,
		Description: cfg.description,
		Parameters:  cfg.schema(params),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a A
			if isStruct {
				args, err := bindArguments(params, raw, cfg.allowUnknown)
				if err != nil {
					return nil, err
				}
				b, err := json.Marshal(args)
				if err != nil {
					return nil, &ArgumentError{Reason: err.Error()}
				}
				raw = b
			}
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &a); err != nil {
					return nil, &ArgumentError{Reason: "invalid arguments: " + err.Error()}
				}
			}
			return fn(ctx, a)
		},
	}
}

