package mcpservice

import (
	"context"
	"errors"

	"github.com/ggoodman/mcp-framework-go/mcp"
)

// PromptHandler renders a prompt from its context object. pctx is never nil;
// a request without a context yields an empty map.
type PromptHandler func(ctx context.Context, pctx map[string]any) (string, error)

// PromptDefinition pairs a prompt name and description with its handler.
type PromptDefinition struct {
	Name        string
	Description string
	Handler     PromptHandler
}

// NewPrompt constructs a PromptDefinition.
func NewPrompt(name, description string, fn PromptHandler) PromptDefinition {
	return PromptDefinition{Name: name, Description: description, Handler: fn}
}

// Descriptor returns the prompts/list entry for the prompt.
func (d PromptDefinition) Descriptor() mcp.Prompt {
	return mcp.Prompt{Name: d.Name, Description: d.Description}
}

// Render invokes the prompt's handler.
func (d PromptDefinition) Render(ctx context.Context, pctx map[string]any) (string, error) {
	if d.Handler == nil {
		return "", errors.New("prompt has no handler")
	}
	if pctx == nil {
		pctx = map[string]any{}
	}
	return d.Handler(ctx, pctx)
}
