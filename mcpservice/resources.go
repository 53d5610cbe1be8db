package mcpservice

import (
	"context"
	"errors"

	"github.com/ggoodman/mcp-framework-go/mcp"
)

// ResourceHandler produces the current value of a resource. The value is
// JSON-encoded into the text of the resources/read result.
type ResourceHandler func(ctx context.Context) (any, error)

// ResourceDefinition pairs a resource URI and description with its handler.
type ResourceDefinition struct {
	URI         string
	Description string
	Handler     ResourceHandler
}

// NewResource constructs a ResourceDefinition.
func NewResource(uri, description string, fn ResourceHandler) ResourceDefinition {
	return ResourceDefinition{URI: uri, Description: description, Handler: fn}
}

// StaticResource constructs a resource that always yields v.
func StaticResource(uri, description string, v any) ResourceDefinition {
	return NewResource(uri, description, func(context.Context) (any, error) { return v, nil })
}

// Descriptor returns the resources/list entry for the resource.
func (d ResourceDefinition) Descriptor() mcp.Resource {
	return mcp.Resource{URI: d.URI, Description: d.Description}
}

// Read invokes the resource's handler.
func (d ResourceDefinition) Read(ctx context.Context) (any, error) {
	if d.Handler == nil {
		return nil, errors.New("resource has no handler")
	}
	return d.Handler(ctx)
}
