package mcpservice

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ggoodman/mcp-framework-go/mcp"
)

// Category selects one of the three registry partitions.
type Category int

const (
	CategoryTool Category = iota + 1
	CategoryResource
	CategoryPrompt
)

func (c Category) String() string {
	switch c {
	case CategoryTool:
		return "tool"
	case CategoryResource:
		return "resource"
	case CategoryPrompt:
		return "prompt"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// partition is an insertion-ordered map. Overwriting a key keeps its original
// position so listings stay stable across re-registration.
type partition[D any] struct {
	order []string
	defs  map[string]D
}

func (p *partition[D]) put(key string, def D) (replaced bool) {
	if p.defs == nil {
		p.defs = make(map[string]D)
	}
	if _, replaced = p.defs[key]; !replaced {
		p.order = append(p.order, key)
	}
	p.defs[key] = def
	return replaced
}

func (p *partition[D]) get(key string) (D, bool) {
	d, ok := p.defs[key]
	return d, ok
}

func (p *partition[D]) values() []D {
	out := make([]D, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, p.defs[k])
	}
	return out
}

func (p *partition[D]) keys() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Registry holds the tool, resource and prompt definitions a server exposes.
//
// A Registry is normally populated once at startup, before any transport
// starts reading requests, and only read afterwards. All methods are
// nevertheless safe for concurrent use so that several transports can share
// one registry.
type Registry struct {
	mu        sync.RWMutex
	tools     partition[ToolDefinition]
	resources partition[ResourceDefinition]
	prompts   partition[PromptDefinition]

	log *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used to report overwritten definitions.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry constructs an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRegistry is the process-wide registry used by NewServer when no
// explicit registry is supplied, and by the package-level Register helpers.
var DefaultRegistry = NewRegistry()

// RegisterTool adds def to DefaultRegistry.
func RegisterTool(def ToolDefinition) { DefaultRegistry.RegisterTool(def) }

// RegisterResource adds def to DefaultRegistry.
func RegisterResource(def ResourceDefinition) { DefaultRegistry.RegisterResource(def) }

// RegisterPrompt adds def to DefaultRegistry.
func RegisterPrompt(def PromptDefinition) { DefaultRegistry.RegisterPrompt(def) }

func (r *Registry) logger() *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return slog.Default()
}

// RegisterTool inserts or replaces the tool named def.Name. The last
// registration for a name wins.
func (r *Registry) RegisterTool(def ToolDefinition) {
	r.mu.Lock()
	replaced := r.tools.put(def.Name, def)
	r.mu.Unlock()
	if replaced {
		r.logger().Warn("registry.overwrite", slog.String("category", CategoryTool.String()), slog.String("key", def.Name))
	}
}

// RegisterResource inserts or replaces the resource at def.URI.
func (r *Registry) RegisterResource(def ResourceDefinition) {
	r.mu.Lock()
	replaced := r.resources.put(def.URI, def)
	r.mu.Unlock()
	if replaced {
		r.logger().Warn("registry.overwrite", slog.String("category", CategoryResource.String()), slog.String("key", def.URI))
	}
}

// RegisterPrompt inserts or replaces the prompt named def.Name.
func (r *Registry) RegisterPrompt(def PromptDefinition) {
	r.mu.Lock()
	replaced := r.prompts.put(def.Name, def)
	r.mu.Unlock()
	if replaced {
		r.logger().Warn("registry.overwrite", slog.String("category", CategoryPrompt.String()), slog.String("key", def.Name))
	}
}

// Tool looks up a tool by name.
func (r *Registry) Tool(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools.get(name)
}

// Resource looks up a resource by URI.
func (r *Registry) Resource(uri string) (ResourceDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resources.get(uri)
}

// Prompt looks up a prompt by name.
func (r *Registry) Prompt(name string) (PromptDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.prompts.get(name)
}

// Lookup returns the definition stored under key in category c. The concrete
// type is ToolDefinition, ResourceDefinition or PromptDefinition.
func (r *Registry) Lookup(c Category, key string) (any, bool) {
	switch c {
	case CategoryTool:
		return r.Tool(key)
	case CategoryResource:
		return r.Resource(key)
	case CategoryPrompt:
		return r.Prompt(key)
	default:
		return nil, false
	}
}

// Keys returns the keys of category c in registration order.
func (r *Registry) Keys(c Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch c {
	case CategoryTool:
		return r.tools.keys()
	case CategoryResource:
		return r.resources.keys()
	case CategoryPrompt:
		return r.prompts.keys()
	default:
		return nil
	}
}

// Len returns the number of definitions in category c.
func (r *Registry) Len(c Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch c {
	case CategoryTool:
		return len(r.tools.order)
	case CategoryResource:
		return len(r.resources.order)
	case CategoryPrompt:
		return len(r.prompts.order)
	default:
		return 0
	}
}

// Tools returns the descriptors of all registered tools in registration order.
func (r *Registry) Tools() []mcp.Tool {
	r.mu.RLock()
	defs := r.tools.values()
	r.mu.RUnlock()
	out := make([]mcp.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Descriptor())
	}
	return out
}

// Resources returns the descriptors of all registered resources in registration order.
func (r *Registry) Resources() []mcp.Resource {
	r.mu.RLock()
	defs := r.resources.values()
	r.mu.RUnlock()
	out := make([]mcp.Resource, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Descriptor())
	}
	return out
}

// Prompts returns the descriptors of all registered prompts in registration order.
func (r *Registry) Prompts() []mcp.Prompt {
	r.mu.RLock()
	defs := r.prompts.values()
	r.mu.RUnlock()
	out := make([]mcp.Prompt, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Descriptor())
	}
	return out
}
