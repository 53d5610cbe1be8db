package mcp

// Basic types
// Role indicates the role of a message author.
type Role string

// RoleUser is the only role rendered prompts carry.
const RoleUser Role = "user"

// ContentTypeText is the only content block type the framework emits.
const ContentTypeText = "text"

// ProtocolVersion is the protocol version advertised in initialize results.
const ProtocolVersion = "1.0"

// Capabilities
// ServerCapabilities advertises server features. Every member is always
// present on the wire; the registry is fixed after startup so list-changed
// and subscription support are reported as false.
type ServerCapabilities struct {
	Tools     ToolsCapability     `json:"tools"`
	Resources ResourcesCapability `json:"resources"`
	Prompts   PromptsCapability   `json:"prompts"`
}

// ToolsCapability describes tool support.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ResourcesCapability describes resource support.
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe"`
	ListChanged bool `json:"listChanged"`
}

// PromptsCapability describes prompt support.
type PromptsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ImplementationInfo describes the implementation name and version.
type ImplementationInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Content types
// ContentBlock is a typed content part of a tool result or prompt message.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Tools
// Tool describes a callable tool and its parameter schema.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  ParameterSchema `json:"parameters"`
}

// ParameterSchema is a JSON-schema-like description of tool input. The zero
// value encodes as {} and describes a tool without parameters.
//
// Required uses omitzero rather than omitempty: a nil slice is dropped while an
// empty, non-nil slice encodes as [] (every parameter has a default).
type ParameterSchema struct {
	Type                 string                    `json:"type,omitzero"`
	Properties           map[string]SchemaProperty `json:"properties,omitzero"`
	Required             []string                  `json:"required,omitzero"`
	AdditionalProperties *bool                     `json:"additionalProperties,omitempty"`
}

// IsEmpty reports whether the schema declares nothing at all.
func (s ParameterSchema) IsEmpty() bool {
	return s.Type == "" && len(s.Properties) == 0 && s.Required == nil && s.AdditionalProperties == nil
}

// SchemaProperty is a simplified schema node used in parameter schemas.
type SchemaProperty struct {
	Type        string                    `json:"type,omitempty"`
	Description string                    `json:"description,omitzero"`
	Default     any                       `json:"default,omitempty"`
	Items       *SchemaProperty           `json:"items,omitempty"`
	Properties  map[string]SchemaProperty `json:"properties,omitempty"`
	Enum        []any                     `json:"enum,omitempty"`
}

// Resources
// Resource represents an addressable, read-only resource.
type Resource struct {
	URI         string `json:"uri"`
	Description string `json:"description"`
}

// ResourceContents is the value of a resource read.
type ResourceContents struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

// Prompts
// Prompt describes a named prompt the server can render.
type Prompt struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PromptMessage is a rendered prompt message.
type PromptMessage struct {
	Role    Role         `json:"role"`
	Content ContentBlock `json:"content"`
}
