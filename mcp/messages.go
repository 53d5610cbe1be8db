package mcp

import "encoding/json"

// Method is an MCP method identifier used in JSON-RPC messages.
type Method string

// MCP method names and notifications.
const (
	// Initialization
	InitializeMethod              Method = "initialize"
	InitializedNotificationMethod Method = "notifications/initialized"

	// Tools
	ToolsListMethod Method = "tools/list"
	ToolsCallMethod Method = "tools/call"

	// Resources
	ResourcesListMethod Method = "resources/list"
	ResourcesReadMethod Method = "resources/read"

	// Prompts
	PromptsListMethod Method = "prompts/list"
	PromptsGetMethod  Method = "prompts/get"

	// General
	PingMethod Method = "ping"
)

// InitializeResult returns capabilities and server info.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ImplementationInfo `json:"serverInfo"`
}

// EmptyResult is returned by methods that only acknowledge.
type EmptyResult struct{}

// Tools
// ListToolsResult returns the available tools.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolRequestReceived is the tools/call params object as received. The
// arguments stay raw until they are bound against the tool's parameters.
type CallToolRequestReceived struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult wraps a tool's JSON-encoded return value.
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
}

// Resources
// ListResourcesResult returns the available resources.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceRequest is the resources/read params object.
type ReadResourceRequest struct {
	URI string `json:"uri"`
}

// ReadResourceResult wraps a resource's JSON-encoded value.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// Prompts
// ListPromptsResult returns the available prompts.
type ListPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
}

// GetPromptRequestReceived is the prompts/get params object as received.
// Context is the canonical member; Arguments is accepted from clients that
// follow the argument naming of tools/call.
type GetPromptRequestReceived struct {
	Name      string          `json:"name"`
	Context   json.RawMessage `json:"context,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// GetPromptResult carries the rendered prompt both as a plain description and
// as a single user message.
type GetPromptResult struct {
	Description string          `json:"description"`
	Messages    []PromptMessage `json:"messages"`
}
