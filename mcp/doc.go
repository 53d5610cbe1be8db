// Package mcp contains protocol data types and constants shared across
// transports and the dispatch engine. It mirrors the wire representation of
// the protocol while keeping the surface Go-friendly (exported structs with
// json tags, string constants for method names).
//
// The package is free of transport logic: stdio and the HTTP event gateway
// import these types but implement their own framing. Higher-level packages
// (mcpservice) construct descriptors using these concrete types and the engine
// hands results to the JSON-RPC codec for serialization.
//
// # Method Names
//
// JSON-RPC method names are enumerated as Method constants (e.g.
// ToolsListMethod). Using the constants avoids typographical mistakes.
//
// # Parameter Schemas
//
// ParameterSchema is deliberately small: an object type, a property map and a
// required list. Its zero value encodes as {} which is how a tool without
// parameters is advertised.
//
// Example (tool result construction):
//
//	res := &mcp.CallToolResult{
//	    Content: []mcp.ContentBlock{{Type: mcp.ContentTypeText, Text: `{"echo": "hi"}`}},
//	}
package mcp
