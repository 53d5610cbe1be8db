package mcpservice

import "github.com/ggoodman/mcp-framework-go/mcp"

// Default server identity reported by initialize.
const (
	DefaultServerName    = "mcp-server"
	DefaultServerVersion = "1.0.0"
)

// ServerOption configures a Server.
type ServerOption func(*Server)

// Server is the process-level server configuration the engine dispatches
// against: the identity reported by initialize and the registry holding the
// tools, resources and prompts.
type Server struct {
	info     mcp.ImplementationInfo
	registry *Registry
}

// NewServer builds a Server using functional options. Without WithRegistry
// the server dispatches against DefaultRegistry.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		info: mcp.ImplementationInfo{Name: DefaultServerName, Version: DefaultServerVersion},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = DefaultRegistry
	}
	return s
}

// WithServerInfo sets the server identity. Empty fields keep their defaults.
func WithServerInfo(info mcp.ImplementationInfo) ServerOption {
	return func(s *Server) {
		if info.Name != "" {
			s.info.Name = info.Name
		}
		if info.Version != "" {
			s.info.Version = info.Version
		}
	}
}

// WithRegistry sets the registry the server dispatches against.
func WithRegistry(r *Registry) ServerOption {
	return func(s *Server) { s.registry = r }
}

// Info returns the server identity.
func (s *Server) Info() mcp.ImplementationInfo { return s.info }

// Registry returns the registry the server dispatches against.
func (s *Server) Registry() *Registry { return s.registry }

// InitializeResult returns the static initialize response.
func (s *Server) InitializeResult() *mcp.InitializeResult {
	return &mcp.InitializeResult{
		ProtocolVersion: mcp.ProtocolVersion,
		ServerInfo:      s.info,
	}
}
