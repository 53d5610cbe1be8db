// Package stdio implements a single-connection MCP transport over
// stdin/stdout. It is intended for embedding servers as subprocesses and for
// local development.
//
// Characteristics
//
//	Connection model : 1 process <-> 1 client
//	Framing          : one JSON-RPC object per line, any length
//	Ordering         : one request fully handled before the next is read
//	Diagnostics      : logger only, never the output stream
//
// Blank lines are ignored. Lines that fail to decode are logged and skipped;
// when the line still carried an id, the client receives the decode error.
// Notifications are dispatched but never answered.
//
// Example:
//
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "my-stdio-server", Version: "0.1.0"}),
//	)
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	h := stdio.NewHandler(srv, stdio.WithLogger(logger))
//	if err := h.Serve(context.Background()); err != nil { log.Fatal(err) }
package stdio
