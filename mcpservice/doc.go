// Package mcpservice holds the registration side of an MCP server: a registry
// of tools, resources and prompts, the parameter schemas advertised for tools,
// and the argument binding that turns a tools/call arguments object into
// validated handler input.
//
// Definitions are registered once at startup, typically from an init function
// or from main before a transport starts serving:
//
//	type EchoArgs struct {
//	    Text string `json:"text"`
//	}
//
//	reg := mcpservice.NewRegistry()
//	reg.RegisterTool(mcpservice.NewTool("echo",
//	    func(ctx context.Context, a EchoArgs) (any, error) {
//	        return map[string]any{"echo": a.Text}, nil
//	    },
//	    mcpservice.WithToolDescription("Echo the text back"),
//	))
//	reg.RegisterResource(mcpservice.StaticResource("config://settings", "Server settings",
//	    map[string]any{"debug": false}))
//	reg.RegisterPrompt(mcpservice.NewPrompt("greet", "Greeting prompt",
//	    func(ctx context.Context, pctx map[string]any) (string, error) {
//	        return fmt.Sprintf("Say hello to %v", pctx["name"]), nil
//	    }))
//
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "example", Version: "1.0.0"}),
//	    mcpservice.WithRegistry(reg),
//	)
//
// Tools without a typed argument struct declare their parameters explicitly
// with P and receive an Arguments map:
//
//	mcpservice.NewFuncTool("add",
//	    []mcpservice.Param{mcpservice.P("a", "int"), mcpservice.P("b", "int", mcpservice.WithDefault(5))},
//	    func(ctx context.Context, args mcpservice.Arguments) (any, error) {
//	        return args.Int("a") + args.Int("b"), nil
//	    })
//
// The advertised schema for the add tool above is
//
//	{"type":"object","properties":{"a":{"type":"integer"},"b":{"type":"integer"}},"required":["a"]}
package mcpservice
