// Package gateway serves MCP requests delivered as HTTP-style events, such as
// the proxy events of a serverless function gateway, and over plain net/http.
//
// Three entry points share one dispatch path:
//
//	HandleEvent : typed events.APIGatewayProxyRequest
//	Invoke      : raw event payloads (implements lambda.Handler)
//	ServeHTTP   : net/http requests
//
// Event bodies may be JSON text, base64-encoded JSON text or an embedded
// object; a payload without a body is taken as the request itself.
//
// Example (serverless):
//
//	h := gateway.NewHandler(srv, gateway.WithLogger(logger))
//	lambda.Start(h)
//
// Example (HTTP):
//
//	http.ListenAndServe(":8080", gateway.NewHandler(srv))
package gateway
