// Package protocol implements the MCP protocol engine: JSON-RPC envelope
// framing, method dispatch, the tool registry, and the fixed error taxonomy.
//
// The engine is transport-agnostic. Transport adapters decode raw bytes into
// a Request, call Engine.Handle with the connection's Session, and serialize
// whatever Response (or nothing) comes back. The engine never lets a failure
// escape to the transport: every failure inside a recognized method is
// converted into a well-formed error envelope at the dispatch boundary.
//
// Session state is per connection. Each transport connection owns a Session
// and threads it through every Handle call, so concurrent connections never
// observe each other's negotiated capabilities.
package protocol
