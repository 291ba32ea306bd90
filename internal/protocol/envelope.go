package protocol

import (
	"bytes"
	"encoding/json"
)

// Version is the MCP protocol revision this server speaks. It is echoed in
// every initialize result and must match what interoperating clients expect.
const Version = "2024-11-05"

// jsonRPCVersion tags every envelope on the wire.
const jsonRPCVersion = "2.0"

// Standard JSON-RPC 2.0 error codes. These are a compatibility surface and
// must be preserved bit-exact.
const (
	// CodeParse indicates the transport could not decode the payload into an
	// envelope at all. Only transport adapters produce it, never the engine.
	CodeParse = -32700

	// CodeMethodNotFound indicates the method is not one the engine routes.
	CodeMethodNotFound = -32601

	// CodeInvalidParams indicates a tools/call named a tool that is not in
	// the registry.
	CodeInvalidParams = -32602

	// CodeInternal is the catch-all for failures inside a recognized method,
	// including tool handler failures.
	CodeInternal = -32603
)

// Request is an incoming JSON-RPC request envelope.
//
// ID is the raw correlation id (string, number, or null). A nil ID means the
// field was absent and the message is a one-way notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no correlation id and
// therefore expects no response envelope.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || bytes.Equal(bytes.TrimSpace(r.ID), []byte("null"))
}

// Response is an outgoing JSON-RPC response envelope. Exactly one of Result
// and Error is set. ID is never omitted: a nil RawMessage serializes as null,
// which is the required shape when the request id was unrecoverable.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface so protocol errors can flow through
// ordinary Go error handling inside transports.
func (e *Error) Error() string {
	return e.Message
}

// NewResponse creates a success envelope correlated to the given id.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error envelope correlated to the given id.
// Pass a nil id when the request id could not be extracted.
func NewErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}
