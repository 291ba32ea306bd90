package supabasemcp

import (
	"github.com/mamenendez92/mcp-supabase-native/internal/protocol"
	"github.com/mamenendez92/mcp-supabase-native/internal/supabase"
)

// Re-export protocol types from the internal package.

// ProtocolError is the JSON-RPC error object carried in error envelopes.
type ProtocolError = protocol.Error

// Fixed JSON-RPC error codes the server produces. These are a compatibility
// surface shared with every interoperating client.
const (
	CodeParse          = protocol.CodeParse
	CodeMethodNotFound = protocol.CodeMethodNotFound
	CodeInvalidParams  = protocol.CodeInvalidParams
	CodeInternal       = protocol.CodeInternal
)

// Re-export sentinel errors from the internal packages.
var (
	// ErrDuplicateTool indicates a tool name was registered twice.
	ErrDuplicateTool = protocol.ErrDuplicateTool

	// ErrUnknownTable indicates a tool referenced a table the schema does
	// not contain.
	ErrUnknownTable = supabase.ErrUnknownTable

	// ErrEmptyFilter indicates an update or delete without a row filter.
	ErrEmptyFilter = supabase.ErrEmptyFilter
)
