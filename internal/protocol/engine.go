package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// ServerInfo identifies this server in the initialize result.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Session holds the state negotiated over one connection's lifecycle.
//
// Each transport connection creates its own Session and passes it to every
// Handle call, so concurrent initialize calls from different connections
// never race. A Session is written only by the connection goroutine that
// owns it.
type Session struct {
	// Capabilities is the last capability object received via initialize,
	// nil before the handshake. Stored for negotiation-dependent logic;
	// never echoed back to the client.
	Capabilities map[string]any
}

// Engine routes request envelopes to method handlers and frames the results.
//
// A single Engine is shared by every transport connection. It keeps no
// per-session state of its own; everything session-scoped lives in the
// Session supplied by the caller.
type Engine struct {
	log      *slog.Logger
	registry *Registry
	info     ServerInfo

	listenerMu    sync.Mutex
	onInitialized []func(*Session)
}

// NewEngine creates an engine serving tools from the given registry.
func NewEngine(log *slog.Logger, registry *Registry, info ServerInfo) *Engine {
	return &Engine{
		log:      log.With("component", "engine"),
		registry: registry,
		info:     info,
	}
}

// OnInitialized registers fn to run each time a notifications/initialized
// message is processed. Listeners run synchronously on the dispatching
// goroutine, exactly once per notification.
func (e *Engine) OnInitialized(fn func(*Session)) {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()

	e.onInitialized = append(e.onInitialized, fn)
}

// Handle is the engine's single entry point. It routes the request by method
// name and returns the correlated response envelope, or nil when the message
// is a notification that must not be answered.
//
// Handle never panics and never returns a malformed envelope: any failure
// while handling a recognized method is converted into an internal-error
// response echoing the request id.
func (e *Engine) Handle(ctx context.Context, sess *Session, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			var id json.RawMessage
			if req != nil {
				id = req.ID
			}

			e.log.Error("dispatch panic", "method", methodName(req), "panic", r)
			resp = NewErrorResponse(id, CodeInternal, fmt.Sprintf("internal error: %v", r))
		}
	}()

	e.log.Debug("dispatching request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return e.handleInitialize(sess, req)
	case "tools/list":
		return e.handleToolsList(req)
	case "tools/call":
		return e.handleToolsCall(ctx, req)
	case "notifications/initialized":
		e.handleInitialized(sess)
		return nil
	default:
		return NewErrorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

// handleInitialize stores the client's capabilities on the session and
// returns the fixed server identity and capability set. The declared
// capabilities never vary with the input.
func (e *Engine) handleInitialize(sess *Session, req *Request) *Response {
	var params struct {
		Capabilities map[string]any `json:"capabilities"`
	}

	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, CodeInternal, fmt.Sprintf("decoding initialize params: %v", err))
		}
	}

	sess.Capabilities = params.Capabilities

	return NewResponse(req.ID, map[string]any{
		"protocolVersion": Version,
		"capabilities": map[string]any{
			"tools":     map[string]any{"listChanged": false},
			"resources": map[string]any{"subscribe": false, "listChanged": false},
			"prompts":   map[string]any{"listChanged": false},
		},
		"serverInfo": e.info,
	})
}

func (e *Engine) handleToolsList(req *Request) *Response {
	return NewResponse(req.ID, map[string]any{
		"tools": e.registry.Descriptors(),
	})
}

// handleToolsCall looks up the named tool and invokes its handler. An
// unknown tool name is an invalid-params error; a handler failure is an
// internal error carrying the handler's own message.
func (e *Engine) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}

	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, CodeInternal, fmt.Sprintf("decoding tools/call params: %v", err))
		}
	}

	tool, ok := e.registry.Lookup(params.Name)
	if !ok {
		return NewErrorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("unknown tool: %s", params.Name))
	}

	result, err := tool.Handler(ctx, params.Arguments)
	if err != nil {
		e.log.Debug("tool handler failed", "tool", params.Name, "error", err)

		return NewErrorResponse(req.ID, CodeInternal, fmt.Sprintf("tool %s failed: %v", params.Name, err))
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return NewErrorResponse(req.ID, CodeInternal, fmt.Sprintf("serializing result of tool %s: %v", params.Name, err))
	}

	return NewResponse(req.ID, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": string(text)},
		},
	})
}

// handleInitialized fires the initialized listeners. The notification itself
// has no response.
func (e *Engine) handleInitialized(sess *Session) {
	e.listenerMu.Lock()
	listeners := make([]func(*Session), len(e.onInitialized))
	copy(listeners, e.onInitialized)
	e.listenerMu.Unlock()

	e.log.Debug("handshake complete", "listeners", len(listeners))

	for _, fn := range listeners {
		fn(sess)
	}
}

func methodName(req *Request) string {
	if req == nil {
		return ""
	}

	return req.Method
}
