package protocol

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// ErrDuplicateTool indicates a tool name was registered twice. Duplicates are
// almost always a wiring mistake, so Register refuses them; use Replace when
// overwriting is intended.
var ErrDuplicateTool = errors.New("tool already registered")

// Handler executes a tool with the decoded arguments object.
//
// Handlers must return a JSON-serializable value or fail with a descriptive
// error. The engine serializes the return value into the tools/call result
// and converts a returned error into an internal-error envelope.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is a registered tool: its public descriptor plus the handler.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Handler     Handler
}

// Descriptor is the public view of a tool as serialized by tools/list.
// Handlers are never exposed here.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// Registry maps tool names to tools, preserving registration order.
//
// The registry is populated during startup wiring and is read-mostly
// afterwards; the mutex exists so a hot Replace from one connection never
// races a concurrent tools/list from another.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]*Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool, 8),
	}
}

// Register adds a tool, failing with ErrDuplicateTool if the name is taken.
// Input schemas are opaque structural metadata: no well-formedness check is
// performed here.
func (r *Registry) Register(t *Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
	}

	r.order = append(r.order, t.Name)
	r.tools[t.Name] = t

	return nil
}

// Replace stores the tool, silently overwriting any previous registration
// under the same name. The original registration position is kept so
// tools/list order stays stable across replacements.
func (r *Registry) Replace(t *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}

	r.tools[t.Name] = t
}

// Lookup returns the tool registered under name, or false if absent.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]

	return t, ok
}

// Descriptors returns the public fields of every tool in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, Descriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}

	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
