package react

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// ParamKind enumerates the scalar kinds a tool parameter may take.
type ParamKind string

const (
	KindString ParamKind = "string"
	KindNumber ParamKind = "number"
	KindBool   ParamKind = "bool"
)

// Param declares one named tool parameter.
type Param struct {
	Name     string    `json:"name"`
	Kind     ParamKind `json:"kind"`
	Required bool      `json:"required"`
}

// ToolDescriptor declares a tool's name, purpose, and parameters. The
// descriptor is supplied together with its callable at registration time, so
// the schema the model sees can never drift from the function behind it.
type ToolDescriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params,omitempty"`
}

// Args carries one tool call's arguments after kind validation. Values are
// string, float64, or bool according to the declared parameter kinds;
// undeclared arguments pass through as strings.
type Args map[string]any

// String returns the named string argument, or fallback when absent or of
// another kind.
func (a Args) String(name, fallback string) string {
	if v, ok := a[name].(string); ok {
		return v
	}
	return fallback
}

// Number returns the named numeric argument, or fallback.
func (a Args) Number(name string, fallback float64) float64 {
	if v, ok := a[name].(float64); ok {
		return v
	}
	return fallback
}

// Bool returns the named boolean argument, or fallback.
func (a Args) Bool(name string, fallback bool) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return fallback
}

// ToolFunc is the callable contract: named scalar arguments in, plain text
// out, or a descriptive error.
type ToolFunc func(ctx context.Context, args Args) (string, error)

type registeredTool struct {
	descriptor ToolDescriptor
	fn         ToolFunc
}

// Registry maps tool names to callables and their schemas. Reads are safe
// for concurrent use by any number of runs; registration after startup is
// guarded by a single writer lock.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool. It fails with *DuplicateToolError when the name is
// already taken, leaving the registry unchanged.
func (r *Registry) Register(descriptor ToolDescriptor, fn ToolFunc) error {
	if descriptor.Name == "" {
		return ErrEmptyToolName
	}
	if fn == nil {
		return fmt.Errorf("registering %q: %w", descriptor.Name, ErrNilTool)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[descriptor.Name]; exists {
		return &DuplicateToolError{Name: descriptor.Name}
	}
	r.tools[descriptor.Name] = registeredTool{descriptor: descriptor, fn: fn}
	r.order = append(r.order, descriptor.Name)
	return nil
}

// Schema returns all registered descriptors in registration order.
func (r *Registry) Schema() []ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].descriptor)
	}
	return out
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Invoke looks up and executes a tool by name with raw wire arguments.
// Every failure mode is a typed error, never a panic: unknown names return
// *ToolNotFoundError, bad arguments *InvalidArgumentsError, and a callable
// that errors or panics *ToolExecutionError.
func (r *Registry) Invoke(ctx context.Context, name string, arguments map[string]string) (string, error) {
	r.mu.RLock()
	entry, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", &ToolNotFoundError{Name: name, Available: r.Names()}
	}

	args, err := coerceArgs(entry.descriptor, arguments)
	if err != nil {
		return "", err
	}
	return safeCall(ctx, name, entry.fn, args)
}

// coerceArgs validates raw wire arguments against the descriptor and
// converts them to their declared kinds. Wire values are always quoted
// strings; a value that does not parse as its declared kind is invalid.
func coerceArgs(d ToolDescriptor, raw map[string]string) (Args, error) {
	declared := make(map[string]Param, len(d.Params))
	for _, p := range d.Params {
		declared[p.Name] = p
		if _, ok := raw[p.Name]; !ok && p.Required {
			return nil, &InvalidArgumentsError{
				Tool:   d.Name,
				Reason: fmt.Sprintf("missing required parameter %q", p.Name),
			}
		}
	}

	args := make(Args, len(raw))
	for name, value := range raw {
		p, ok := declared[name]
		if !ok {
			// Undeclared arguments pass through as text; tools read what
			// they need.
			args[name] = value
			continue
		}
		switch p.Kind {
		case KindNumber:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &InvalidArgumentsError{
					Tool:   d.Name,
					Reason: fmt.Sprintf("parameter %q must be a number, got %q", name, value),
				}
			}
			args[name] = n
		case KindBool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, &InvalidArgumentsError{
					Tool:   d.Name,
					Reason: fmt.Sprintf("parameter %q must be a boolean, got %q", name, value),
				}
			}
			args[name] = b
		default:
			args[name] = value
		}
	}
	return args, nil
}

// safeCall runs the callable, converting returned errors and panics into
// *ToolExecutionError.
func safeCall(ctx context.Context, name string, fn ToolFunc, args Args) (result string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = ""
			err = &ToolExecutionError{Tool: name, Cause: fmt.Errorf("panic: %v", rec)}
		}
	}()

	out, callErr := fn(ctx, args)
	if callErr != nil {
		return "", &ToolExecutionError{Tool: name, Cause: callErr}
	}
	return out, nil
}
