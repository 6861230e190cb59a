package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/manikin/internal/core"
)

// IDFunc builds the identifier named by the part of a reference after the
// kind, e.g. "A1" in "account/A1".
type IDFunc func(name string) (core.ID, error)

// MessageFunc builds a message from scenario arguments.
type MessageFunc func(args Args) (core.Message, error)

// Registry resolves scenario references to identifiers and messages.
// Register everything before running scenarios; lookups are not
// synchronized with registration.
type Registry struct {
	ids      map[string]IDFunc
	messages map[string]MessageFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ids:      make(map[string]IDFunc),
		messages: make(map[string]MessageFunc),
	}
}

// RegisterID binds a reference kind. Panics if kind is already bound.
func (r *Registry) RegisterID(kind string, fn IDFunc) {
	if _, dup := r.ids[kind]; dup {
		panic(fmt.Sprintf("harness: identifier kind %q registered twice", kind))
	}
	r.ids[kind] = fn
}

// RegisterMessage binds a message name. Panics if name is already bound.
func (r *Registry) RegisterMessage(name string, fn MessageFunc) {
	if _, dup := r.messages[name]; dup {
		panic(fmt.Sprintf("harness: message %q registered twice", name))
	}
	r.messages[name] = fn
}

// ID resolves a "kind/name" reference.
func (r *Registry) ID(ref string) (core.ID, error) {
	kind, name, ok := strings.Cut(ref, "/")
	if !ok || kind == "" || name == "" {
		return nil, fmt.Errorf("identifier %q: want kind/name", ref)
	}
	fn, ok := r.ids[kind]
	if !ok {
		return nil, fmt.Errorf("identifier %q: unknown kind %q", ref, kind)
	}
	id, err := fn(name)
	if err != nil {
		return nil, fmt.Errorf("identifier %q: %w", ref, err)
	}
	return id, nil
}

// Message builds the named message from args.
func (r *Registry) Message(name string, args map[string]any) (core.Message, error) {
	fn, ok := r.messages[name]
	if !ok {
		return nil, fmt.Errorf("message %q: not registered", name)
	}
	m, err := fn(Args{reg: r, values: args})
	if err != nil {
		return nil, fmt.Errorf("message %q: %w", name, err)
	}
	return m, nil
}

// Messages lists the registered message names, sorted.
func (r *Registry) Messages() []string {
	names := make([]string, 0, len(r.messages))
	for name := range r.messages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Args are the arguments of one scenario send.
type Args struct {
	reg    *Registry
	values map[string]any
}

// Has reports whether the argument is present.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a Args) get(name string) (any, error) {
	v, ok := a.values[name]
	if !ok {
		return nil, fmt.Errorf("missing argument %q", name)
	}
	return v, nil
}

// String returns a string argument.
func (a Args) String(name string) (string, error) {
	v, err := a.get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q: want string, got %T", name, v)
	}
	return s, nil
}

// Int returns an integral argument.
func (a Args) Int(name string) (int, error) {
	v, err := a.get(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("argument %q: want integer, got %v", name, v)
}

// Float returns a numeric argument.
func (a Args) Float(name string) (float64, error) {
	v, err := a.get(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("argument %q: want number, got %T", name, v)
}

// ID resolves an identifier reference argument through the registry.
func (a Args) ID(name string) (core.ID, error) {
	ref, err := a.String(name)
	if err != nil {
		return nil, err
	}
	return a.reg.ID(ref)
}
