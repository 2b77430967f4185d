package gamekit

import "fmt"

// Modules is a registry of named game modules. A module is any value; a
// factory registered with Register is run the first time the module is
// fetched.
type Modules struct {
	core      *Core
	values    map[string]any
	pending   map[string]*Promise
	factories map[string]func() any
}

// NewModules returns an empty registry. Module promises log through c.
func NewModules(c *Core) *Modules {
	return &Modules{
		core:      c,
		values:    make(map[string]any),
		pending:   make(map[string]*Promise),
		factories: make(map[string]func() any),
	}
}

// Define stores a module. A func() any is called and its result stored. A
// result that is a *Promise marks the module pending: when it resolves, its
// first value replaces the module; when it rejects, the module is dropped.
func (m *Modules) Define(name string, value any) {
	if fn, ok := value.(func() any); ok {
		value = fn()
	}
	p, ok := value.(*Promise)
	if !ok {
		delete(m.pending, name)
		m.values[name] = value
		return
	}
	m.pending[name] = p
	p.Then(func(values ...any) any {
		if m.pending[name] != p {
			return nil
		}
		delete(m.pending, name)
		if len(values) > 0 {
			m.values[name] = values[0]
		} else {
			m.values[name] = nil
		}
		return nil
	}, func(values ...any) any {
		if m.pending[name] == p {
			delete(m.pending, name)
		}
		if m.core != nil {
			m.core.log.Warn("module failed", "name", name, "values", values)
		}
		return nil
	})
}

// Register sets the factory run when name is first fetched and not yet
// defined.
func (m *Modules) Register(name string, factory func() any) {
	m.factories[name] = factory
}

// Get returns a defined module. Pending modules are not returned.
func (m *Modules) Get(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Fetch resolves once every named module is defined. Registered factories
// run for modules not yet defined; names with neither a definition nor a
// factory reject with ErrUnknownModule.
func (m *Modules) Fetch(names ...string) *Promise {
	var wait []*Promise
	for _, name := range names {
		if _, ok := m.values[name]; ok {
			continue
		}
		if p, ok := m.pending[name]; ok {
			wait = append(wait, p)
			continue
		}
		factory, ok := m.factories[name]
		if !ok {
			return Rejected(fmt.Errorf("module %q: %w", name, ErrUnknownModule))
		}
		v := factory()
		m.Define(name, v)
		if p, ok := v.(*Promise); ok {
			wait = append(wait, p)
		}
	}
	if len(wait) == 0 {
		return Resolved()
	}
	return All(wait...)
}
