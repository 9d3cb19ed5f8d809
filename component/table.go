package component

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"extensible-data/internal/common"
	"extensible-data/internal/logging"
	"extensible-data/internal/match"
)

var (
	ErrFrozen            = errors.New("component table is frozen")
	ErrNoProvider        = errors.New("no provider wired for component")
	ErrDuplicateProvider = errors.New("component already has a provider")
)

// Name names a component, e.g. "Greeter" or "NameGetter".
type Name string

// Key is what a table is indexed by: a component and the context type it
// is resolved for. A nil Type is the wildcard entry used by generic
// providers.
type Key struct {
	Component Name
	Type      reflect.Type
}

// Table maps components to providers for one family of contexts, in the
// way a context's component list delegates each component to a provider.
//
// A table is populated at startup and then frozen. Registrations after
// Freeze fail; lookups on a frozen table take no lock and are safe for any
// number of concurrent readers.
type Table struct {
	name string

	mu        sync.RWMutex
	frozen    atomic.Bool
	providers map[Key]Provider
}

// NewTable returns an empty, unfrozen table.
func NewTable(name string) *Table {
	return &Table{name: name, providers: make(map[Key]Provider)}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Delegate wires comp to p. A provider with a concrete parameter type is
// registered for that type; a generic one becomes the wildcard for comp.
func (t *Table) Delegate(comp Name, p Provider) error {
	var typ reflect.Type
	if !p.Generic() {
		typ = p.Context
	}

	return t.register(Key{Component: comp, Type: typ}, p)
}

// DelegateFor wires comp to p for contexts of exactly type typ.
func (t *Table) DelegateFor(comp Name, typ reflect.Type, p Provider) error {
	if typ == nil {
		return fmt.Errorf("%w: %s for %s needs a context type", ErrContextType, p, comp)
	}

	if !p.Accepts(typ) {
		return fmt.Errorf("%w: %s cannot serve %s", ErrContextType, p, common.TypeName(typ))
	}

	return t.register(Key{Component: comp, Type: typ}, p)
}

// DelegateFunc parses fn and wires it to comp.
func (t *Table) DelegateFunc(comp Name, fn any) error {
	p, err := ParseProvider(fn)
	if err != nil {
		return fmt.Errorf("%s: %w", comp, err)
	}

	return t.Delegate(comp, p)
}

func (t *Table) register(key Key, p Provider) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen.Load() {
		return fmt.Errorf("%w: %s cannot take %s", ErrFrozen, t.name, key.Component)
	}

	if prev, ok := t.providers[key]; ok {
		return fmt.Errorf("%w: %s.%s is %s, not %s", ErrDuplicateProvider, t.name, key.Component, prev, p)
	}

	t.providers[key] = p

	logging.Named("component").Debug("delegated",
		zap.String("table", t.name),
		zap.String("component", string(key.Component)),
		zap.String("context", common.TypeName(key.Type)),
		zap.Stringer("provider", p))

	return nil
}

// Freeze stops further registrations and returns t.
func (t *Table) Freeze() *Table {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.frozen.Swap(true) {
		logging.Named("component").Debug("table frozen",
			zap.String("table", t.name), zap.Int("providers", len(t.providers)))
	}

	return t
}

// Frozen reports whether Freeze was called.
func (t *Table) Frozen() bool { return t.frozen.Load() }

// Lookup resolves the provider of comp for a context of type typ: the entry
// for exactly typ first, then the wildcard if its provider accepts typ.
func (t *Table) Lookup(comp Name, typ reflect.Type) (Provider, error) {
	if !t.frozen.Load() {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}

	if typ != nil {
		if p, ok := t.providers[Key{Component: comp, Type: typ}]; ok {
			return p, nil
		}
	}

	if p, ok := t.providers[Key{Component: comp}]; ok {
		if p.Accepts(typ) {
			return p, nil
		}

		return Provider{}, fmt.Errorf("%w: %s.%s provider %s cannot serve %s",
			ErrContextType, t.name, comp, p, common.TypeName(typ))
	}

	if hint, ok := match.Suggest(string(comp), t.componentNames()); ok && hint != string(comp) {
		return Provider{}, fmt.Errorf("%w: %s.%s for %s (did you mean %q?)",
			ErrNoProvider, t.name, comp, common.TypeName(typ), hint)
	}

	return Provider{}, fmt.Errorf("%w: %s.%s for %s", ErrNoProvider, t.name, comp, common.TypeName(typ))
}

// Components returns every wired component name, sorted.
func (t *Table) Components() []Name {
	if !t.frozen.Load() {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}

	var names []Name

	for k := range t.providers {
		if !slices.Contains(names, k.Component) {
			names = append(names, k.Component)
		}
	}

	slices.Sort(names)

	return names
}

// componentNames is Components as strings; the caller holds the lock.
func (t *Table) componentNames() []string {
	var names []string

	for k := range t.providers {
		if !slices.Contains(names, string(k.Component)) {
			names = append(names, string(k.Component))
		}
	}

	slices.Sort(names)

	return names
}

// Call resolves comp for value's type and invokes its provider, asserting
// the result to Out.
func Call[Out any](t *Table, comp Name, value any) (Out, error) {
	var zero Out

	p, err := t.Lookup(comp, reflect.TypeOf(value))
	if err != nil {
		return zero, err
	}

	res, err := p.Call(t, value)
	if err != nil {
		return zero, fmt.Errorf("%s.%s: %w", t.name, comp, err)
	}

	out, ok := res.(Out)
	if !ok && res != nil {
		return zero, fmt.Errorf("%w: %s.%s returned %T, want %s",
			ErrOutputType, t.name, comp, res, common.TypeName(reflect.TypeFor[Out]()))
	}

	return out, nil
}

// Use calls another component of the context a provider is serving.
func Use[Out any](ctx Context, comp Name) (Out, error) {
	if ctx.Table == nil {
		var zero Out
		return zero, fmt.Errorf("%w: %s (context has no table)", ErrNoProvider, comp)
	}

	return Call[Out](ctx.Table, comp, ctx.Value)
}
