package component

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"extensible-data/internal/common"
)

var (
	ErrNotProvider  = errors.New("provided function is not a recognizable provider")
	ErrContextType  = errors.New("context does not fit the provider")
	ErrOutputType   = errors.New("provider output does not fit the caller")
	ErrNotAFunction = errors.New("provided provider is not a function")
)

var (
	contextType = reflect.TypeFor[Context]()
	errorType   = reflect.TypeFor[error]()
)

// Context is a value together with the table that wires its components.
// A provider whose parameter is a Context can reach the other components
// of the value it serves, the way a consumer trait calls back into its own
// context.
type Context struct {
	Table *Table
	Value any
}

// Provider is a checked function implementing one component.
type Provider struct {
	Package string       // package alias of the function, e.g. "main"
	Name    string       // provider name, e.g. "GreetHello"
	Context reflect.Type // parameter type
	Out     reflect.Type
	HasErr  bool

	fn reflect.Value
}

// ParseProvider inspects fn and returns a Provider named after the function.
//
// Supports signatures:
//   - func(ctx C) Out
//   - func(ctx C) (Out, error)
//
// C may be a concrete type, an interface satisfied by several contexts, or
// Context to receive the wiring table alongside the value.
func ParseProvider(fn any) (Provider, error) {
	p, err := parse(fn)
	if err != nil {
		return Provider{}, err
	}

	// "extensible-data/cmd/extensible.greetHello" -> "extensible", "greetHello"
	_, tail := path.Split(runtime.FuncForPC(p.fn.Pointer()).Name())
	p.Package, p.Name = common.Unpack2(strings.SplitN(tail, ".", 2))

	return p, nil
}

// NewProvider is ParseProvider with an explicit name, for closures and
// method values whose symbol names are not meaningful.
func NewProvider(name string, fn any) (Provider, error) {
	p, err := ParseProvider(fn)
	if err != nil {
		return Provider{}, err
	}

	p.Name = name

	return p, nil
}

// MustProvider is NewProvider that panics on error, for static wiring.
func MustProvider(name string, fn any) Provider {
	p, err := NewProvider(name, fn)
	if err != nil {
		panic(fmt.Sprintf("component: provider %q: %v", name, err))
	}

	return p
}

func parse(fn any) (Provider, error) {
	if fn == nil {
		return Provider{}, ErrNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return Provider{}, ErrNotAFunction
	}

	if fnVal.IsNil() || fnType.NumIn() != 1 || fnType.IsVariadic() {
		return Provider{}, ErrNotProvider
	}

	p := Provider{Context: fnType.In(0), fn: fnVal}

	switch fnType.NumOut() {
	case 1:
		p.Out = fnType.Out(0)
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return Provider{}, ErrNotProvider
		}

		p.Out, p.HasErr = fnType.Out(0), true
	default:
		return Provider{}, ErrNotProvider
	}

	return p, nil
}

// Generic reports whether the provider serves every context assignable to
// its parameter rather than one concrete type.
func (p Provider) Generic() bool {
	return p.Context == contextType || p.Context.Kind() == reflect.Interface
}

// Accepts reports whether a context of type t can be passed to p.
func (p Provider) Accepts(t reflect.Type) bool {
	if p.Context == contextType {
		return true
	}

	if t == nil {
		return isNillable(p.Context)
	}

	return t.AssignableTo(p.Context)
}

// Call invokes the provider on value, handing it t when it asks for a Context.
func (p Provider) Call(t *Table, value any) (any, error) {
	if !p.fn.IsValid() {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotProvider, p)
	}

	var arg reflect.Value

	switch {
	case p.Context == contextType:
		arg = reflect.ValueOf(Context{Table: t, Value: value})
	case value == nil:
		if !isNillable(p.Context) {
			return nil, fmt.Errorf("%w: %s wants %s, got nil", ErrContextType, p, common.TypeName(p.Context))
		}

		arg = reflect.Zero(p.Context)
	default:
		rv := reflect.ValueOf(value)
		if !rv.Type().AssignableTo(p.Context) {
			return nil, fmt.Errorf("%w: %s wants %s, got %s",
				ErrContextType, p, common.TypeName(p.Context), common.TypeName(rv.Type()))
		}

		arg = reflect.New(p.Context).Elem()
		arg.Set(rv)
	}

	out := p.fn.Call([]reflect.Value{arg})

	if p.HasErr {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}

	return out[0].Interface(), nil
}

// String renders the provider as "alias.Name(func signature)".
func (p Provider) String() string {
	name := p.Name
	if p.Package != "" {
		name = p.Package + "." + name
	}

	if !p.fn.IsValid() {
		return name
	}

	return name + "(" + p.fn.Type().String() + ")"
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
