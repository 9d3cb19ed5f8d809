package dispatch

import (
	"fmt"
	"reflect"

	"extensible-data/component"
	"extensible-data/internal/common"
)

var errorType = reflect.TypeFor[error]()

// invoke runs a bound handler on a pointer to the payload. In value mode the
// pointer addresses a fresh copy; in reference mode it is the pointer held
// by the dispatched value.
type invoke[Out any] func(ptr reflect.Value) (Out, error)

// handler is one registration. bind checks it against the payload type of
// its alternative when the pipeline is sealed.
type handler[Out any] struct {
	tag    string
	source string
	bind   func(payload reflect.Type) (invoke[Out], error)
}

// ByRef adapts a by-value handler to the by-reference signature. The
// handler sees a copy of the pointee, so it cannot change the original.
func ByRef[V, Out any](fn func(V) (Out, error)) func(*V) (Out, error) {
	return func(v *V) (Out, error) { return fn(*v) }
}

// ByValue adapts a by-reference handler to the by-value signature. The
// handler gets the address of its own copy.
func ByValue[V, Out any](fn func(*V) (Out, error)) func(V) (Out, error) {
	return func(v V) (Out, error) { return fn(&v) }
}

func valueHandler[V, Out any](tag string, fn func(V) (Out, error)) handler[Out] {
	return refHandler(tag, ByRef(fn)).named("value")
}

func refHandler[V, Out any](tag string, fn func(*V) (Out, error)) handler[Out] {
	return handler[Out]{
		tag:    tag,
		source: "ref",
		bind: func(payload reflect.Type) (invoke[Out], error) {
			if want := reflect.TypeFor[V](); want != payload {
				return nil, fmt.Errorf("%w: handler takes %s, payload is %s",
					ErrHandlerType, common.TypeName(want), common.TypeName(payload))
			}

			return func(ptr reflect.Value) (Out, error) {
				return fn(ptr.Interface().(*V))
			}, nil
		},
	}
}

// funcHandler checks fn with reflect. Accepted shapes are func(V) Out,
// func(V) (Out, error), func(*V) Out and func(*V) (Out, error), where V is
// the payload type and the result is assignable to Out.
func funcHandler[Out any](tag string, fn any) handler[Out] {
	h := handler[Out]{tag: tag, source: "func"}

	fnVal := reflect.ValueOf(fn)
	if fn == nil || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		h.bind = func(reflect.Type) (invoke[Out], error) {
			return nil, fmt.Errorf("%w: %T is not a function", ErrHandlerType, fn)
		}

		return h
	}

	fnType := fnVal.Type()
	out := reflect.TypeFor[Out]()

	shapeErr := func() error {
		if fnType.NumIn() != 1 || fnType.IsVariadic() {
			return fmt.Errorf("%w: %s must take exactly one payload", ErrHandlerType, fnType)
		}

		switch fnType.NumOut() {
		case 2:
			if fnType.Out(1) != errorType {
				return fmt.Errorf("%w: %s second result must be error", ErrHandlerType, fnType)
			}

			fallthrough
		case 1:
			if !fnType.Out(0).AssignableTo(out) {
				return fmt.Errorf("%w: %s result is not assignable to %s", ErrHandlerType, fnType, common.TypeName(out))
			}
		default:
			return fmt.Errorf("%w: %s must return %s or (%s, error)",
				ErrHandlerType, fnType, common.TypeName(out), common.TypeName(out))
		}

		return nil
	}()

	h.bind = func(payload reflect.Type) (invoke[Out], error) {
		if shapeErr != nil {
			return nil, shapeErr
		}

		var byRef bool

		switch in := fnType.In(0); in {
		case payload:
		case reflect.PointerTo(payload):
			byRef = true
		default:
			return nil, fmt.Errorf("%w: %s takes %s, payload is %s",
				ErrHandlerType, fnType, common.TypeName(in), common.TypeName(payload))
		}

		return func(ptr reflect.Value) (Out, error) {
			arg := ptr
			if !byRef {
				arg = ptr.Elem()
			}

			res := fnVal.Call([]reflect.Value{arg})
			if len(res) == 2 {
				if err, _ := res[1].Interface().(error); err != nil {
					var zero Out
					return zero, err
				}
			}

			v := reflect.New(out).Elem()
			v.Set(res[0])

			o, _ := v.Interface().(Out) // nil interface results stay zero

			return o, nil
		}, nil
	}

	return h
}

// delegateHandler resolves the provider of comp for the payload type from
// table on every call, so the table may be filled after registration.
func delegateHandler[Out any](tag string, table *component.Table, comp component.Name) handler[Out] {
	return handler[Out]{
		tag:    tag,
		source: "delegate",
		bind: func(reflect.Type) (invoke[Out], error) {
			if table == nil {
				return nil, fmt.Errorf("%w: %s has no table", ErrHandlerType, comp)
			}

			return func(ptr reflect.Value) (Out, error) {
				return component.Call[Out](table, comp, ptr.Elem().Interface())
			}, nil
		},
	}
}

func (h handler[Out]) named(source string) handler[Out] {
	h.source = source
	return h
}
