package dispatch

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"extensible-data/component"
	"extensible-data/field"
	"extensible-data/internal/diagnostic"
	"extensible-data/internal/logging"
	"extensible-data/internal/match"
	"extensible-data/variant"
)

var (
	ErrMissingHandler   = errors.New("alternative has no handler")
	ErrDuplicateHandler = errors.New("alternative has more than one handler")
	ErrUnknownTag       = errors.New("handler tag is not an alternative")
	ErrHandlerType      = errors.New("handler does not fit the payload")
	ErrSealed           = errors.New("pipeline is sealed")
)

// Pipeline computes an Out from a variant S by running the handler of the
// alternative the value holds. Handlers are registered per tag, then the
// pipeline is sealed: every alternative must have exactly one handler whose
// parameter is its payload type. A sealed pipeline is read-only and safe for
// concurrent dispatch.
type Pipeline[S, Out any] struct {
	mu       sync.Mutex
	schema   *field.Schema
	err      error
	handlers []handler[Out]

	sealed atomic.Bool
	table  []invoke[Out] // by alternative index, set by Seal
}

// New returns an empty pipeline for the variant type S.
func New[S, Out any]() *Pipeline[S, Out] {
	s, err := field.VariantOf[S]()
	if err == nil && s.Type() != reflect.TypeFor[S]() {
		err = fmt.Errorf("%w: %s (use the struct type, not a pointer)", field.ErrNotStruct, s.Name())
	}

	return &Pipeline[S, Out]{schema: s, err: err}
}

// Handle registers a handler taking the payload by value.
func Handle[S, V, Out any](p *Pipeline[S, Out], tag string, fn func(V) (Out, error)) error {
	return p.add(valueHandler(tag, fn))
}

// HandleRef registers a handler taking a pointer to the payload. Under
// DispatchRef it points into the dispatched value.
func HandleRef[S, V, Out any](p *Pipeline[S, Out], tag string, fn func(*V) (Out, error)) error {
	return p.add(refHandler(tag, fn))
}

// HandleFunc registers a plain function whose signature is checked with
// reflect when the pipeline is sealed.
func HandleFunc[S, Out any](p *Pipeline[S, Out], tag string, fn any) error {
	return p.add(funcHandler[Out](tag, fn))
}

// Delegate handles tag by calling component comp of table with the payload
// as context. The provider is looked up at dispatch time.
func Delegate[S, Out any](p *Pipeline[S, Out], tag string, table *component.Table, comp component.Name) error {
	return p.add(delegateHandler[Out](tag, table, comp))
}

func (p *Pipeline[S, Out]) add(h handler[Out]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sealed.Load() {
		return fmt.Errorf("%w: cannot add %s handler for %q", ErrSealed, h.source, h.tag)
	}

	p.handlers = append(p.handlers, h)

	return nil
}

// Seal checks the registrations and freezes the pipeline. All problems are
// reported together; a pipeline that fails to seal stays open so handlers
// can still be added.
func (p *Pipeline[S, Out]) Seal() error {
	if p.sealed.Load() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sealed.Load() {
		return nil
	}

	if p.err != nil {
		return p.err
	}

	var diags diagnostic.Diagnostics

	subject := "dispatch " + p.schema.Name()
	table := make([]invoke[Out], p.schema.Len())
	count := make([]int, p.schema.Len())

	for _, h := range p.handlers {
		i, ok := p.schema.Index(h.tag)
		if !ok {
			msg := "no such alternative"
			if hint, ok := match.Suggest(h.tag, p.schema.Keys()); ok {
				msg += fmt.Sprintf(" (did you mean %q?)", hint)
			}

			diags.AddError(ErrUnknownTag, "unknown_tag", subject, h.tag, msg)

			continue
		}

		count[i]++
		if count[i] == 2 {
			diags.AddError(ErrDuplicateHandler, "duplicate_handler", subject, h.tag,
				"alternative is handled more than once")
		}

		call, err := h.bind(p.schema.Field(i).Type)
		if err != nil {
			diags.AddError(ErrHandlerType, "handler_type", subject, h.tag, err.Error())
			continue
		}

		table[i] = call
	}

	for i, d := range p.schema.Fields() {
		if count[i] == 0 {
			diags.AddError(ErrMissingHandler, "missing_handler", subject, d.Key, "alternative is not handled")
		}
	}

	if err := diags.Err(); err != nil {
		return err
	}

	p.table = table
	p.sealed.Store(true)

	logging.Named("dispatch").Debug("pipeline sealed",
		zap.String("variant", p.schema.Name()), zap.Int("handlers", len(p.handlers)))

	return nil
}

// Sealed reports whether Seal succeeded.
func (p *Pipeline[S, Out]) Sealed() bool { return p.sealed.Load() }

// Dispatch runs the handler of the alternative v holds on a copy of its
// payload.
func (p *Pipeline[S, Out]) Dispatch(v S) (Out, error) {
	if err := p.Seal(); err != nil {
		var zero Out
		return zero, err
	}

	e, err := variant.ToExtractor(v)
	if err != nil {
		var zero Out
		return zero, err
	}

	return p.run(e, func(payload any, typ reflect.Type) reflect.Value {
		ptr := reflect.New(typ)
		if payload != nil {
			ptr.Elem().Set(reflect.ValueOf(payload))
		}

		return ptr
	})
}

// DispatchRef runs the handler of the alternative *v holds on the payload
// pointer itself; by-reference handlers can change *v.
func (p *Pipeline[S, Out]) DispatchRef(v *S) (Out, error) {
	if err := p.Seal(); err != nil {
		var zero Out
		return zero, err
	}

	e, err := variant.ToRefExtractor(v)
	if err != nil {
		var zero Out
		return zero, err
	}

	return p.run(e, func(payload any, _ reflect.Type) reflect.Value {
		return reflect.ValueOf(payload)
	})
}

// run folds over the alternatives in declaration order. Each miss voids one
// alternative, so after the last one the remainder is uninhabited.
func (p *Pipeline[S, Out]) run(e variant.Extractor[S], pointer func(any, reflect.Type) reflect.Value) (Out, error) {
	for i, d := range p.schema.Fields() {
		payload, rest, ok, err := e.ExtractField(d.Key)
		if err != nil {
			var zero Out
			return zero, err
		}

		if !ok {
			e = rest
			continue
		}

		out, err := p.table[i](pointer(payload, d.Type))
		if err != nil {
			return out, fmt.Errorf("%s::%s: %w", p.schema.Name(), d.Key, err)
		}

		return out, nil
	}

	return variant.FinalizeExtract[Out](e), nil
}
