package gamekit

import "log/slog"

// Callback is a promise continuation. Its return value decides how the
// child promise returned by Then settles:
//
//   - a *Promise: the child settles when that promise settles, with its outcome
//   - nil: the child settles with no values
//   - []any: the child settles with those values
//   - anything else: the child settles with that single value
//
// A non-promise result settles the child in the same state as the parent, so
// an error continuation keeps the chain rejected unless it returns a promise
// that resolves.
type Callback func(values ...any) any

// ProgressFunc receives progress notifications from a pending promise.
type ProgressFunc func(values ...any)

// Step is a deferred asynchronous operation. A nil result means the step
// completed synchronously.
type Step func() *Promise

type promiseState uint8

const (
	statePending promiseState = iota
	stateResolved
	stateRejected
)

type promiseHandler struct {
	onSuccess  Callback
	onError    Callback
	onProgress ProgressFunc
	child      *Promise
}

// Promise is a single eventual outcome, resolved or rejected at most once.
//
// Promises are passive: settling one runs its continuations synchronously on
// the caller's stack, and a continuation may settle further promises
// recursively. Nothing is deferred to a later frame. Panics raised inside a
// continuation are not recovered and propagate to whoever settled the
// promise.
//
// A Promise is not safe for concurrent use. Work running on other goroutines
// must settle promises through Core.Post.
type Promise struct {
	state    promiseState
	values   []any
	handlers []*promiseHandler
	log      *slog.Logger
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return &Promise{}
}

// Resolved returns a promise already resolved with values.
func Resolved(values ...any) *Promise {
	p := NewPromise()
	p.Resolve(values...)
	return p
}

// Rejected returns a promise already rejected with values.
func Rejected(values ...any) *Promise {
	p := NewPromise()
	p.Reject(values...)
	return p
}

// Resolve settles the promise successfully. Only the first call to Resolve
// or Reject has any effect.
func (p *Promise) Resolve(values ...any) {
	p.settle(stateResolved, values)
}

// Reject settles the promise as failed. Only the first call to Resolve or
// Reject has any effect.
func (p *Promise) Reject(values ...any) {
	p.settle(stateRejected, values)
}

// Progress notifies attached progress continuations. Notifications are not
// buffered: continuations attached later never see them, and a settled
// promise ignores the call.
func (p *Promise) Progress(values ...any) {
	if p.state != statePending {
		return
	}
	for _, h := range p.handlers {
		if h.onProgress != nil {
			h.onProgress(values...)
		}
	}
}

// Then attaches continuations and returns a new child promise for their
// outcome. Either continuation may be nil, in which case the outcome passes
// through to the child unchanged. If p is already settled the matching
// continuation runs before Then returns.
func (p *Promise) Then(onSuccess, onError Callback) *Promise {
	return p.ThenProgress(onSuccess, onError, nil)
}

// ThenProgress is Then with an additional progress continuation.
func (p *Promise) ThenProgress(onSuccess, onError Callback, onProgress ProgressFunc) *Promise {
	h := &promiseHandler{
		onSuccess:  onSuccess,
		onError:    onError,
		onProgress: onProgress,
		child:      &Promise{log: p.log},
	}
	if p.state == statePending {
		p.handlers = append(p.handlers, h)
	} else {
		p.deliver(h)
	}
	return h.child
}

// Catch is shorthand for Then(nil, onError).
func (p *Promise) Catch(onError Callback) *Promise {
	return p.Then(nil, onError)
}

// IsPending reports whether the promise has not settled yet.
func (p *Promise) IsPending() bool { return p.state == statePending }

// IsResolved reports whether the promise resolved.
func (p *Promise) IsResolved() bool { return p.state == stateResolved }

// IsRejected reports whether the promise was rejected.
func (p *Promise) IsRejected() bool { return p.state == stateRejected }

// Values returns the settlement values, or nil while pending.
func (p *Promise) Values() []any {
	return p.values
}

// Err returns the first rejection value that is an error, or nil.
func (p *Promise) Err() error {
	if p.state != stateRejected {
		return nil
	}
	for _, v := range p.values {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}

func (p *Promise) settle(state promiseState, values []any) {
	if p.state != statePending {
		return
	}
	p.state = state
	p.values = values

	handlers := p.handlers
	p.handlers = nil

	if state == stateRejected && len(handlers) == 0 && p.log != nil {
		p.log.Debug("promise rejected with no handler attached", "values", values)
	}

	for _, h := range handlers {
		p.deliver(h)
	}
}

func (p *Promise) deliver(h *promiseHandler) {
	fn := h.onSuccess
	if p.state == stateRejected {
		fn = h.onError
	}
	if fn == nil {
		h.child.settle(p.state, p.values)
		return
	}
	h.child.adopt(p.state, fn(p.values...))
}

// adopt settles p from a continuation result.
func (p *Promise) adopt(state promiseState, result any) {
	switch r := result.(type) {
	case *Promise:
		if r == nil {
			p.settle(state, nil)
			return
		}
		r.Then(func(values ...any) any {
			p.Resolve(values...)
			return nil
		}, func(values ...any) any {
			p.Reject(values...)
			return nil
		})
	case nil:
		p.settle(state, nil)
	case []any:
		p.settle(state, r)
	default:
		p.settle(state, []any{r})
	}
}

// --- Composites ---

// All resolves once every given promise has resolved, with one value per
// input holding that promise's resolution values as []any. It rejects with
// the first rejection's values; promises that already resolved are left as
// they are. With no inputs the result is already resolved.
func All(promises ...*Promise) *Promise {
	out := NewPromise()
	if len(promises) == 0 {
		out.Resolve()
		return out
	}
	out.log = promises[0].log

	results := make([]any, len(promises))
	remaining := len(promises)
	for i, p := range promises {
		p.Then(func(values ...any) any {
			results[i] = values
			remaining--
			if remaining == 0 {
				out.Resolve(results...)
			}
			return nil
		}, func(values ...any) any {
			out.Reject(values...)
			return nil
		})
	}
	return out
}

// Chain returns a step that runs steps strictly in order. A step returning a
// promise holds the chain until that promise resolves; if it rejects, the
// chain stops and its promise rejects with the same values. The chain's
// promise resolves after the last step completes.
func Chain(steps ...Step) Step {
	return func() *Promise {
		out := NewPromise()
		var next func(i int)
		next = func(i int) {
			for ; i < len(steps); i++ {
				r := steps[i]()
				if r == nil {
					continue
				}
				resume := i + 1
				r.Then(func(...any) any {
					next(resume)
					return nil
				}, func(values ...any) any {
					out.Reject(values...)
					return nil
				})
				return
			}
			out.Resolve()
		}
		next(0)
		return out
	}
}

// Parallel returns a step that starts every step immediately. Its promise
// resolves once all returned promises have resolved; steps returning nil
// count as settled. The first rejection rejects the group.
func Parallel(steps ...Step) Step {
	return func() *Promise {
		out := NewPromise()
		remaining := len(steps)
		if remaining == 0 {
			out.Resolve()
			return out
		}
		done := func(...any) any {
			remaining--
			if remaining == 0 {
				out.Resolve()
			}
			return nil
		}
		fail := func(values ...any) any {
			out.Reject(values...)
			return nil
		}
		for _, s := range steps {
			if r := s(); r != nil {
				r.Then(done, fail)
			} else {
				done()
			}
		}
		return out
	}
}
