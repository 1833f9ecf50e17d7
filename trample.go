// Package trample is the public front-end: it wires a grammar, an input
// source, and an execution policy together into one parse, and exposes
// the lazy all-parses iteration described for the result channel.
package trample

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zostay/trample/matcher"
	"github.com/zostay/trample/message"
	"github.com/zostay/trample/policy"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/trampoline"
)

// Signal is an externally settable cancellation flag. The zero value is
// usable (not yet cancelled).
type Signal struct {
	cancelled int32
}

// Cancel marks the signal as tripped. Safe to call from any goroutine.
func (s *Signal) Cancel() {
	if s != nil {
		atomic.StoreInt32(&s.cancelled, 1)
	}
}

// Cancelled reports whether Cancel has been called.
func (s *Signal) Cancelled() bool {
	return s != nil && atomic.LoadInt32(&s.cancelled) != 0
}

// Options configures one Parse call.
type Options struct {
	// AllParses requests a lazy sequence of parses instead of just the
	// first.
	AllParses bool
	// RequireFullInput requires the accepted position to be end-of-input;
	// defaults to true via DefaultOptions.
	RequireFullInput bool
	// Cancellation, if set, is polled at the top of every trampoline
	// iteration.
	Cancellation *Signal
	// Observer, if set, wraps whatever policy is used in a Tracing
	// policy reporting to it.
	Observer policy.Observer
	// Memoize selects a Memoizing policy as the default when Policy
	// (passed to Parse) is nil.
	Memoize bool
}

// DefaultOptions returns Options with RequireFullInput true and
// everything else at its zero value.
func DefaultOptions() Options {
	return Options{RequireFullInput: true}
}

// ParseFailure reports that the grammar did not match the input. It is
// non-fatal: normal program flow, not a defect.
type ParseFailure struct {
	// DeepestPosition is the furthest position any matcher attempt
	// reached, if the policy reported one.
	DeepestPosition source.Position
	HasDeepest      bool
}

func (e *ParseFailure) Error() string {
	if e.HasDeepest {
		return fmt.Sprintf("trample: parse failed (deepest position reached: %d)", e.DeepestPosition)
	}
	return "trample: parse failed"
}

// GrammarError reports a structural defect detected at runtime: an
// unresolved Reference, a Repeat with Min > Max, or a Transform function
// that raised. It is fatal: the trampoline unwinds immediately without
// calling any parent's OnFailure.
type GrammarError struct {
	Err error
}

func (e *GrammarError) Error() string { return fmt.Sprintf("trample: grammar error: %v", e.Err) }
func (e *GrammarError) Unwrap() error { return e.Err }

// Cancelled reports that the external cancellation Signal was set.
type Cancelled struct{}

func (Cancelled) Error() string { return "trample: parse cancelled" }

// Outcome is a single successful parse: its produced value and the
// position immediately after it.
type Outcome struct {
	Result any
	Pos    source.Position
}

// Parse drives grammar against input once, using pol (or, if pol is nil,
// a default chosen by opts.Memoize). With opts.AllParses false it returns
// the first accepted parse. With opts.AllParses true, result and sequence
// are both non-nil on success; call sequence.Next to pull the parses that
// follow result (the first Next call returns the second parse, not result
// again) until it returns a nil *Outcome.
func Parse[T any](grammar matcher.Matcher[T], input source.Source[T], pol trampoline.Policy[T], opts Options) (*Outcome, *Sequence[T], error) {
	if pol == nil {
		pol = defaultPolicy[T](opts)
	}
	if opts.Observer != nil {
		pol = policy.NewTracing[T](pol, opts.Observer)
	}

	seq := &Sequence[T]{
		policy:      pol,
		root:        grammar,
		src:         input,
		requireFull: opts.RequireFullInput,
		cancel:      opts.Cancellation,
		clean:       true,
	}

	out, err := seq.Next()
	if err != nil {
		return nil, nil, err
	}
	if out == nil {
		return nil, nil, seq.terminalErr()
	}
	if !opts.AllParses {
		return out, nil, nil
	}
	return out, seq, nil
}

func defaultPolicy[T any](opts Options) trampoline.Policy[T] {
	if opts.Memoize {
		return policy.NewMemoizing[T]()
	}
	return policy.NewNonMemoizing[T]()
}

// Sequence is the pull iterator backing all_parses: the caller calls Next
// repeatedly, and the underlying trampoline is re-driven one parse at a
// time rather than all at once, matching the "coroutine-like" lazy
// enumeration the result channel describes.
type Sequence[T any] struct {
	mu sync.Mutex

	policy      trampoline.Policy[T]
	root        matcher.Matcher[T]
	src         source.Source[T]
	requireFull bool
	cancel      *Signal

	clean     bool          // true until the first Next call
	cont      message.State // root's continuation, once it has succeeded at least once
	exhausted bool
	lastErr   error
}

// Next returns the next accepted parse, or (nil, nil) once the grammar is
// exhausted on this input. A non-nil error is GrammarError or Cancelled;
// Next never returns ParseFailure itself — when the very first call finds
// no parse, Parse reports that (nil, nil) as a ParseFailure.
func (s *Sequence[T]) Next() (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exhausted {
		return nil, nil
	}

	for {
		tr := trampoline.New[T](s.src)
		if s.cancel != nil {
			tr.Cancelled = s.cancel.Cancelled
		}

		var seed message.Message[T]
		if s.clean {
			seed = message.NewExecute[T](s.root, message.Clean, s.src.Start(), nil)
		} else {
			seed = message.NewExecute[T](s.root, s.cont, 0, nil)
		}
		s.clean = false

		result, err := tr.Run(s.policy, seed)
		if err != nil {
			s.exhausted = true
			s.lastErr = s.classifyErr(err)
			return nil, s.lastErr
		}

		if result.Kind == message.Failure {
			s.exhausted = true
			s.lastErr = s.failureErr()
			return nil, nil
		}

		s.cont = result.ContState
		if s.requireFull && !s.src.AtEnd(result.Pos) {
			// Not a full-input match: this alternative doesn't count as
			// an accepted parse. Ask for the next one.
			continue
		}
		return &Outcome{Result: result.Result, Pos: result.Pos}, nil
	}
}

func (s *Sequence[T]) terminalErr() error {
	if s.lastErr != nil {
		return s.lastErr
	}
	return s.failureErr()
}

func (s *Sequence[T]) failureErr() error {
	pf := &ParseFailure{}
	if d, ok := s.policy.(interface{ DeepestPosition() (source.Position, bool) }); ok {
		pf.DeepestPosition, pf.HasDeepest = d.DeepestPosition()
	}
	return pf
}

func (s *Sequence[T]) classifyErr(err error) error {
	if _, ok := err.(trampoline.ErrCancelled); ok {
		return Cancelled{}
	}
	return &GrammarError{Err: err}
}
