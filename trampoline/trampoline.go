// Package trampoline implements the matcher-agnostic message loop: it
// holds the LIFO stack of pending parent Frames and drives messages
// through a Policy until the stack (including the implicit root sentinel)
// empties. It never inspects a matcher's variant — only messages and the
// generic message.Matcher interface.
package trampoline

import (
	"fmt"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
)

// Policy is the strategy a Trampoline drives. Dispatch interprets one
// message — consulting a memo table, a cut table, an observer, or simply
// invoking the matcher transition directly — and returns the next message
// to process. done is true once the frame stack has been popped back to
// the (implicit) root sentinel, at which point msg is the terminal
// Success or Failure outcome.
type Policy[T any] interface {
	Dispatch(t *Trampoline[T], msg message.Message[T]) (next message.Message[T], done bool, err error)
}

// Trampoline holds the call stack of pending parent Frames and runs the
// message loop. The host call stack this loop itself uses never grows
// with grammar depth or input length; all recursion is inverted into
// Push/Pop against its frame stack.
type Trampoline[T any] struct {
	stack []message.Frame[T]

	// Source is the input bound for the lifetime of one Run. It is
	// threaded through to Matcher.Enter by the Policy, not by the
	// trampoline loop itself; every Policy in package policy that calls
	// Enter passes it along, and a Policy that never calls Enter directly
	// is free to ignore it.
	Source source.Source[T]

	// Cancelled, when non-nil, is checked at the top of every loop
	// iteration; if it returns true the parse is abandoned.
	Cancelled func() bool
}

// New returns a Trampoline with an empty frame stack, bound to src for the
// duration of its use.
func New[T any](src source.Source[T]) *Trampoline[T] {
	return &Trampoline[T]{Source: src}
}

// Push saves f on top of the stack. Called by a Policy immediately before
// invoking the child transition named by an Execute message's Push frame.
func (t *Trampoline[T]) Push(f message.Frame[T]) {
	t.stack = append(t.stack, f)
}

// Pop removes and returns the top frame. ok is false when the stack is
// empty, meaning whoever is waiting is the implicit root sentinel and the
// in-flight Success/Failure is the parse's terminal outcome.
func (t *Trampoline[T]) Pop() (f message.Frame[T], ok bool) {
	n := len(t.stack)
	if n == 0 {
		return message.Frame[T]{}, false
	}
	f = t.stack[n-1]
	t.stack = t.stack[:n-1]
	return f, true
}

// Depth reports the current number of pending parent frames.
func (t *Trampoline[T]) Depth() int {
	return len(t.stack)
}

// Peek returns the matcher on top of the stack without removing it, or
// false if the stack is empty. A Policy uses this to describe which
// matcher a Success or Failure message is about to resolve against, since
// neither message variant carries that matcher itself.
func (t *Trampoline[T]) Peek() (message.Matcher[T], bool) {
	n := len(t.stack)
	if n == 0 {
		return nil, false
	}
	return t.stack[n-1].Matcher, true
}

// ErrCancelled is returned by Run when Cancelled reports true.
type ErrCancelled struct{}

func (ErrCancelled) Error() string { return "trample: parse cancelled" }

// ErrUnbalancedPop is a defensive error: Dispatch asked to pop a frame
// that isn't there mid-parse (not at termination). It should never fire
// for a correctly implemented Policy and matcher catalogue; it exists so
// a stack-discipline bug surfaces as an error instead of a panic deep in
// a matcher that did nothing wrong.
type ErrUnbalancedPop struct{ Kind message.Kind }

func (e ErrUnbalancedPop) Error() string {
	return fmt.Sprintf("trample: unbalanced frame stack on message kind %d", e.Kind)
}

// Run drives msg through policy until the frame stack is exhausted,
// returning the terminal Success/Failure message. A non-nil error is
// either ErrCancelled or the error Dispatch returned (a matcher
// transition's error, or ErrUnbalancedPop), which package trample
// reports as a GrammarError.
func (t *Trampoline[T]) Run(policy Policy[T], msg message.Message[T]) (message.Message[T], error) {
	for {
		if t.Cancelled != nil && t.Cancelled() {
			return message.Message[T]{}, ErrCancelled{}
		}

		next, done, err := policy.Dispatch(t, msg)
		if err != nil {
			return message.Message[T]{}, err
		}
		if done {
			return next, nil
		}
		msg = next
	}
}
