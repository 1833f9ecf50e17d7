package policy

import (
	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/trampoline"
)

// memoKey identifies one matcher invocation: a specific matcher instance,
// asked to advance from a specific state, at a specific position.
type memoKey struct {
	matcher any
	fp      any
	pos     source.Position
}

// memoEntry is the cache slot for one key. Before the invocation it
// represents has produced an outcome it is "in progress" (resolved is
// false, message zero); once the invocation's terminal Success or Failure
// has been observed, message holds it verbatim and resolved is true.
type memoEntry struct {
	resolved bool
	message  message.Message[any] // Kind/ContState/Pos/Result only; Child/ChildState unused
}

// Memoizing caches each (matcher, state, position) invocation's terminal
// outcome so that a shared matcher node reachable by more than one path —
// the common case a DAG-shaped grammar exists to allow — is driven to
// completion once rather than once per path. A key re-entered while its
// first invocation is still unresolved (the left-recursion case) resolves
// to Failure rather than recursing forever: the conservative option spec
// §9 leaves to implementers, chosen here because the spec describes it
// precisely without requiring a seed-growing fixpoint algorithm. Grounded
// on spec §4.3's memo-table description directly.
type Memoizing[T any] struct {
	Deepest DeepestTracker

	table map[memoKey]*memoEntry
	// recordStack mirrors the trampoline's own frame stack one-for-one:
	// recordStack[i] is non-nil exactly when stack frame i is the first
	// (cache-populating) invocation of some key, so popping it also
	// resolves that key.
	recordStack []*memoKey
}

// NewMemoizing returns a ready-to-use Memoizing policy.
func NewMemoizing[T any]() *Memoizing[T] {
	return &Memoizing[T]{table: make(map[memoKey]*memoEntry)}
}

// DeepestPosition reports the furthest position this policy has attempted
// to enter or resume a matcher at, for attaching to a ParseFailure.
func (p *Memoizing[T]) DeepestPosition() (source.Position, bool) {
	return p.Deepest.Position()
}

func (p *Memoizing[T]) Dispatch(t *trampoline.Trampoline[T], msg message.Message[T]) (message.Message[T], bool, error) {
	switch msg.Kind {
	case message.Execute:
		p.Deepest.Mark(msg.Pos)
		key := memoKey{matcher: msg.Child, fp: msg.ChildState.Fingerprint(), pos: msg.Pos}

		if msg.Push != nil {
			t.Push(*msg.Push)
		}

		entry, seen := p.table[key]
		if seen {
			if msg.Push != nil {
				p.recordStack = append(p.recordStack, nil)
			}
			if !entry.resolved {
				// In progress: this is a re-entrant (left-recursive)
				// request for a key whose first invocation has not yet
				// produced anything.
				return message.NewFailure[T](), false, nil
			}
			return replayOutcome[T](entry.message), false, nil
		}

		p.table[key] = &memoEntry{}
		if msg.Push != nil {
			p.recordStack = append(p.recordStack, &key)
		}

		var next message.Message[T]
		var err error
		if msg.ChildState == message.Clean {
			next, err = msg.Child.Enter(t.Source, msg.Pos)
		} else {
			next, err = msg.Child.OnFailure(msg.ChildState)
		}
		return next, false, err

	case message.Success:
		frame, ok := t.Pop()
		if !ok {
			return msg, true, nil
		}
		if rec := p.popRecord(); rec != nil {
			p.table[*rec] = &memoEntry{resolved: true, message: captureOutcome[T](msg)}
		}
		next, err := frame.Matcher.OnSuccess(frame.State, msg.ContState, msg.Result, msg.Pos)
		return next, false, err

	case message.Failure:
		frame, ok := t.Pop()
		if !ok {
			return msg, true, nil
		}
		if rec := p.popRecord(); rec != nil {
			p.table[*rec] = &memoEntry{resolved: true, message: captureOutcome[T](msg)}
		}
		next, err := frame.Matcher.OnFailure(frame.State)
		return next, false, err

	default:
		return message.Message[T]{}, true, trampoline.ErrUnbalancedPop{Kind: msg.Kind}
	}
}

func (p *Memoizing[T]) popRecord() *memoKey {
	n := len(p.recordStack)
	if n == 0 {
		return nil
	}
	rec := p.recordStack[n-1]
	p.recordStack = p.recordStack[:n-1]
	return rec
}

// captureOutcome converts a Success/Failure message into the
// type-erased form stored in the cache (Child/ChildState are meaningless
// for a terminal message and dropped).
func captureOutcome[T any](msg message.Message[T]) message.Message[any] {
	return message.Message[any]{Kind: msg.Kind, ContState: msg.ContState, Pos: msg.Pos, Result: msg.Result}
}

func replayOutcome[T any](m message.Message[any]) message.Message[T] {
	return message.Message[T]{Kind: m.Kind, ContState: m.ContState, Pos: m.Pos, Result: m.Result}
}
