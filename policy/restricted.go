package policy

import (
	"github.com/zostay/trample/matcher"
	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/trampoline"
)

type barrierKind int

const (
	barrierChoice barrierKind = iota
	barrierTry
)

// cutBarrier tracks one active Choice (or Try) on the trampoline's frame
// stack: where it started, and whether anything has been successfully
// consumed past that point since.
type cutBarrier struct {
	kind      barrierKind
	matcher   any
	startPos  source.Position
	committed bool
}

// RestrictedBacktracking is the Parsec-like policy: once a choice has
// consumed at least one token past its starting position, a later failure
// inside that choice is not caught by it (Choice does not try its next
// alternative) — Failure instead propagates past it, exactly as it would
// if Choice had never offered an alternative. A Try subtree suspends this
// rule for its duration. Grounded on spec §4.3/§9 directly; commitment is
// tracked only against the innermost active barrier, which is sufficient
// for the common case of non-overlapping choice points and is the
// deliberately simpler reading of the "restricted" policy the spec leaves
// to implementers to pick a concrete tracking granularity for.
type RestrictedBacktracking[T any] struct {
	Deepest  DeepestTracker
	barriers []cutBarrier
}

// NewRestrictedBacktracking returns a ready-to-use RestrictedBacktracking
// policy.
func NewRestrictedBacktracking[T any]() *RestrictedBacktracking[T] {
	return &RestrictedBacktracking[T]{}
}

// DeepestPosition reports the furthest position this policy has attempted
// to enter or resume a matcher at, for attaching to a ParseFailure.
func (p *RestrictedBacktracking[T]) DeepestPosition() (source.Position, bool) {
	return p.Deepest.Position()
}

func (p *RestrictedBacktracking[T]) top() *cutBarrier {
	if len(p.barriers) == 0 {
		return nil
	}
	return &p.barriers[len(p.barriers)-1]
}

func (p *RestrictedBacktracking[T]) pushBarrierFor(push *message.Frame[T], pos source.Position) {
	if push == nil {
		return
	}
	switch push.Matcher.(type) {
	case *matcher.Choice[T]:
		p.barriers = append(p.barriers, cutBarrier{kind: barrierChoice, matcher: push.Matcher, startPos: pos})
	case *matcher.Try[T]:
		p.barriers = append(p.barriers, cutBarrier{kind: barrierTry, matcher: push.Matcher})
	}
}

func (p *RestrictedBacktracking[T]) popBarrierFor(m message.Matcher[T]) {
	if b := p.top(); b != nil && b.matcher == m {
		p.barriers = p.barriers[:len(p.barriers)-1]
	}
}

func (p *RestrictedBacktracking[T]) markProgress(pos source.Position) {
	b := p.top()
	if b == nil || b.kind != barrierChoice || pos <= b.startPos {
		return
	}
	for _, o := range p.barriers {
		if o.kind == barrierTry {
			// Inside a Try subtree: progress commits no choice.
			return
		}
	}
	b.committed = true
}

func (p *RestrictedBacktracking[T]) committedChoice() bool {
	b := p.top()
	return b != nil && b.kind == barrierChoice && b.committed
}

func (p *RestrictedBacktracking[T]) Dispatch(t *trampoline.Trampoline[T], msg message.Message[T]) (message.Message[T], bool, error) {
	switch msg.Kind {
	case message.Execute:
		p.Deepest.Mark(msg.Pos)
		p.pushBarrierFor(msg.Push, msg.Pos)
		if msg.Push != nil {
			t.Push(*msg.Push)
		}
		if msg.ChildState == message.Clean {
			next, err := msg.Child.Enter(t.Source, msg.Pos)
			return next, false, err
		}
		next, err := msg.Child.OnFailure(msg.ChildState)
		return next, false, err

	case message.Success:
		p.markProgress(msg.Pos)
		frame, ok := t.Pop()
		if !ok {
			return msg, true, nil
		}
		p.popBarrierFor(frame.Matcher)
		next, err := frame.Matcher.OnSuccess(frame.State, msg.ContState, msg.Result, msg.Pos)
		return next, false, err

	case message.Failure:
		if p.committedChoice() {
			// This choice already consumed input; it does not get to try
			// its next alternative. Pop the top frame (the choice's own or
			// one nested inside it) without invoking its OnFailure (which
			// would start a backtracking ladder) and let Failure keep
			// propagating until the choice's own frame and barrier are gone.
			frame, ok := t.Pop()
			if !ok {
				return msg, true, nil
			}
			p.popBarrierFor(frame.Matcher)
			return message.NewFailure[T](), false, nil
		}
		frame, ok := t.Pop()
		if !ok {
			return msg, true, nil
		}
		p.popBarrierFor(frame.Matcher)
		next, err := frame.Matcher.OnFailure(frame.State)
		return next, false, err

	default:
		return message.Message[T]{}, true, trampoline.ErrUnbalancedPop{Kind: msg.Kind}
	}
}
