package policy

import (
	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/trampoline"
)

// NonMemoizing drives the trampoline by invoking matcher transitions
// directly, with no caching and no cut semantics — the policy spec'd as
// the baseline against which the others are variations.
type NonMemoizing[T any] struct {
	Deepest DeepestTracker
}

// NewNonMemoizing returns a ready-to-use NonMemoizing policy.
func NewNonMemoizing[T any]() *NonMemoizing[T] {
	return &NonMemoizing[T]{}
}

// DeepestPosition reports the furthest position this policy has attempted
// to enter or resume a matcher at, for attaching to a ParseFailure.
func (p *NonMemoizing[T]) DeepestPosition() (source.Position, bool) {
	return p.Deepest.Position()
}

func (p *NonMemoizing[T]) Dispatch(t *trampoline.Trampoline[T], msg message.Message[T]) (message.Message[T], bool, error) {
	switch msg.Kind {
	case message.Execute:
		p.Deepest.Mark(msg.Pos)
		if msg.Push != nil {
			t.Push(*msg.Push)
		}
		next, err := enterOrResume[T](t, msg)
		return next, false, err

	case message.Success:
		frame, ok := t.Pop()
		if !ok {
			return msg, true, nil
		}
		next, err := frame.Matcher.OnSuccess(frame.State, msg.ContState, msg.Result, msg.Pos)
		return next, false, err

	case message.Failure:
		frame, ok := t.Pop()
		if !ok {
			return msg, true, nil
		}
		next, err := frame.Matcher.OnFailure(frame.State)
		return next, false, err

	default:
		return message.Message[T]{}, true, trampoline.ErrUnbalancedPop{Kind: msg.Kind}
	}
}

// enterOrResume drives an Execute message: a Clean child state means a
// fresh Enter; anything else is a request for that matcher's next
// alternative, answered by feeding its own saved continuation back into
// OnFailure (see message.Matcher's OnFailure doc comment).
func enterOrResume[T any](t *trampoline.Trampoline[T], msg message.Message[T]) (message.Message[T], error) {
	if msg.ChildState == message.Clean {
		return msg.Child.Enter(t.Source, msg.Pos)
	}
	return msg.Child.OnFailure(msg.ChildState)
}
