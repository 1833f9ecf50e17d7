package matcher

import (
	"fmt"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/result"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/token"
)

// Literal matches an exact, fixed sequence of tokens at the current
// position or fails outright; it never has a second alternative, so
// resuming it on backtracking always fails. Grounded on the teacher's
// match.OneByte/match.NBytes (consume-or-fail over a predicate),
// generalized here from "one byte" to "an exact token sequence".
type Literal[T comparable] struct {
	Tag    token.Tag
	Tokens []T
}

// NewLiteral builds a Literal matcher tagged t over the given token
// sequence.
func NewLiteral[T comparable](t token.Tag, tokens ...T) *Literal[T] {
	return &Literal[T]{Tag: t, Tokens: tokens}
}

type literalDone struct{}

func (literalDone) Fingerprint() any { return "literal-done" }

func (l *Literal[T]) Enter(src source.Source[T], pos source.Position) (message.Message[T], error) {
	cur := pos
	for _, want := range l.Tokens {
		if src.AtEnd(cur) {
			return message.NewFailure[T](), nil
		}
		got, next := src.Next(cur)
		if got != want {
			return message.NewFailure[T](), nil
		}
		cur = next
	}
	tokens := append([]T(nil), l.Tokens...)
	return message.NewSuccess[T](literalDone{}, cur, result.Leaf(l.Tag, tokens)), nil
}

func (l *Literal[T]) OnSuccess(State, State, any, source.Position) (message.Message[T], error) {
	return message.Message[T]{}, fmt.Errorf("trample: Literal never delegates; OnSuccess should never be invoked on it")
}

func (l *Literal[T]) OnFailure(State) (message.Message[T], error) {
	return message.NewFailure[T](), nil
}
