package matcher

import (
	"fmt"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
)

// Choice tries its alternatives in order and commits to the first that
// succeeds, exactly as the teacher's match.First does — generalized here
// to a resumable ordered choice: asked for its next alternative, it first
// asks the alternative it last committed to for its own next alternative,
// and only advances to the next sibling once that one is exhausted. This
// is what makes ordered choice enumerate "all of alternative 1's parses,
// then all of alternative 2's" rather than interleaving them.
type Choice[T any] struct {
	Alternatives []Matcher[T]
}

// NewChoice builds a Choice matcher trying each alternative in order.
func NewChoice[T any](alts ...Matcher[T]) *Choice[T] {
	return &Choice[T]{Alternatives: alts}
}

// choiceState: idx is the alternative currently committed to (or being
// tried); pos is the position Choice itself was entered at, since every
// alternative restarts from the same input position; cont is nil while
// alternative idx hasn't succeeded yet (so OnFailure means it failed
// outright), and becomes that alternative's own continuation once it has.
type choiceState struct {
	idx  int
	pos  source.Position
	cont State
}

func (c choiceState) Fingerprint() any {
	var cfp any
	if c.cont != nil {
		cfp = c.cont.Fingerprint()
	}
	return [3]any{c.idx, c.pos, cfp}
}

func (c *Choice[T]) Enter(_ source.Source[T], pos source.Position) (message.Message[T], error) {
	if len(c.Alternatives) == 0 {
		return message.NewFailure[T](), nil
	}
	return message.NewExecute[T](c.Alternatives[0], Clean, pos,
		&message.Frame[T]{Matcher: c, State: choiceState{idx: 0, pos: pos}}), nil
}

func (c *Choice[T]) OnSuccess(st State, childCont State, result any, pos source.Position) (message.Message[T], error) {
	cs, ok := st.(choiceState)
	if !ok {
		return message.Message[T]{}, fmt.Errorf("trample: Choice.OnSuccess given unrecognized state %T", st)
	}
	return message.NewSuccess[T](choiceState{idx: cs.idx, pos: cs.pos, cont: childCont}, pos, result), nil
}

func (c *Choice[T]) OnFailure(st State) (message.Message[T], error) {
	cs, ok := st.(choiceState)
	if !ok {
		return message.Message[T]{}, fmt.Errorf("trample: Choice.OnFailure given unrecognized state %T", st)
	}

	if cs.cont != nil {
		return message.NewExecute[T](c.Alternatives[cs.idx], cs.cont, 0,
			&message.Frame[T]{Matcher: c, State: choiceState{idx: cs.idx, pos: cs.pos}}), nil
	}

	next := cs.idx + 1
	if next >= len(c.Alternatives) {
		return message.NewFailure[T](), nil
	}
	return message.NewExecute[T](c.Alternatives[next], Clean, cs.pos,
		&message.Frame[T]{Matcher: c, State: choiceState{idx: next, pos: cs.pos}}), nil
}
