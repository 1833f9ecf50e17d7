package matcher

import (
	"fmt"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
)

// Reference is a late-bound matcher: a name resolved against a Grammar's
// binding table at dispatch time rather than at construction time, so a
// grammar's rules can refer to each other — including themselves,
// directly or through a cycle — without a pointer cycle in the matcher
// value graph itself. Grounded on the binding-table indirection the
// teacher has no equivalent of at all (the teacher's grammars are plain
// Go call graphs; a cyclic one simply cannot be built with it).
type Reference[T any] struct {
	grammar *Grammar[T]
	name    string
}

func (r *Reference[T]) resolve() (Matcher[T], error) {
	m, ok := r.grammar.lookup(r.name)
	if !ok {
		return nil, fmt.Errorf("trample: unresolved reference %q", r.name)
	}
	return m, nil
}

// refWaiting carries the position Reference was itself entered at, purely
// so Fingerprint can tell apart two invocations of the same shared
// Reference reached at different real positions — the same role
// choiceState.pos plays for Choice.
type refWaiting struct {
	pos source.Position
}

func (s refWaiting) Fingerprint() any { return [2]any{"ref-waiting", s.pos} }

// refResume is Reference's own continuation: which target it resolved to,
// and that target's continuation, so a later request for Reference's next
// alternative re-enters the same target rather than re-resolving and
// re-entering from scratch. pos is carried forward from refWaiting for the
// same reason.
type refResume[T any] struct {
	target Matcher[T]
	cont   State
	pos    source.Position
}

func (r refResume[T]) Fingerprint() any {
	return [3]any{r.target, r.cont.Fingerprint(), r.pos}
}

func (r *Reference[T]) Enter(_ source.Source[T], pos source.Position) (message.Message[T], error) {
	target, err := r.resolve()
	if err != nil {
		return message.Message[T]{}, err
	}
	return message.NewExecute[T](target, Clean, pos, &message.Frame[T]{Matcher: r, State: refWaiting{pos: pos}}), nil
}

func (r *Reference[T]) OnSuccess(st State, childCont State, result any, pos source.Position) (message.Message[T], error) {
	waiting, ok := st.(refWaiting)
	if !ok {
		return message.Message[T]{}, fmt.Errorf("trample: Reference.OnSuccess given unrecognized state %T", st)
	}
	target, err := r.resolve()
	if err != nil {
		return message.Message[T]{}, err
	}
	return message.NewSuccess[T](refResume[T]{target: target, cont: childCont, pos: waiting.pos}, pos, result), nil
}

func (r *Reference[T]) OnFailure(st State) (message.Message[T], error) {
	switch s := st.(type) {
	case refWaiting:
		return message.NewFailure[T](), nil
	case refResume[T]:
		return message.NewExecute[T](s.target, s.cont, 0, &message.Frame[T]{Matcher: r, State: refWaiting{pos: s.pos}}), nil
	default:
		return message.Message[T]{}, fmt.Errorf("trample: Reference.OnFailure given unrecognized state %T", st)
	}
}
