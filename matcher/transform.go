package matcher

import (
	"fmt"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
)

// TransformFunc turns a child's produced value into whatever the grammar
// author wants as the rule's own value. It is expected to be pure: it may
// be invoked more than once for the same child result if a later
// alternative re-derives an equal intermediate value.
type TransformFunc func(v any) (any, error)

// Transform applies fn to whatever its child produces. A panic inside fn
// is recovered and reported as a GrammarError-worthy error rather than
// unwinding the trampoline's Go call stack, matching the "malformed
// grammar, not a parse failure" treatment the rest of the catalogue gives
// construction-time mistakes. No teacher analogue; new, grounded directly
// on the value-transforming rule the catalogue needs and the teacher's own
// "Made" field on Match, which exists for exactly this kind of payload.
type Transform[T any] struct {
	Child Matcher[T]
	Fn    TransformFunc
}

// NewTransform builds a Transform matcher over child.
func NewTransform[T any](child Matcher[T], fn TransformFunc) *Transform[T] {
	return &Transform[T]{Child: child, Fn: fn}
}

type transformWaiting struct{}

func (transformWaiting) Fingerprint() any { return "transform-waiting" }

type transformResume struct{ cont State }

func (t transformResume) Fingerprint() any { return t.cont.Fingerprint() }

func (t *Transform[T]) apply(v any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("trample: transform function panicked: %v", r)
		}
	}()
	return t.Fn(v)
}

func (t *Transform[T]) Enter(_ source.Source[T], pos source.Position) (message.Message[T], error) {
	return message.NewExecute[T](t.Child, Clean, pos, &message.Frame[T]{Matcher: t, State: transformWaiting{}}), nil
}

func (t *Transform[T]) OnSuccess(st State, childCont State, childResult any, pos source.Position) (message.Message[T], error) {
	v, err := t.apply(childResult)
	if err != nil {
		return message.Message[T]{}, err
	}
	return message.NewSuccess[T](transformResume{cont: childCont}, pos, v), nil
}

func (t *Transform[T]) OnFailure(st State) (message.Message[T], error) {
	switch s := st.(type) {
	case transformWaiting:
		return message.NewFailure[T](), nil
	case transformResume:
		return message.NewExecute[T](t.Child, s.cont, 0, &message.Frame[T]{Matcher: t, State: transformWaiting{}}), nil
	default:
		return message.Message[T]{}, fmt.Errorf("trample: Transform.OnFailure given unrecognized state %T", st)
	}
}
