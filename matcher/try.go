package matcher

import (
	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
)

// Try locally lifts the restricted-backtracking policy's cut: a Choice
// inside a Try subtree may still try its next alternative even after its
// current alternative consumed input and then failed. Try otherwise
// behaves as pure delegation to Child. Under any other policy it is a
// no-op wrapper. Grounded on spec §9's distinguished Try matcher and its
// begin_try/end_try capability hook, which a restricted-backtracking
// policy recognizes by this concrete type.
type Try[T any] struct {
	Child Matcher[T]
}

// NewTry wraps child so restricted backtracking treats it as a cut-free
// region.
func NewTry[T any](child Matcher[T]) *Try[T] {
	return &Try[T]{Child: child}
}

type tryWaiting struct{}

func (tryWaiting) Fingerprint() any { return "try-waiting" }

type tryResume struct{ cont State }

func (t tryResume) Fingerprint() any { return t.cont.Fingerprint() }

func (t *Try[T]) Enter(_ source.Source[T], pos source.Position) (message.Message[T], error) {
	return message.NewExecute[T](t.Child, Clean, pos, &message.Frame[T]{Matcher: t, State: tryWaiting{}}), nil
}

func (t *Try[T]) OnSuccess(st State, childCont State, result any, pos source.Position) (message.Message[T], error) {
	return message.NewSuccess[T](tryResume{cont: childCont}, pos, result), nil
}

func (t *Try[T]) OnFailure(st State) (message.Message[T], error) {
	switch s := st.(type) {
	case tryWaiting:
		return message.NewFailure[T](), nil
	case tryResume:
		return message.NewExecute[T](t.Child, s.cont, 0, &message.Frame[T]{Matcher: t, State: tryWaiting{}}), nil
	default:
		return message.NewFailure[T](), nil
	}
}
