// Package message defines the trampoline's wire protocol: the Matcher
// transition interface, the State a matcher carries between transitions,
// the Frame the trampoline saves on its call stack, and the Message
// variants matchers communicate in. Nothing in this package schedules
// anything — it is pure data plus the one interface (Matcher) that the
// matcher catalogue implements and the trampoline/policy packages consume.
package message

import "github.com/zostay/trample/source"

// State is a matcher-local progress record. States are immutable; a
// matcher advancing produces a new State value rather than mutating the
// old one.
type State interface {
	// Fingerprint returns a comparable value identifying this state for
	// memoization purposes: two states at the same matcher and position
	// with equal fingerprints are treated as the same parse attempt.
	Fingerprint() any
}

type cleanState struct{}

func (cleanState) Fingerprint() any { return nil }

// Clean is the distinguished initial state every matcher is entered with.
var Clean State = cleanState{}

// Matcher is implemented by every matcher-catalogue variant (Literal,
// Sequence, Choice, Repeat, Optional, Transform, Reference). None of its
// methods may call another Matcher's methods directly — all delegation is
// expressed by returning an Execute Message for the trampoline to drive.
type Matcher[T any] interface {
	// Enter is invoked the first time this matcher runs at pos (state is
	// implicitly Clean). src is the input the whole parse is running
	// against; composite matchers (Sequence, Choice, Repeat, Transform,
	// Reference) ignore it — the Execute they return carries no source, and
	// the policy passes Trampoline.Source to the child's Enter — so only a
	// token-consuming leaf like Literal actually calls src.Next.
	Enter(src source.Source[T], pos source.Position) (Message[T], error)

	// OnSuccess is invoked when a child this matcher delegated to
	// returns Success. st is this matcher's own saved progress record
	// (the Frame.State popped by the trampoline); childCont is the
	// child's own continuation state (Message.ContState from its
	// Success), kept so this matcher can later ask that exact child for
	// its next alternative; result is the child's produced value; pos is
	// the position after the child's match.
	OnSuccess(st State, childCont State, result any, pos source.Position) (Message[T], error)

	// OnFailure is invoked either when a delegated child fails, or when
	// the policy re-drives a previously successful match for its next
	// alternative by feeding back the continuation State that Success
	// returned. Both cases are the same operation from the matcher's
	// point of view: "try the next alternative from here, or give up."
	OnFailure(st State) (Message[T], error)
}

// Frame is a (matcher, state) pair saved on the trampoline's stack when a
// matcher defers work to a child. Frames are consumed in LIFO order.
type Frame[T any] struct {
	Matcher Matcher[T]
	State   State
}

// Kind distinguishes the three Message variants.
type Kind int

const (
	// Execute requests that Child be advanced from ChildState at Pos.
	Execute Kind = iota
	// Success reports that a matcher matched; ContState is its
	// continuation for a later on-failure-driven resumption.
	Success
	// Failure reports that a matcher did not match (or has no further
	// alternatives left to offer on resumption).
	Failure
)

// Message is the single value the trampoline loop passes between
// dispatches. Only the fields relevant to Kind are populated.
type Message[T any] struct {
	Kind Kind

	// Execute fields.
	Child      Matcher[T]
	ChildState State
	Pos        source.Position
	// Push, when non-nil, is the frame the trampoline pushes immediately
	// before invoking Child's transition — the (matcher, state) that
	// issued this Execute, so a later Success/Failure can be routed back
	// to it. Push is nil only for the Execute that seeds a run (the
	// bootstrap, or a request for the root's next alternative), whose
	// implicit parent is the root sentinel, represented by an empty stack.
	Push *Frame[T]

	// Success fields.
	ContState State
	Result    any
}

// NewExecute builds an Execute message delegating to child from state at
// pos, pushing push (which may be nil for the bootstrap case) beforehand.
func NewExecute[T any](child Matcher[T], state State, pos source.Position, push *Frame[T]) Message[T] {
	return Message[T]{Kind: Execute, Child: child, ChildState: state, Pos: pos, Push: push}
}

// NewSuccess builds a Success message carrying a continuation state for
// resumption, the position after the match, and the produced result.
func NewSuccess[T any](cont State, pos source.Position, result any) Message[T] {
	return Message[T]{Kind: Success, ContState: cont, Pos: pos, Result: result}
}

// NewFailure builds a Failure message.
func NewFailure[T any]() Message[T] {
	return Message[T]{Kind: Failure}
}
