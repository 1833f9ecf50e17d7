package matcher

import (
	"fmt"

	"github.com/zostay/go-std/slices"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/result"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/token"
)

// Sequence matches its children left to right, named ones landing in the
// produced Result's Group the way the teacher's SeqNamed builds its match
// tree. Where the teacher's Seq short-circuits and gives up on the first
// child failure, this Sequence additionally supports the backtracking
// ladder spec'd for the core: on a request for its next overall
// alternative, it asks its last matched child for ITS next alternative;
// if that child has none left, it steps back to the previous child and
// asks the same question there, continuing until a child yields a new
// match (from which Sequence resumes forward matching) or index 0 is
// exhausted, at which point Sequence itself has no more alternatives.
type Sequence[T any] struct {
	Tag      token.Tag
	Children []Matcher[T]
	Names    []string // Names[i] is "" for a positional (unnamed) child
}

// NewSequence builds an unnamed Sequence matcher.
func NewSequence[T any](t token.Tag, children ...Matcher[T]) *Sequence[T] {
	return &Sequence[T]{Tag: t, Children: children, Names: make([]string, len(children))}
}

// NewSequenceNamed builds a Sequence matcher whose children carry names
// for the produced Result's Group, following the teacher's SeqNamed
// calling convention (alternating name, matcher pairs); a "" name leaves
// that child positional-only.
func NewSequenceNamed[T any](t token.Tag, pairs ...any) *Sequence[T] {
	s := &Sequence[T]{Tag: t}
	var name string
	for i, p := range pairs {
		if i%2 == 0 {
			name, _ = p.(string)
			continue
		}
		m, _ := p.(Matcher[T])
		s.Children = append(s.Children, m)
		s.Names = append(s.Names, name)
	}
	return s
}

// seqEntry is what Sequence remembers about one already-matched child: its
// produced result and its own continuation, so that child can later be
// asked for its next alternative.
type seqEntry struct {
	result any
	cont   State
}

// seqState is Sequence's own progress record. recent holds one seqEntry
// per child matched so far, most-recently-matched child first — the order
// the backtracking ladder walks in, built by prepending with
// slices.Unshift as each child succeeds. entryPos is the position this
// Sequence instance was itself entered at, constant across every state
// derived from one Enter, and carried along purely so Fingerprint can
// distinguish this invocation from another invocation of the same shared
// Sequence node entered at a different real position — the same role
// choiceState.pos plays for Choice.
type seqState struct {
	recent   []seqEntry
	pos      source.Position // position to resume forward matching from
	entryPos source.Position
}

func (s seqState) Fingerprint() any {
	fps := make([]any, len(s.recent))
	for i, e := range s.recent {
		fps[i] = e.cont.Fingerprint()
	}
	// fmt.Sprint flattens the per-child fingerprints to a string so the
	// result stays a plain comparable value — a []any embedded directly in
	// the returned any would be unhashable the moment this Fingerprint is
	// used as a memo key.
	return [3]any{s.entryPos, len(s.recent), fmt.Sprint(fps)}
}

// forward returns recent in left-to-right (matched) order.
func (s seqState) forward() []seqEntry {
	n := len(s.recent)
	out := make([]seqEntry, n)
	for i, e := range s.recent {
		out[n-1-i] = e
	}
	return out
}

func (s *Sequence[T]) build(entries []seqEntry) *result.Result {
	r := &result.Result{Tag: s.Tag}
	if len(s.Names) > 0 {
		r.Group = make(map[string]*result.Result, len(entries))
	}
	for i, e := range entries {
		child, _ := e.result.(*result.Result)
		r.Submatch = append(r.Submatch, child)
		if i < len(s.Names) && s.Names[i] != "" && child != nil {
			r.Group[s.Names[i]] = child
		}
	}
	return r
}

func (s *Sequence[T]) Enter(_ source.Source[T], pos source.Position) (message.Message[T], error) {
	if len(s.Children) == 0 {
		return message.NewSuccess[T](seqState{pos: pos, entryPos: pos}, pos, s.build(nil)), nil
	}
	return message.NewExecute[T](s.Children[0], Clean, pos,
		&message.Frame[T]{Matcher: s, State: seqState{pos: pos, entryPos: pos}}), nil
}

func (s *Sequence[T]) OnSuccess(st State, childCont State, childResult any, pos source.Position) (message.Message[T], error) {
	ss, ok := st.(seqState)
	if !ok {
		return message.Message[T]{}, fmt.Errorf("trample: Sequence.OnSuccess given unrecognized state %T", st)
	}
	recent := slices.Unshift(ss.recent, seqEntry{result: childResult, cont: childCont})
	next := seqState{recent: recent, pos: pos, entryPos: ss.entryPos}
	matched := len(recent)

	if matched == len(s.Children) {
		return message.NewSuccess[T](next, pos, s.build(next.forward())), nil
	}
	return message.NewExecute[T](s.Children[matched], Clean, pos,
		&message.Frame[T]{Matcher: s, State: next}), nil
}

func (s *Sequence[T]) OnFailure(st State) (message.Message[T], error) {
	ss, ok := st.(seqState)
	if !ok {
		return message.Message[T]{}, fmt.Errorf("trample: Sequence.OnFailure given unrecognized state %T", st)
	}
	if len(ss.recent) == 0 {
		return message.NewFailure[T](), nil
	}
	last := ss.recent[0]
	prevIdx := len(ss.recent) - 1
	return message.NewExecute[T](s.Children[prevIdx], last.cont, 0,
		&message.Frame[T]{Matcher: s, State: seqState{recent: ss.recent[1:], entryPos: ss.entryPos}}), nil
}
