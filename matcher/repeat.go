package matcher

import (
	"fmt"

	"github.com/zostay/go-std/slices"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/result"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/token"
)

// repEntry is one already-matched repetition: its produced result, its own
// continuation (so it can later be asked for a different match of the
// same slot), and the position span it covered.
type repEntry struct {
	result   any
	cont     State
	startPos source.Position
	endPos   source.Position
}

func repEntryPos(entries []repEntry, entryPos source.Position) source.Position {
	if len(entries) == 0 {
		return entryPos
	}
	return entries[len(entries)-1].endPos
}

// Repeat matches Child between Min and Max times (Max <= 0 means
// unbounded) and, unlike the teacher's match.Many/match.ManyWithSep,
// supports resumption. Greedy tries to match as many repetitions as
// possible up front; asked for its next overall alternative, it first
// tries a different match for its most recently accepted repetition, then
// falls back to offering one fewer repetition, continuing down to Min
// before finally failing. Non-greedy starts at Min and grows by one on
// each resumption, up to Max; once it cannot grow, it asks its
// repetitions, last first, for a different match of their own slot
// (offering each one found and growing again from it), and fails when
// none is left — it never offers a smaller count a second time. Grounded on the teacher's
// match.Many/match.ManyWithSep accumulate-until-fail loop; the resumption
// ladder itself has no teacher analogue.
type Repeat[T any] struct {
	Tag      token.Tag
	Child    Matcher[T]
	Min, Max int // Max <= 0 means unbounded
	Greedy   bool

	// EmptyTag, if non-nil, is used in place of Tag when zero repetitions
	// are the offered match — how Optional distinguishes "matched
	// nothing" from "matched the empty case of a real rule".
	EmptyTag *token.Tag
}

// NewRepeat builds a Repeat matcher.
func NewRepeat[T any](t token.Tag, child Matcher[T], min, max int, greedy bool) *Repeat[T] {
	return &Repeat[T]{Tag: t, Child: child, Min: min, Max: max, Greedy: greedy}
}

// NewOptional builds a Repeat(0, 1, greedy) matcher tagged with token.None
// when unmatched, following the teacher's Optional convention of tagging
// an empty match distinctly from a real one.
func NewOptional[T any](t token.Tag, child Matcher[T]) *Repeat[T] {
	none := token.None
	return &Repeat[T]{Tag: t, Child: child, Min: 0, Max: 1, Greedy: true, EmptyTag: &none}
}

func repEntryResult(e repEntry) *result.Result {
	child, _ := e.result.(*result.Result)
	return child
}

func (r *Repeat[T]) build(entries []repEntry) *result.Result {
	tag := r.Tag
	if len(entries) == 0 && r.EmptyTag != nil {
		tag = *r.EmptyTag
	}
	return &result.Result{Tag: tag, Submatch: slices.Map(entries, repEntryResult)}
}

// --- state kinds ---
//
// Every state below carries entryPos — the position this Repeat instance
// was itself entered at — purely so Fingerprint can tell apart two
// invocations of the same shared Repeat node entered at different real
// positions, the same role choiceState.pos plays for Choice.

// repGrow: waiting on an attempt to match repetition number len(reps)+1,
// started from the initial Enter (or chained from a prior successful
// repGrow) — used for every mandatory repetition (below Min) and for
// greedy's optional extra repetitions (Min..Max).
type repGrow struct {
	reps     []repEntry
	pos      source.Position
	entryPos source.Position
}

func (s repGrow) Fingerprint() any { return [3]any{"grow", s.entryPos, len(s.reps)} }

// repGrowMore: non-greedy resumption asking for one additional repetition
// beyond an already-offered match.
type repGrowMore struct {
	reps     []repEntry
	pos      source.Position
	entryPos source.Position
}

func (s repGrowMore) Fingerprint() any { return [3]any{"grow-more", s.entryPos, len(s.reps)} }

// repDone: reps has already been offered once as a successful match;
// asking for the next alternative starts the give-back (or, non-greedy,
// grow-then-give-back) ladder.
type repDone struct {
	reps     []repEntry
	entryPos source.Position
}

func (s repDone) Fingerprint() any { return [3]any{"done", s.entryPos, len(s.reps)} }

// repReplace: waiting on an attempt to find a different match for the
// slot previously held by reps' would-be last entry; prior holds
// everything before that slot.
type repReplace struct {
	prior    []repEntry
	entryPos source.Position
}

func (s repReplace) Fingerprint() any { return [3]any{"replace", s.entryPos, len(s.prior)} }

// --- transitions ---

func (r *Repeat[T]) Enter(_ source.Source[T], pos source.Position) (message.Message[T], error) {
	if r.Max > 0 && r.Min > r.Max {
		return message.Message[T]{}, fmt.Errorf("trample: Repeat has Min %d > Max %d", r.Min, r.Max)
	}
	if r.Min == 0 && !r.Greedy {
		return message.NewSuccess[T](repDone{entryPos: pos}, pos, r.build(nil)), nil
	}
	return message.NewExecute[T](r.Child, Clean, pos,
		&message.Frame[T]{Matcher: r, State: repGrow{pos: pos, entryPos: pos}}), nil
}

func (r *Repeat[T]) OnSuccess(st State, childCont State, childResult any, pos source.Position) (message.Message[T], error) {
	switch s := st.(type) {
	case repGrow:
		reps := append(append([]repEntry(nil), s.reps...), repEntry{result: childResult, cont: childCont, startPos: s.pos, endPos: pos})
		return r.afterGrowSuccess(reps, pos, s.entryPos)

	case repGrowMore:
		reps := append(append([]repEntry(nil), s.reps...), repEntry{result: childResult, cont: childCont, startPos: s.pos, endPos: pos})
		return message.NewSuccess[T](repDone{reps: reps, entryPos: s.entryPos}, pos, r.build(reps)), nil

	case repReplace:
		reps := append(append([]repEntry(nil), s.prior...), repEntry{result: childResult, cont: childCont, startPos: repEntryPos(s.prior, s.entryPos), endPos: pos})
		if r.Greedy {
			return r.afterGrowSuccess(reps, pos, s.entryPos)
		}
		return message.NewSuccess[T](repDone{reps: reps, entryPos: s.entryPos}, pos, r.build(reps)), nil

	default:
		return message.Message[T]{}, fmt.Errorf("trample: Repeat.OnSuccess given unrecognized state %T", st)
	}
}

// afterGrowSuccess decides, after reps has just grown by one (via initial
// growth or a replacement), whether to keep growing (greedy, below Max)
// or to offer reps as the current match.
func (r *Repeat[T]) afterGrowSuccess(reps []repEntry, pos, entryPos source.Position) (message.Message[T], error) {
	n := len(reps)
	if n < r.Min {
		return message.NewExecute[T](r.Child, Clean, pos,
			&message.Frame[T]{Matcher: r, State: repGrow{reps: reps, pos: pos, entryPos: entryPos}}), nil
	}
	if r.Greedy && (r.Max <= 0 || n < r.Max) {
		return message.NewExecute[T](r.Child, Clean, pos,
			&message.Frame[T]{Matcher: r, State: repGrow{reps: reps, pos: pos, entryPos: entryPos}}), nil
	}
	return message.NewSuccess[T](repDone{reps: reps, entryPos: entryPos}, pos, r.build(reps)), nil
}

func (r *Repeat[T]) OnFailure(st State) (message.Message[T], error) {
	switch s := st.(type) {
	case repGrow:
		if len(s.reps) < r.Min {
			return message.NewFailure[T](), nil
		}
		// Extra greedy growth failed; reps is the final greedy match.
		return message.NewSuccess[T](repDone{reps: s.reps, entryPos: s.entryPos}, s.pos, r.build(s.reps)), nil

	case repGrowMore:
		return r.replaceLadder(s.reps, s.entryPos)

	case repDone:
		if r.Greedy {
			return r.replaceLadder(s.reps, s.entryPos)
		}
		n := len(s.reps)
		pos := repEntryPos(s.reps, s.entryPos)
		if r.Max <= 0 || n < r.Max {
			return message.NewExecute[T](r.Child, Clean, pos,
				&message.Frame[T]{Matcher: r, State: repGrowMore{reps: s.reps, pos: pos, entryPos: s.entryPos}}), nil
		}
		return r.replaceLadder(s.reps, s.entryPos)

	case repReplace:
		if len(s.prior) < r.Min {
			return message.NewFailure[T](), nil
		}
		if !r.Greedy {
			// Non-greedy already offered prior on its way up; step further
			// down the ladder instead of offering it a second time.
			return r.replaceLadder(s.prior, s.entryPos)
		}
		return message.NewSuccess[T](repDone{reps: s.prior, entryPos: s.entryPos}, repEntryPos(s.prior, s.entryPos), r.build(s.prior)), nil

	default:
		return message.Message[T]{}, fmt.Errorf("trample: Repeat.OnFailure given unrecognized state %T", st)
	}
}

// replaceLadder asks the last accepted repetition in reps for a different
// match of the same slot.
func (r *Repeat[T]) replaceLadder(reps []repEntry, entryPos source.Position) (message.Message[T], error) {
	if len(reps) == 0 {
		return message.NewFailure[T](), nil
	}
	last := reps[len(reps)-1]
	prior := reps[:len(reps)-1]
	return message.NewExecute[T](r.Child, last.cont, 0,
		&message.Frame[T]{Matcher: r, State: repReplace{prior: append([]repEntry(nil), prior...), entryPos: entryPos}}), nil
}

