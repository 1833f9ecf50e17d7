package policy

import (
	"fmt"

	"github.com/zostay/trample/message"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/trampoline"
)

// Tracing wraps a base policy and invokes Observer with (stage, stack
// depth, position, a short matcher description) before delegating every
// dispatch to it. Grounded on the teacher's Tracer/Stage/p.Trace(...)
// idiom (_examples/zostay-gordy/parser/input.go, parser.go), generalized
// from "a function called during a direct recursive call" to "an observer
// invoked by the policy on every dispatch".
type Tracing[T any] struct {
	Base     trampoline.Policy[T]
	Observer Observer
}

// NewTracing wraps base, reporting every dispatch to observer.
func NewTracing[T any](base trampoline.Policy[T], observer Observer) *Tracing[T] {
	return &Tracing[T]{Base: base, Observer: observer}
}

func (p *Tracing[T]) Dispatch(t *trampoline.Trampoline[T], msg message.Message[T]) (message.Message[T], bool, error) {
	if p.Observer != nil {
		switch msg.Kind {
		case message.Execute:
			p.Observer(StageTry, t.Depth(), msg.Pos, describe(msg.Child))
		case message.Success:
			m, _ := t.Peek()
			p.Observer(StageGot, t.Depth(), msg.Pos, describe(m))
		case message.Failure:
			m, _ := t.Peek()
			p.Observer(StageFail, t.Depth(), msg.Pos, describe(m))
		}
	}
	return p.Base.Dispatch(t, msg)
}

// DeepestPosition delegates to the wrapped base policy, if it reports one.
func (p *Tracing[T]) DeepestPosition() (source.Position, bool) {
	if d, ok := p.Base.(interface{ DeepestPosition() (source.Position, bool) }); ok {
		return d.DeepestPosition()
	}
	return 0, false
}

func describe[T any](m message.Matcher[T]) string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%T", m)
}

// LogObserver adapts a teacher-style variadic sink — fmt.Println,
// log.Println, (*log.Logger).Print, anything shaped like
// func(v ...any) — into an Observer, following the teacher's own Tracer
// func(v ...any) signature (parser/input.go).
func LogObserver(sink func(v ...any)) Observer {
	return func(stage Stage, depth int, pos source.Position, detail string) {
		if detail == "" {
			sink(stage, depth, pos)
			return
		}
		sink(stage, depth, pos, detail)
	}
}
