// Package matcher is the catalogue of matcher variants: Literal, Sequence,
// Choice, Repeat (and Optional, a Repeat alias), Transform, and Reference.
// Each variant implements message.Matcher by returning the next Message for
// the trampoline to drive rather than calling another matcher's methods
// directly — matchers never recurse into each other.
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zostay/trample/message"
)

// Matcher re-exports the message package's transition interface so grammar
// code can write matcher.Matcher[T] without importing message directly.
type Matcher[T any] = message.Matcher[T]

// State re-exports message.State for the same reason.
type State = message.State

// Clean re-exports message.Clean, the state every matcher is first Entered
// with.
var Clean = message.Clean

// Grammar is the name-to-matcher binding table a Reference resolves
// against, letting a grammar's rules refer to each other (including
// themselves) without requiring a pointer cycle through the matcher DAG
// itself. Define rules first, then Freeze before parsing; Freeze closes
// the table against further Define calls and also checks that every name
// ever passed to Ref has actually been Defined, so a typo'd rule name
// fails loudly at grammar-construction time (a panic, the same way Define
// after Freeze panics) rather than surfacing as a GrammarError deep in a
// parse.
type Grammar[T any] struct {
	rules      map[string]Matcher[T]
	referenced map[string]bool
	frozen     bool
}

// NewGrammar returns an empty, unfrozen Grammar.
func NewGrammar[T any]() *Grammar[T] {
	return &Grammar[T]{rules: make(map[string]Matcher[T]), referenced: make(map[string]bool)}
}

// Define binds name to m. Define after Freeze panics.
func (g *Grammar[T]) Define(name string, m Matcher[T]) {
	if g.frozen {
		panic(fmt.Sprintf("trample: Define(%q) called after Freeze", name))
	}
	g.rules[name] = m
}

// Freeze closes the binding table against further Define calls and
// panics if any name passed to Ref was never Defined.
func (g *Grammar[T]) Freeze() {
	var missing []string
	for name := range g.referenced {
		if _, ok := g.rules[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		panic(fmt.Sprintf("trample: Freeze: unresolved reference(s): %s", strings.Join(missing, ", ")))
	}
	g.frozen = true
}

func (g *Grammar[T]) lookup(name string) (Matcher[T], bool) {
	m, ok := g.rules[name]
	return m, ok
}

// Ref returns a Matcher that lazily resolves name against g each time it
// is dispatched, the indirection a recursive or forward-referencing rule
// needs. The name
// is recorded so Freeze can check it was eventually Defined.
func Ref[T any](g *Grammar[T], name string) Matcher[T] {
	g.referenced[name] = true
	return &Reference[T]{grammar: g, name: name}
}
