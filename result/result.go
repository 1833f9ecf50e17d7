// Package result defines the value type that rides along with a Success
// message. Results are opaque to the trampoline and the policy; only
// matchers and Transform functions inspect or build them.
package result

import "github.com/zostay/trample/token"

// Result is the value attached to a Success message. It is the same
// match-tree shape the grammar author sees at the end of a parse: a tag,
// an arbitrary produced value, named and positional submatches, and a slot
// for whatever a Transform built from it.
type Result struct {
	Tag      token.Tag          // identifies what kind of rule produced this result
	Value    any                // the payload a Literal or Transform produced
	Group    map[string]*Result // named submatches, populated by Sequence when children are named
	Submatch []*Result          // positional submatches, populated by Sequence/Repeat
	Made     any                // a place for a Transform to stash a higher-level object
}

// Build is a shorthand for constructing a Result with named submatches,
// following the same (name, *Result, name, *Result, ...) calling
// convention the teacher's BuildMatch used for named matches.
func Build(t token.Tag, ms ...any) *Result {
	g := make(map[string]*Result, len(ms)/2)
	s := make([]*Result, 0, len(ms)/2)
	var n string
	for i, x := range ms {
		if i%2 == 0 {
			n = x.(string)
			continue
		}
		r, _ := x.(*Result)
		if r == nil {
			continue
		}
		if n != "" {
			g[n] = r
		}
		s = append(s, r)
	}
	return &Result{Tag: t, Group: g, Submatch: s}
}

// Leaf builds a Result with no submatches, the shape Literal and the other
// token-consuming matchers produce.
func Leaf(t token.Tag, value any) *Result {
	return &Result{Tag: t, Value: value}
}
