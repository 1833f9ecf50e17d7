package token

import "strconv"

// Tag labels a Result with the rule that produced it.
type Tag int

// Built-in tags every grammar gets for free.
const (
	// None marks a Result that stands in for "nothing matched", e.g. the
	// empty branch of an unmatched Optional.
	None Tag = iota

	// Literal is the default tag a plain token-consuming matcher can fall
	// back to when the grammar author hasn't assigned one of its own.
	Literal

	// Last is the boundary between built-in tags and grammar-assigned
	// ones; NextTag starts handing out values above it. Its own numeric
	// value is not part of the contract.
	Last
)

// String renders a built-in Tag by name and anything past Last as its
// numeric value, for use by diagnostics (e.g. %v in a test failure
// message).
func (t Tag) String() string {
	switch t {
	case None:
		return "None"
	case Literal:
		return "Literal"
	default:
		return strconv.Itoa(int(t))
	}
}

var lastAssigned = Last

// NextTag hands out a fresh Tag above the built-in range. Grammars call it
// once per rule, typically from a package-level var block or an init
// function, so that tags from independently written grammars never
// collide when combined.
func NextTag() Tag {
	lastAssigned++
	return lastAssigned
}
