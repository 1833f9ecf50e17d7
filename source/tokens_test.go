package source_test

import (
	"testing"

	"github.com/zostay/trample/source"
)

// TestTokenSourceRoundTrip checks that TokenSource satisfies the same
// Start/AtEnd/Next contract as ByteSource/RuneSource over a slice of
// pre-tokenized items (here, plain ints standing in for lexer tokens).
func TestTokenSourceRoundTrip(t *testing.T) {
	items := []int{10, 20, 30}
	ts := source.NewTokenSource(items)

	p := ts.Start()
	if ts.AtEnd(p) {
		t.Fatal("AtEnd true at Start of a non-empty source")
	}

	var got []int
	for !ts.AtEnd(p) {
		var v int
		v, p = ts.Next(p)
		got = append(got, v)
	}

	if len(got) != len(items) {
		t.Fatalf("got %v, want %v", got, items)
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("item %d = %d, want %d", i, got[i], items[i])
		}
	}
	if !ts.AtEnd(p) {
		t.Error("expected AtEnd true after consuming every item")
	}
}

// TestTokenSourceEmpty checks that an empty TokenSource is immediately
// AtEnd.
func TestTokenSourceEmpty(t *testing.T) {
	ts := source.NewTokenSource[string](nil)
	if !ts.AtEnd(ts.Start()) {
		t.Error("expected AtEnd true for an empty TokenSource")
	}
}
