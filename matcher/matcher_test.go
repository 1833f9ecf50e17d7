package matcher_test

import (
	"fmt"
	"testing"

	"github.com/zostay/trample"
	"github.com/zostay/trample/matcher"
	"github.com/zostay/trample/policy"
	"github.com/zostay/trample/result"
	"github.com/zostay/trample/source"
	"github.com/zostay/trample/token"
)

func policyRestricted() *policy.RestrictedBacktracking[byte] {
	return policy.NewRestrictedBacktracking[byte]()
}

func byteLit(t token.Tag, s string) *matcher.Literal[byte] {
	return matcher.NewLiteral[byte](t, []byte(s)...)
}

func byteSrc(s string) source.Source[byte] {
	return source.NewByteSliceSource([]byte(s))
}

// TestOptionalMatched checks that an Optional wrapping a matching child
// produces the Optional's own tag with the child's result as its single
// submatch, not the empty-match tag.
func TestOptionalMatched(t *testing.T) {
	tHyphen := token.NextTag()
	tOpt := token.NextTag()

	g := matcher.NewOptional[byte](tOpt, byteLit(tHyphen, "-"))
	out, _, err := trample.Parse[byte](g, byteSrc("-"), nil, trample.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := out.Result.(*result.Result)
	if r.Tag != tOpt {
		t.Errorf("tag = %v, want %v", r.Tag, tOpt)
	}
	if len(r.Submatch) != 1 {
		t.Fatalf("expected 1 submatch, got %d", len(r.Submatch))
	}
}

// TestOptionalUnmatched checks that an Optional wrapping a non-matching
// child still succeeds, consuming nothing and reporting token.None.
func TestOptionalUnmatched(t *testing.T) {
	tHyphen := token.NextTag()
	tOpt := token.NextTag()

	g := matcher.NewOptional[byte](tOpt, byteLit(tHyphen, "-"))
	out, _, err := trample.Parse[byte](g, byteSrc("5"), nil, trample.Options{RequireFullInput: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := out.Result.(*result.Result)
	if r.Tag != token.None {
		t.Errorf("tag = %v, want token.None", r.Tag)
	}
	if int(out.Pos) != 0 {
		t.Errorf("pos = %d, want 0 (Optional must not consume on the empty branch)", out.Pos)
	}
}

// TestEmptySequence checks that a Sequence with no children succeeds
// immediately without consuming input.
func TestEmptySequence(t *testing.T) {
	tEmpty := token.NextTag()
	g := matcher.NewSequence[byte](tEmpty)
	out, _, err := trample.Parse[byte](g, byteSrc(""), nil, trample.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int(out.Pos) != 0 {
		t.Errorf("pos = %d, want 0", out.Pos)
	}
}

// TestTryLiftsCut checks that wrapping a choice's risky alternative in Try
// suspends RestrictedBacktracking's commit-once-progressed rule for that
// alternative: it may consume input and then fail without preventing the
// enclosing Choice from trying its next alternative. Without Try, the same
// alternative's partial progress commits the choice and the parse fails
// outright instead of reaching the second alternative.
func TestTryLiftsCut(t *testing.T) {
	tA, tB, tC, tSeq := token.NextTag(), token.NextTag(), token.NextTag(), token.NextTag()

	risky := func() matcher.Matcher[byte] {
		return matcher.NewSequence[byte](tSeq, byteLit(tA, "a"), byteLit(tB, "X"))
	}

	withTry := matcher.NewChoice[byte](matcher.NewTry[byte](risky()), byteLit(tC, "ac"))
	out, _, err := trample.Parse[byte](withTry, byteSrc("ac"), policyRestricted(), trample.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error with Try lifting the cut: %v", err)
	}
	if int(out.Pos) != 2 {
		t.Errorf("pos = %d, want 2", out.Pos)
	}

	withoutTry := matcher.NewChoice[byte](risky(), byteLit(tC, "ac"))
	_, _, err = trample.Parse[byte](withoutTry, byteSrc("ac"), policyRestricted(), trample.DefaultOptions())
	if err == nil {
		t.Fatal("expected a ParseFailure: without Try, the first alternative's partial progress commits the choice")
	}
}

// TestFreezeCatchesUnresolvedReference checks that Freeze panics when a
// name passed to Ref was never Defined, so a typo'd rule name fails loudly
// at grammar-construction time rather than only surfacing as a
// GrammarError the first time a parse actually reaches that Reference.
func TestFreezeCatchesUnresolvedReference(t *testing.T) {
	g := matcher.NewGrammar[byte]()
	g.Define("S", matcher.Ref[byte](g, "Typo'd"))

	defer func() {
		if recover() == nil {
			t.Fatal("expected Freeze to panic on an unresolved reference")
		}
	}()
	g.Freeze()
}

// Example_phoneNumber demonstrates a small grammar built only from
// in-core-scope matchers (no character-class DSL), in the spirit of the
// teacher's phone-number/email Example.
func Example_phoneNumber() {
	var (
		tDigit = token.NextTag()
		tArea  = token.NextTag()
		tLocal = token.NextTag()
		tLast  = token.NextTag()
		tHy    = token.NextTag()
		tPhone = token.NextTag()
	)

	digit := func() matcher.Matcher[byte] {
		alts := make([]matcher.Matcher[byte], 10)
		for i := 0; i < 10; i++ {
			alts[i] = byteLit(tDigit, fmt.Sprint(i))
		}
		return matcher.NewChoice[byte](alts...)
	}

	nDigits := func(tag token.Tag, n int) matcher.Matcher[byte] {
		return matcher.NewRepeat[byte](tag, digit(), n, n, true)
	}

	hyphen := matcher.NewOptional[byte](tHy, byteLit(tHy, "-"))

	phoneNumber := matcher.NewSequence[byte](tPhone,
		nDigits(tArea, 3), hyphen, nDigits(tLocal, 3), hyphen, nDigits(tLast, 4),
	)

	out, _, err := trample.Parse[byte](phoneNumber, byteSrc("555-555-5555"), nil, trample.DefaultOptions())
	if err != nil {
		panic(err)
	}
	fmt.Printf("matched %d\n", out.Pos)
	// Output:
	// matched 12
}
