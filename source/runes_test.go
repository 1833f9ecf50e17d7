package source_test

import (
	"io"
	"strings"
	"testing"

	"github.com/zostay/trample/source"
)

// oneByteReader wraps another reader and returns exactly one byte per Read
// call, forcing decodeRunes' glue loop (source/buffer.go) to peek and
// discard a multi-byte rune one buffered read at a time instead of seeing
// it arrive all at once, the way the teacher's Buffer.peekRunes has to
// glue a rune that straddles a read boundary.
type oneByteReader struct {
	r io.Reader
}

func (o *oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

// TestRuneSourceMultiByte checks that NewRuneSource correctly decodes a
// string mixing ASCII, a 2-byte rune, a 3-byte rune, and a 4-byte rune,
// regardless of whether the underlying reader delivers it in one Read or
// one byte at a time.
func TestRuneSourceMultiByte(t *testing.T) {
	const s = "aé世\U0001f600b" // 'a', 'é' (2 bytes), '世' (3 bytes), an emoji (4 bytes), 'b'
	want := []rune(s)

	t.Run("whole read", func(t *testing.T) {
		rs, err := source.NewRuneSource(strings.NewReader(s))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRunes(t, rs, want)
	})

	t.Run("one byte at a time", func(t *testing.T) {
		rs, err := source.NewRuneSource(&oneByteReader{r: strings.NewReader(s)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertRunes(t, rs, want)
	})
}

func assertRunes(t *testing.T, rs *source.RuneSource, want []rune) {
	t.Helper()
	p := rs.Start()
	var got []rune
	for !rs.AtEnd(p) {
		var r rune
		r, p = rs.Next(p)
		got = append(got, r)
	}
	if len(got) != len(want) {
		t.Fatalf("decoded %d runes, want %d: got %q, want %q", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rune %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestNewStringSource checks the convenience constructor decodes directly
// from a Go string without an io.Reader round trip.
func TestNewStringSource(t *testing.T) {
	rs := source.NewStringSource("héllo")
	want := []rune("héllo")
	assertRunes(t, rs, want)
}
