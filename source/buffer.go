package source

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// decodeRunes reads r to completion and decodes it as a sequence of runes,
// gluing partial multi-byte runes that straddle a buffered read the same
// way the teacher's Buffer.peekRunes did, except it runs once over the
// whole input rather than incrementally from an arbitrary offset.
func decodeRunes(r io.Reader) ([]rune, error) {
	br := bufio.NewReader(r)
	out := make([]rune, 0, br.Size())
	var glued []byte

	for {
		b, err := br.Peek(1)
		if len(b) == 0 {
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			break
		}

		if b[0] < utf8.RuneSelf {
			out = append(out, rune(b[0]))
			_, _ = br.Discard(1)
			continue
		}

		glued = glued[:0]
		for i := 1; i <= utf8.UTFMax; i++ {
			peeked, perr := br.Peek(i)
			glued = append(glued[:0], peeked...)
			if utf8.FullRune(glued) {
				break
			}
			if perr != nil {
				// EOF with a truncated rune: decode whatever is left.
				break
			}
		}

		rn, n := utf8.DecodeRune(glued)
		out = append(out, rn)
		_, _ = br.Discard(n)
	}

	return out, nil
}
