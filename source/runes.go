package source

import "io"

// RuneSource is a Source over the decoded runes of an input. Position p
// addresses the rune at index p, not the byte offset it came from.
type RuneSource struct {
	runes []rune
}

// NewRuneSource reads r to completion, decoding it as UTF-8.
func NewRuneSource(r io.Reader) (*RuneSource, error) {
	rs, err := decodeRunes(r)
	if err != nil {
		return nil, err
	}
	return &RuneSource{runes: rs}, nil
}

// NewRuneSliceSource wraps an already-decoded rune slice.
func NewRuneSliceSource(rs []rune) *RuneSource {
	return &RuneSource{runes: rs}
}

// NewStringSource is a convenience constructor over a string's runes.
func NewStringSource(s string) *RuneSource {
	return &RuneSource{runes: []rune(s)}
}

func (s *RuneSource) Start() Position { return 0 }

func (s *RuneSource) AtEnd(p Position) bool { return int(p) >= len(s.runes) }

func (s *RuneSource) Next(p Position) (rune, Position) {
	return s.runes[p], p + 1
}
