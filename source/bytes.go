package source

import "io"

// ByteSource is a Source over the raw bytes of an input. Position p
// addresses the byte at index p.
type ByteSource struct {
	bytes []byte
}

// NewByteSource reads r to completion and returns a Source over its bytes.
func NewByteSource(r io.Reader) (*ByteSource, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &ByteSource{bytes: bs}, nil
}

// NewByteSliceSource wraps an already-read byte slice, avoiding a copy.
func NewByteSliceSource(bs []byte) *ByteSource {
	return &ByteSource{bytes: bs}
}

func (s *ByteSource) Start() Position { return 0 }

func (s *ByteSource) AtEnd(p Position) bool { return int(p) >= len(s.bytes) }

func (s *ByteSource) Next(p Position) (byte, Position) {
	return s.bytes[p], p + 1
}
