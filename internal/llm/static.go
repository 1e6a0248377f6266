package llm

// StaticStream serves fragments that are already in memory. Providers use it
// to expose a non-streaming response through the FragmentStream contract.
type StaticStream struct {
	fragments []string
	pos       int
	err       error
	closed    bool
}

func NewStaticStream(fragments ...string) *StaticStream {
	return &StaticStream{fragments: fragments, pos: -1}
}

// FailAfter makes the stream report err once the fragments are exhausted.
func (s *StaticStream) FailAfter(err error) *StaticStream {
	s.err = err
	return s
}

func (s *StaticStream) Next() bool {
	if s.closed || s.pos+1 >= len(s.fragments) {
		return false
	}
	s.pos++
	return true
}

func (s *StaticStream) Fragment() string {
	if s.pos < 0 || s.pos >= len(s.fragments) {
		return ""
	}
	return s.fragments[s.pos]
}

func (s *StaticStream) Err() error {
	return s.err
}

func (s *StaticStream) Close() error {
	s.closed = true
	return nil
}

func (s *StaticStream) Closed() bool {
	return s.closed
}
