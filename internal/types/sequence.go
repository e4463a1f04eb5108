package types

// Sequence hands out strictly increasing identifiers.
// It is owned by one simulation and is not safe for concurrent use.
type Sequence struct {
	last uint64
}

// NewSequence returns a sequence whose first Next value is last+1.
func NewSequence(last uint64) *Sequence {
	return &Sequence{last: last}
}

// Next returns the next identifier.
func (s *Sequence) Next() uint64 {
	s.last++

	return s.last
}

// Last returns the most recently issued identifier, or the seed when none was issued.
func (s *Sequence) Last() uint64 {
	return s.last
}
