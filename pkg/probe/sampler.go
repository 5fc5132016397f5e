package probe

// Sampler accumulates line activity while a trial clocks the target. It
// tracks the previous sample and a toggle counter, and builds a 32-bit word
// by shifting right and inserting each new bit at the most-significant
// position, so the first bit of an LSB-first register shift-out lands at
// bit 0 once 32 samples are in.
//
// The zero value is ready to use; each candidate trial starts with a fresh
// Sampler so no activity leaks between trials.
type Sampler struct {
	prev    bool
	toggles int
	word    uint32
}

// Observe records one sample taken after a clock pulse.
func (s *Sampler) Observe(bit bool) {
	if bit != s.prev {
		s.toggles++
	}
	s.prev = bit
	s.word >>= 1
	if bit {
		s.word |= 1 << 31
	}
}

// Toggles reports how many samples differed from their predecessor.
func (s *Sampler) Toggles() int {
	return s.toggles
}

// Word returns the accumulated capture. It is only fully aligned after 32
// observations; shorter windows leave the older bits at the top.
func (s *Sampler) Word() uint32 {
	return s.word
}
