package probe

import "testing"

func TestSamplerToggles(t *testing.T) {
	var s Sampler
	for _, bit := range []bool{false, false, true, true, false, true} {
		s.Observe(bit)
	}
	if got := s.Toggles(); got != 3 {
		t.Errorf("Toggles() = %d, want 3", got)
	}
	// Six observations occupy the top six bits, newest at bit 31.
	if got := s.Word() >> 26; got != 0b101100 {
		t.Errorf("Word()>>26 = %06b, want 101100", got)
	}
}

func TestSamplerFullWord(t *testing.T) {
	const id = 0x4BA00477
	var s Sampler
	for i := 0; i < 32; i++ {
		s.Observe(id>>uint(i)&1 == 1)
	}
	if got := s.Word(); got != id {
		t.Errorf("Word() = 0x%08X, want 0x%08X", got, uint32(id))
	}
}

func TestSamplerZeroValue(t *testing.T) {
	var s Sampler
	if s.Toggles() != 0 || s.Word() != 0 {
		t.Errorf("zero Sampler reports toggles=%d word=0x%08X", s.Toggles(), s.Word())
	}
	s.Observe(true)
	if s.Toggles() != 1 {
		t.Errorf("first high sample should count one toggle, got %d", s.Toggles())
	}
}
