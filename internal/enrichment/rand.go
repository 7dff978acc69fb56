package enrichment

// splitMix64 is Steele, Lea and Flood's SplitMix64 generator. Its output
// sequence is fully determined by the seed, independent of Go version.
type splitMix64 struct {
	state uint64
}

func newSplitMix64(seed uint64) *splitMix64 {
	return &splitMix64{state: seed}
}

func (s *splitMix64) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a value in [0, 1) built from the top 53 bits
func (s *splitMix64) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}
