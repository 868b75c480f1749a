/*package rand provides the pseudorandom number streams used during particle
transport.

Every particle owns an independent Stream derived from the master seed by
seeking a fixed stride down a single linear congruential sequence. Because
seeking is cheap, the draws consumed by a particle depend only on its id and
never on how many other particles are being transported concurrently, which
keeps results bit-identical across worker counts.
*/
package rand

// Constants of the 63-bit linear congruential generator. The period of the
// sequence is 2^63.
const (
	multiplier uint64 = 2806196910506780709
	increment  uint64 = 1
	mask       uint64 = (1 << 63) - 1

	// Stride is the number of draws reserved for each particle history.
	Stride = 152917

	norm = 1.0 / (1 << 63)
)

// Stream is a seekable uniform [0, 1) generator. The zero value is not
// usable; construct Streams with New. A Stream must not be shared
// between goroutines.
type Stream struct {
	master uint64
	state  uint64
}

// New returns a Stream positioned at the start of the sequence defined by
// the given master seed.
func New(seed uint64) *Stream {
	s := &Stream{}
	s.Init(seed)
	return s
}

// Init repositions an existing Stream at the start of the sequence defined
// by the given master seed.
func (s *Stream) Init(seed uint64) {
	s.master = seed & mask
	s.state = s.master
}

// Float64 returns the next uniform variate in [0, 1).
func (s *Stream) Float64() float64 {
	s.state = (multiplier*s.state + increment) & mask
	return float64(s.state) * norm
}

// Uniform returns the next variate scaled to [low, high).
func (s *Stream) Uniform(low, high float64) float64 {
	return low + (high-low)*s.Float64()
}

// UniformInt returns an integer drawn uniformly from [0, n).
func (s *Stream) UniformInt(n int) int {
	return int(s.Float64() * float64(n))
}

// Skip seeks the stream n draws forward from its current position without
// generating the intervening variates. The seek runs in O(log n) using the
// standard power-of-two decomposition of the congruence
//
//	state -> g^n * state + c (g^n - 1) / (g - 1)
//
// so particle streams can be positioned directly regardless of processing
// order.
func (s *Stream) Skip(n uint64) *Stream {
	g, c := multiplier, increment
	gNew, cNew := uint64(1), uint64(0)

	for n > 0 {
		if n&1 == 1 {
			gNew = (gNew * g) & mask
			cNew = (cNew*g + c) & mask
		}
		c = ((g + 1) * c) & mask
		g = (g * g) & mask
		n >>= 1
	}

	s.state = (gNew*s.state + cNew) & mask
	return s
}

// ParticleStream returns a fresh Stream for the particle history with the
// given id, seeded from the master seed of s. Histories are spaced Stride
// draws apart.
func (s *Stream) ParticleStream(id int64) *Stream {
	p := New(s.master)
	p.Skip(uint64(id) * Stride)
	return p
}
