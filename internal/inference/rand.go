package inference

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"github.com/samcharles93/babble/internal/markov"
)

// NewRand returns the randomness source for one request. A non-negative seed
// gives a reproducible PCG stream; a negative seed draws from the operating
// system's entropy pool.
func NewRand(seed int64) markov.Rand {
	if seed >= 0 {
		return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	}
	return rand.New(entropySource{})
}

// entropySource is a rand.Source reading from crypto/rand, which never
// returns an error.
type entropySource struct{}

func (entropySource) Uint64() uint64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}
