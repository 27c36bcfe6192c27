package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

var ErrInvalidBound = errors.New("random bound must be positive")

// RandomSource yields uniformly distributed integers in [0, n).
type RandomSource interface {
	IntN(n int) (int, error)
}

// SecureSource draws from crypto/rand. It is safe for concurrent use.
type SecureSource struct{}

// NewSecureSource returns a RandomSource backed by crypto/rand.
func NewSecureSource() SecureSource {
	return SecureSource{}
}

func (SecureSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// SeededSource is a deterministic ChaCha8 stream. Two sources created with
// the same seed produce the same sequence.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic RandomSource for seed.
func NewSeededSource(seed uint64) *SeededSource {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return &SeededSource{rng: mrand.New(mrand.NewChaCha8(key))}
}

func (s *SeededSource) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n), nil
}
