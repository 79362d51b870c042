package random

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Random is the source of randomness for deals, session IDs and tokens
type Random interface {
	// Intn returns a random int in [0, n); draws from the deck use it
	Intn(n int) int

	// String returns length characters picked from alphabet
	String(length int, alphabet string) string

	// ID returns a new session identifier
	ID() string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// String returns length characters picked from alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	return pick(r, length, alphabet)
}

// ID returns a random (version 4) UUID
func (r *CryptoRandom) ID() string {
	return uuid.NewString()
}

// Seeded deals reproducibly from a fixed seed. Tokens and IDs still come
// from crypto/rand so a known seed never exposes a session.
type Seeded struct {
	mu     sync.Mutex
	rng    *mrand.Rand
	crypto CryptoRandom
}

// NewSeeded creates a Seeded source
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewPCG(seed, seed))}
}

// Intn returns the next int in [0, n) from the seeded stream
func (r *Seeded) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// String returns crypto-random characters from alphabet
func (r *Seeded) String(length int, alphabet string) string {
	return r.crypto.String(length, alphabet)
}

// ID returns a random (version 4) UUID
func (r *Seeded) ID() string {
	return r.crypto.ID()
}

func pick(r Random, length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
