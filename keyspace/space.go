// Package keyspace models the exhaustive search space for a fixed-length
// password: an ordered alphabet raised to a fixed length, dealt out to
// workers as first-character partitions.
package keyspace

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
)

// The door password policy: six characters, lowercase letters and digits.
const (
	DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	DefaultLength   = 6
)

var (
	ErrEmptyAlphabet     = errors.New("alphabet must not be empty")
	ErrDuplicateAlphabet = errors.New("alphabet must not contain duplicate characters")
	ErrBadLength         = errors.New("password length must be positive")
)

// Space is the full candidate space: every string of exactly Length
// characters drawn from Alphabet. Immutable for the duration of a run.
type Space struct {
	Alphabet string
	Length   int
}

// NewSpace validates the alphabet and length and returns a Space.
func NewSpace(alphabet string, length int) (Space, error) {
	if len(alphabet) == 0 {
		return Space{}, ErrEmptyAlphabet
	}
	if len(lo.Uniq([]byte(alphabet))) != len(alphabet) {
		return Space{}, ErrDuplicateAlphabet
	}
	if length <= 0 {
		return Space{}, ErrBadLength
	}
	return Space{Alphabet: alphabet, Length: length}, nil
}

// Default returns the space the door lock actually uses.
func Default() Space {
	return Space{Alphabet: DefaultAlphabet, Length: DefaultLength}
}

// Size returns |alphabet|^length, saturating at MaxUint64.
func (s Space) Size() uint64 {
	return powSat(uint64(len(s.Alphabet)), s.Length)
}

// Contains reports whether candidate is a member of this space.
func (s Space) Contains(candidate string) bool {
	if len(candidate) != s.Length {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		if !s.hasChar(candidate[i]) {
			return false
		}
	}
	return true
}

func (s Space) hasChar(c byte) bool {
	for i := 0; i < len(s.Alphabet); i++ {
		if s.Alphabet[i] == c {
			return true
		}
	}
	return false
}

func (s Space) String() string {
	return fmt.Sprintf("[%s]^%d", s.Alphabet, s.Length)
}

// Partition is a disjoint slice of a Space assigned to one worker: the
// set of first characters it owns, each expanded over every possible
// suffix. The union of all partitions' prefixes covers the alphabet
// exactly once.
type Partition struct {
	Prefixes []byte
}

// Empty reports whether the partition covers no candidates.
func (p Partition) Empty() bool {
	return len(p.Prefixes) == 0
}

// Size returns the number of candidates in this partition of s.
func (p Partition) Size(s Space) uint64 {
	suffixes := powSat(uint64(len(s.Alphabet)), s.Length-1)
	return mulSat(uint64(len(p.Prefixes)), suffixes)
}

func (p Partition) String() string {
	return string(p.Prefixes)
}

// RoundRobin deals the alphabet's characters across n partitions in
// stride order, then drops empty partitions, so requesting more workers
// than there are first characters simply yields fewer partitions.
func RoundRobin(s Space, n int) []Partition {
	if n < 1 {
		n = 1
	}
	parts := make([]Partition, n)
	for i := 0; i < len(s.Alphabet); i++ {
		b := i % n
		parts[b].Prefixes = append(parts[b].Prefixes, s.Alphabet[i])
	}
	return lo.Filter(parts, func(p Partition, _ int) bool {
		return !p.Empty()
	})
}

func powSat(base uint64, exp int) uint64 {
	size := uint64(1)
	for i := 0; i < exp; i++ {
		size = mulSat(size, base)
	}
	return size
}

func mulSat(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	prod := a * b
	if prod/b != a {
		return math.MaxUint64
	}
	return prod
}
