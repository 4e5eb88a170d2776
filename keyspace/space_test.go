package keyspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpaceValidation(t *testing.T) {
	type spacetest struct {
		alphabet string
		length   int
		wantErr  error
	}
	testCases := []spacetest{
		{"abc", 2, nil},
		{DefaultAlphabet, DefaultLength, nil},
		{"", 3, ErrEmptyAlphabet},
		{"aba", 3, ErrDuplicateAlphabet},
		{"abc", 0, ErrBadLength},
		{"abc", -1, ErrBadLength},
	}
	for _, tc := range testCases {
		_, err := NewSpace(tc.alphabet, tc.length)
		assert.Equal(t, tc.wantErr, err, "alphabet=%q length=%d", tc.alphabet, tc.length)
	}
}

func TestSpaceSize(t *testing.T) {
	s, err := NewSpace("abc", 2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(9), s.Size())

	assert.Equal(t, uint64(36*36*36*36*36*36), Default().Size())
}

func TestSpaceContains(t *testing.T) {
	s, _ := NewSpace("abc", 2)
	assert.True(t, s.Contains("bc"))
	assert.False(t, s.Contains("b"))
	assert.False(t, s.Contains("bcd"))
	assert.False(t, s.Contains("bz"))
}

func TestRoundRobinCoversAlphabetOnce(t *testing.T) {
	s, _ := NewSpace("abcde", 3)
	for _, n := range []int{1, 2, len(s.Alphabet), len(s.Alphabet) + 5} {
		parts := RoundRobin(s, n)

		seen := map[byte]int{}
		for _, p := range parts {
			assert.False(t, p.Empty())
			for _, c := range p.Prefixes {
				seen[c]++
			}
		}
		assert.Len(t, seen, len(s.Alphabet), "n=%d", n)
		for c, count := range seen {
			assert.Equal(t, 1, count, "n=%d prefix=%c", n, c)
		}

		want := n
		if want > len(s.Alphabet) {
			want = len(s.Alphabet)
		}
		assert.Len(t, parts, want, "n=%d", n)
	}
}

func TestRoundRobinStrideOrder(t *testing.T) {
	s, _ := NewSpace("abcde", 2)
	parts := RoundRobin(s, 2)
	assert.Equal(t, "ace", parts[0].String())
	assert.Equal(t, "bd", parts[1].String())
}

func TestPartitionSize(t *testing.T) {
	s, _ := NewSpace("abc", 2)
	parts := RoundRobin(s, 2)
	// "ac" gets 2*3 candidates, "b" gets 1*3.
	assert.Equal(t, uint64(6), parts[0].Size(s))
	assert.Equal(t, uint64(3), parts[1].Size(s))

	total := uint64(0)
	for _, p := range parts {
		total += p.Size(s)
	}
	assert.Equal(t, s.Size(), total)
}
