package keyspace

import (
	"testing"

	"github.com/cespare/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s Space, p Partition) []string {
	e := NewEnumerator(s, p)
	var out []string
	for cand, ok := e.Next(); ok; cand, ok = e.Next() {
		out = append(out, cand)
	}
	return out
}

func TestEnumeratorLexicographicOrder(t *testing.T) {
	s, _ := NewSpace("abc", 2)
	got := collect(s, Partition{Prefixes: []byte(s.Alphabet)})
	assert.Equal(t, []string{"aa", "ab", "ac", "ba", "bb", "bc", "ca", "cb", "cc"}, got)
}

func TestEnumeratorSinglePrefix(t *testing.T) {
	s, _ := NewSpace("abc", 2)
	got := collect(s, Partition{Prefixes: []byte("b")})
	assert.Equal(t, []string{"ba", "bb", "bc"}, got)
}

func TestEnumeratorLengthOne(t *testing.T) {
	s, _ := NewSpace("xyz", 1)
	got := collect(s, Partition{Prefixes: []byte("zx")})
	// Length one means the prefix is the whole candidate, in the order
	// the prefixes were assigned.
	assert.Equal(t, []string{"z", "x"}, got)
}

func TestEnumeratorEmptyPartition(t *testing.T) {
	s, _ := NewSpace("abc", 2)
	got := collect(s, Partition{})
	assert.Empty(t, got)
}

func TestEnumeratorRestartsFromBeginning(t *testing.T) {
	s, _ := NewSpace("ab", 3)
	p := Partition{Prefixes: []byte("a")}

	e := NewEnumerator(s, p)
	first, ok := e.Next()
	require.True(t, ok)

	// Abandon the first enumerator mid-stream; a fresh one must not
	// remember where it left off.
	e2 := NewEnumerator(s, p)
	again, ok := e2.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)
}

// Partitions must tile the whole space: every candidate exactly once, no
// matter how many workers the alphabet was dealt to.
func TestPartitionsTileSpaceExactlyOnce(t *testing.T) {
	s, _ := NewSpace("abc", 2)
	for _, n := range []int{1, 2, 3, 8} {
		seen := map[string]int{}
		for _, p := range RoundRobin(s, n) {
			for _, cand := range collect(s, p) {
				seen[cand]++
			}
		}
		require.Len(t, seen, int(s.Size()), "n=%d", n)
		for cand, count := range seen {
			require.Equal(t, 1, count, "n=%d candidate=%s", n, cand)
		}
	}
}

// Same tiling property on a space too big for a map of strings to be
// comfortable; hash every candidate instead (the 64-bit collision odds
// over ~47k values are ignorable).
func TestPartitionsTileLargerSpace(t *testing.T) {
	s, err := NewSpace(DefaultAlphabet, 3)
	require.NoError(t, err)

	seen := make(map[uint64]struct{}, s.Size())
	produced := uint64(0)
	for _, p := range RoundRobin(s, 7) {
		e := NewEnumerator(s, p)
		for cand, ok := e.Next(); ok; cand, ok = e.Next() {
			produced++
			seen[xxhash.Sum64String(cand)] = struct{}{}
		}
	}
	assert.Equal(t, s.Size(), produced)
	assert.Len(t, seen, int(s.Size()))
}
