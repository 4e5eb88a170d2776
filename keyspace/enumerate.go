package keyspace

// Enumerator walks one partition of a space in deterministic order: for
// each assigned first character, every suffix in lexicographic alphabet
// order. It is pull-based so the caller can abandon the sequence between
// any two candidates; a fresh Enumerator always restarts from the
// beginning of its partition.
type Enumerator struct {
	space     Space
	prefixes  []byte
	prefixIdx int
	// suffix is an odometer of alphabet indexes for positions 1..Length-1.
	suffix  []int
	buf     []byte
	started bool
	done    bool
}

// NewEnumerator returns an enumerator over p within s.
func NewEnumerator(s Space, p Partition) *Enumerator {
	return &Enumerator{
		space:    s,
		prefixes: p.Prefixes,
		suffix:   make([]int, s.Length-1),
		buf:      make([]byte, s.Length),
	}
}

// Next returns the next candidate, or ok=false when the partition is
// exhausted.
func (e *Enumerator) Next() (candidate string, ok bool) {
	if e.done {
		return "", false
	}
	if !e.started {
		e.started = true
		if len(e.prefixes) == 0 {
			e.done = true
			return "", false
		}
		return e.fill(), true
	}
	// Advance the suffix odometer, rightmost position first.
	i := len(e.suffix) - 1
	for ; i >= 0; i-- {
		e.suffix[i]++
		if e.suffix[i] < len(e.space.Alphabet) {
			break
		}
		e.suffix[i] = 0
	}
	if i < 0 {
		// Every suffix for the current first character has been
		// produced; move on to the next assigned character.
		e.prefixIdx++
		if e.prefixIdx >= len(e.prefixes) {
			e.done = true
			return "", false
		}
	}
	return e.fill(), true
}

func (e *Enumerator) fill() string {
	e.buf[0] = e.prefixes[e.prefixIdx]
	for i, d := range e.suffix {
		e.buf[i+1] = e.space.Alphabet[d]
	}
	return string(e.buf)
}
