package archive

import (
	"errors"
	"os"

	"github.com/yeka/zip"
)

// VerdictCode classifies one password attempt against one entry. The set
// is closed on purpose: the engine switches on it and must never have to
// interpret raw library errors.
type VerdictCode int

const (
	// Match: the entry decrypted, decompressed and checksummed cleanly.
	Match VerdictCode = iota
	// Mismatch: the password is wrong. Expected and frequent.
	Mismatch
	// Unsupported: the archive uses a scheme the zip library cannot
	// handle. No password can ever verify, so the whole run is futile.
	Unsupported
	// Transient: an I/O problem unrelated to the password. Retryable.
	Transient
)

func (c VerdictCode) String() string {
	switch c {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case Unsupported:
		return "unsupported"
	case Transient:
		return "transient"
	}
	return "unknown"
}

// Verdict is the outcome of verifying a single candidate password.
// Detail is only set for Unsupported and Transient.
type Verdict struct {
	Code   VerdictCode
	Detail string
}

func classify(err error) Verdict {
	switch {
	case err == nil:
		return Verdict{Code: Match}
	case errors.Is(err, zip.ErrAlgorithm):
		return Verdict{Code: Unsupported, Detail: err.Error()}
	case errors.Is(err, zip.ErrDecryption), errors.Is(err, zip.ErrChecksum):
		return Verdict{Code: Mismatch}
	default:
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return Verdict{Code: Transient, Detail: err.Error()}
		}
		// A wrong key turns the compressed stream into garbage, which
		// surfaces as corrupt-input errors from the decompressor rather
		// than as one of the zip sentinels.
		return Verdict{Code: Mismatch}
	}
}
