package cracker

import (
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/sowon-dev/doorhack/archive"
)

// Checker verifies one candidate password against the archive's target
// entry. Implementations do not need to be safe for concurrent use;
// every worker gets its own.
type Checker interface {
	Check(candidate string) archive.Verdict
}

// CheckerFactory builds the Checker for one worker. The engine calls it
// once per worker before the search starts.
type CheckerFactory func(worker int) (Checker, error)

// entryChecker is the production Checker: a privately owned archive
// handle aimed at a single entry.
type entryChecker struct {
	vault *archive.Vault
	entry string
}

func (c *entryChecker) Check(candidate string) archive.Verdict {
	return c.vault.VerifyEntry(c.entry, candidate)
}

func (c *entryChecker) Close() error {
	return c.vault.Close()
}

// openChecker opens a fresh handle on the archive for one worker. All
// workers open the same file at once at startup, so a failed open gets
// a couple of retries before it is declared fatal.
func openChecker(path, entry string) (*entryChecker, error) {
	v, err := retry.DoWithData(
		func() (*archive.Vault, error) { return archive.Open(path) },
		retry.Attempts(3),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return &entryChecker{vault: v, entry: entry}, nil
}
