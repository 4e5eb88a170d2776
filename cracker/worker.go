package cracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sowon-dev/doorhack/archive"
	"github.com/sowon-dev/doorhack/keyspace"
)

// maxConsecutiveTransients is how many transient archive errors in a
// row a worker tolerates before declaring itself broken.
const maxConsecutiveTransients = 50

// flushGrace bounds how long an exiting worker waits to deliver a final
// message once the engine may have stopped draining.
const flushGrace = 500 * time.Millisecond

// worker grinds through one partition of the search space.
type worker struct {
	id        int
	space     keyspace.Space
	part      keyspace.Partition
	checker   Checker
	batchSize uint64

	progress chan<- uint64
	results  chan<- Outcome
	cancel   context.CancelFunc
	logChan  chan []byte

	total uint64
}

// run tries every candidate in the worker's partition until one of the
// terminal conditions hits or the shared context is cancelled. All
// failures are reported as Outcome messages; run itself never returns
// an error.
func (w *worker) run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	var batch uint64
	var last string
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Int("worker", w.id).Msgf("worker panicked: %v", r)
			w.post(ctx, batch, last)
			w.results <- Outcome{Kind: WorkerError, Detail: fmt.Sprintf("panic: %v", r), Worker: w.id}
			w.cancel()
		}
	}()

	enum := keyspace.NewEnumerator(w.space, w.part)
	transients := 0
	for {
		select {
		case <-ctx.Done():
			w.post(ctx, batch, last)
			return nil
		default:
		}

		cand, ok := enum.Next()
		if !ok {
			// Partition exhausted without a match. No result message;
			// the engine reads silence from a finished worker as
			// exhaustion.
			w.post(ctx, batch, last)
			return nil
		}

		// The attempt counts even if the verify call never returns.
		batch++
		last = cand
		verdict := w.checker.Check(cand)

		switch verdict.Code {
		case archive.Mismatch:
			transients = 0
			if batch >= w.batchSize {
				w.post(ctx, batch, last)
				batch = 0
			}
		case archive.Match:
			w.post(ctx, batch, last)
			w.results <- Outcome{Kind: Found, Candidate: cand, Worker: w.id}
			w.cancel()
			return nil
		case archive.Unsupported:
			w.post(ctx, batch, last)
			w.results <- Outcome{Kind: Unsupported, Detail: verdict.Detail, Worker: w.id}
			w.cancel()
			return nil
		case archive.Transient:
			transients++
			logger.Warn().Int("worker", w.id).Str("candidate", cand).
				Msgf("transient archive error: %s", verdict.Detail)
			if transients >= maxConsecutiveTransients {
				w.post(ctx, batch, last)
				w.results <- Outcome{
					Kind:   WorkerError,
					Detail: fmt.Sprintf("%d consecutive archive errors, last: %s", transients, verdict.Detail),
					Worker: w.id,
				}
				w.cancel()
				return nil
			}
		}
	}
}

// post delivers a progress delta, blocking for backpressure while the
// run is live. After cancellation the engine keeps draining only
// briefly; if it has stopped, the delta is dropped rather than hang the
// worker forever.
func (w *worker) post(ctx context.Context, n uint64, last string) {
	if n == 0 {
		return
	}
	w.total += n
	select {
	case w.progress <- n:
	case <-ctx.Done():
		select {
		case w.progress <- n:
		case <-time.After(flushGrace):
			return
		}
	}
	w.trace(ctx, n, last)
}

// trace logs one batch to the trace stream, if there is one.
func (w *worker) trace(ctx context.Context, n uint64, last string) {
	if w.logChan == nil {
		return
	}
	lb := LogBatch{
		Worker:   w.id,
		Prefixes: w.part.String(),
		Last:     last,
		Attempts: n,
		Total:    w.total,
	}
	out, err := yaml.Marshal([]LogBatch{lb})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("marshalling trace batch")
		return
	}
	select {
	case w.logChan <- out:
	case <-time.After(flushGrace):
	}
}
