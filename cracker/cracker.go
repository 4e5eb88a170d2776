package cracker

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sowon-dev/doorhack/archive"
	"github.com/sowon-dev/doorhack/config"
	"github.com/sowon-dev/doorhack/keyspace"
)

const (
	// pollTimeout is the longest the engine sleeps between looks at the
	// progress and result channels.
	pollTimeout = 100 * time.Millisecond
	// joinTimeout bounds the wait for workers to notice cancellation.
	joinTimeout = 1 * time.Second
	// progressDepth is the progress channel capacity. A full channel
	// briefly blocks producers, which is the backpressure we want.
	progressDepth = 256
)

var msgPrinter = message.NewPrinter(language.English)

// Engine runs one exhaustive search over an encrypted archive. Build it
// with NewEngine, adjust with the setters, then call Run once.
type Engine struct {
	space keyspace.Space

	archivePath    string
	workers        int
	batchSize      uint64
	reportInterval time.Duration
	credentialFile string
	extractDir     string

	newChecker  CheckerFactory
	traceStream io.Writer

	total atomic.Uint64
}

// NewEngine builds an engine from the loaded configuration. The search
// space defaults to every lowercase-plus-digit string of length six.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		space:          keyspace.Default(),
		archivePath:    cfg.GetString(config.ConfigArchive),
		workers:        cfg.GetInt(config.ConfigWorkers),
		batchSize:      uint64(cfg.GetInt(config.ConfigReportEvery)),
		reportInterval: time.Duration(cfg.GetFloat64(config.ConfigReportInterval) * float64(time.Second)),
		credentialFile: cfg.GetString(config.ConfigCredentialFile),
		extractDir:     cfg.GetString(config.ConfigExtractDir),
	}
}

// SetSpace replaces the search space.
func (e *Engine) SetSpace(s keyspace.Space) {
	e.space = s
}

// SetCheckerFactory replaces how workers reach the archive. The default
// factory opens a fresh handle on the configured archive per worker.
func (e *Engine) SetCheckerFactory(f CheckerFactory) {
	e.newChecker = f
}

// SetTraceStream directs a per-batch YAML trace of the search to l.
func (e *Engine) SetTraceStream(l io.Writer) {
	e.traceStream = l
}

// Run executes the search until a terminal outcome. It returns an error
// for setup problems (archive missing, empty or unreadable) and for
// failures persisting a found password; search failures such as an
// unsupported scheme or an exhausted space are reported in the Result,
// not as errors.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if e.workers < 1 {
		e.workers = 1
	}
	if e.batchSize < 1 {
		e.batchSize = 1
	}

	vault, err := archive.Open(e.archivePath)
	if err != nil {
		return nil, err
	}
	defer vault.Close()

	target, err := vault.SmallestEntry()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", vault.Path(), err)
	}

	parts := keyspace.RoundRobin(e.space, e.workers)
	size := e.space.Size()

	logger.Info().
		Int("cores", runtime.NumCPU()).
		Int("workers", len(parts)).
		Str("memory", fmt.Sprintf("%.1f GiB", float64(memory.TotalMemory())/(1<<30))).
		Str("target-entry", target.Name).
		Str("space", e.space.String()).
		Msgf("searching %s candidates in %s", msgPrinter.Sprintf("%d", size), vault.Path())

	factory := e.newChecker
	if factory == nil {
		factory = func(int) (Checker, error) {
			return openChecker(e.archivePath, target.Name)
		}
	}

	// All checkers are opened before any worker starts, so a bad
	// archive fails the run without a partial search.
	checkers := make([]Checker, len(parts))
	for i := range parts {
		c, err := factory(i)
		if err != nil {
			closeCheckers(checkers[:i])
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		checkers[i] = c
	}
	defer closeCheckers(checkers)

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := make(chan uint64, progressDepth)
	results := make(chan Outcome, len(parts))
	logChan := make(chan []byte)
	done := make(chan bool)

	writer := errgroup.Group{}
	if e.traceStream != nil {
		writer.Go(func() error {
			for {
				select {
				case bytes := <-logChan:
					e.traceStream.Write(bytes)
				case <-done:
					return nil
				}
			}
		})
	}

	e.total.Store(0)
	start := time.Now()

	g := errgroup.Group{}
	for i, p := range parts {
		w := &worker{
			id:        i,
			space:     e.space,
			part:      p,
			checker:   checkers[i],
			batchSize: e.batchSize,
			progress:  progress,
			results:   results,
			cancel:    cancel,
		}
		if e.traceStream != nil {
			w.logChan = logChan
		}
		g.Go(func() error { return w.run(searchCtx) })
	}

	joined := make(chan bool, 1)
	go func() {
		g.Wait()
		joined <- true
	}()

	stats := &rateStats{}
	var outcome *Outcome
	var interrupted, allDone bool
	lastReport := start
	var reported uint64

poll:
	for {
		e.drain(progress)

		select {
		case o := <-results:
			outcome = &o
			cancel()
			break poll
		case n := <-progress:
			e.total.Add(n)
		case <-joined:
			allDone = true
			break poll
		case <-ctx.Done():
			interrupted = true
			cancel()
			break poll
		case <-time.After(pollTimeout):
		}

		if time.Since(lastReport) >= e.reportInterval {
			now := time.Now()
			total := e.total.Load()
			if total != reported {
				rate := float64(total-reported) / now.Sub(lastReport).Seconds()
				stats.sample(rate)
				logger.Info().Msgf("%s attempts (%.2f%%) | %.1fs elapsed | %s/s | eta %s",
					msgPrinter.Sprintf("%d", total),
					float64(total)/float64(size)*100,
					now.Sub(start).Seconds(),
					msgPrinter.Sprintf("%.0f", rate),
					searchETA(size, total, rate))
				reported = total
			}
			lastReport = now
		}
	}

	// Keep draining while the workers wind down so the final count
	// includes their last flushed batches. Cancellation is cooperative;
	// a worker stuck mid-verification is tolerated, not forced.
	if !allDone {
		deadline := time.NewTimer(joinTimeout)
		defer deadline.Stop()
	join:
		for {
			select {
			case n := <-progress:
				e.total.Add(n)
			case <-joined:
				allDone = true
				break join
			case <-deadline.C:
				logger.Warn().Msg("timed out waiting for workers to stop")
				break join
			}
		}
	}
	e.drain(progress)

	// A worker that finds the password on its very last candidate races
	// its own exit: the join can win the poll over the result message.
	// One last look at the result channel settles it.
	if outcome == nil {
		select {
		case o := <-results:
			outcome = &o
		default:
		}
	}

	// The trace writer can exit now that the workers have.
	if e.traceStream != nil {
		close(done)
		writer.Wait()
	}

	elapsed := time.Since(start)
	total := e.total.Load()
	st := stats.finalize(total, elapsed)
	logger.Info().Msgf("%s attempts in %.1fs (%s/s overall)",
		msgPrinter.Sprintf("%d", total),
		elapsed.Seconds(),
		msgPrinter.Sprintf("%.0f", st.Rate))
	if len(st.RateSamples) > 1 {
		logger.Info().Msgf("rate over %d intervals: mean %s/s, median %s/s, stdev %s",
			len(st.RateSamples),
			msgPrinter.Sprintf("%.0f", st.RateMean),
			msgPrinter.Sprintf("%.0f", st.RateMedian),
			msgPrinter.Sprintf("%.0f", st.RateStdev))
	}

	if interrupted {
		logger.Warn().Msgf("interrupted after %s attempts", msgPrinter.Sprintf("%d", total))
		return nil, ctx.Err()
	}

	res := &Result{Stats: st}
	if outcome != nil {
		res.Kind = outcome.Kind
		res.Candidate = outcome.Candidate
		res.Detail = outcome.Detail
	} else {
		res.Kind = Exhausted
	}

	switch res.Kind {
	case Found:
		logger.Info().Int("worker", outcome.Worker).Str("password", res.Candidate).
			Msg("password found")
		if err := e.persist(logger, res.Candidate, vault); err != nil {
			return res, err
		}
	case Unsupported:
		logger.Error().Msgf("archive scheme unsupported, nothing to search for: %s", res.Detail)
	case WorkerError:
		logger.Error().Int("worker", outcome.Worker).Msgf("worker failed: %s", res.Detail)
	case Exhausted:
		logger.Warn().Msgf("search space exhausted; the password is not a member of %s", e.space)
	}
	return res, nil
}

// drain consumes every progress delta currently queued without
// blocking.
func (e *Engine) drain(progress <-chan uint64) {
	for {
		select {
		case n := <-progress:
			e.total.Add(n)
		default:
			return
		}
	}
}

// persist writes the recovered password next to the archive's extracted
// contents. An error here still leaves the password in the Result.
func (e *Engine) persist(logger *zerolog.Logger, password string, vault *archive.Vault) error {
	if err := os.WriteFile(e.credentialFile, []byte(password+"\n"), 0644); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	logger.Info().Str("file", e.credentialFile).Msg("credential saved")
	if err := vault.ExtractAll(password, e.extractDir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}
	logger.Info().Str("dir", e.extractDir).Msg("archive extracted")
	return nil
}

// searchETA estimates time to cover the rest of the space at the current
// rate. A worst-case figure: the password is usually found well before
// the space runs out.
func searchETA(size, done uint64, rate float64) string {
	if rate <= 0 || done >= size {
		return "?"
	}
	secs := float64(size-done) / rate
	if secs >= float64(math.MaxInt64)/float64(time.Second) {
		return "?"
	}
	return time.Duration(secs * float64(time.Second)).Round(time.Second).String()
}

func closeCheckers(checkers []Checker) {
	for _, c := range checkers {
		if closer, ok := c.(io.Closer); ok {
			closer.Close()
		}
	}
}
