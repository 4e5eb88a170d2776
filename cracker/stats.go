package cracker

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// RunStats summarizes a finished run.
type RunStats struct {
	Attempts uint64
	Elapsed  time.Duration
	// Rate is the overall attempts per second across the whole run.
	Rate float64

	// RateSamples holds the per-interval rates observed at each
	// progress report, for the post-run summary and histogram.
	RateSamples []float64
	RateMean    float64
	RateStdev   float64
	RateMedian  float64
}

type rateStats struct {
	samples []float64
}

func (r *rateStats) sample(v float64) {
	r.samples = append(r.samples, v)
}

func (r *rateStats) finalize(attempts uint64, elapsed time.Duration) RunStats {
	st := RunStats{Attempts: attempts, Elapsed: elapsed, RateSamples: r.samples}
	if secs := elapsed.Seconds(); secs > 0 {
		st.Rate = float64(attempts) / secs
	}
	if len(r.samples) > 0 {
		st.RateMean = stat.Mean(r.samples, nil)
		sorted := slices.Clone(r.samples)
		slices.Sort(sorted)
		st.RateMedian = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	if len(r.samples) > 1 {
		_, st.RateStdev = stat.MeanStdDev(r.samples, nil)
	}
	return st
}
