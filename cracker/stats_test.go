package cracker

import (
	"math"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestRateStatsFinalize(t *testing.T) {
	is := is.New(t)
	r := &rateStats{}
	r.sample(100)
	r.sample(200)
	r.sample(300)
	st := r.finalize(600, 3*time.Second)
	is.Equal(st.Attempts, uint64(600))
	is.Equal(st.Rate, 200.0)
	is.Equal(st.RateMean, 200.0)
	is.Equal(st.RateMedian, 200.0)
	is.Equal(st.RateStdev, 100.0)
}

func TestRateStatsEmptyRun(t *testing.T) {
	is := is.New(t)
	r := &rateStats{}
	st := r.finalize(0, 0)
	is.Equal(st.Attempts, uint64(0))
	is.Equal(st.Rate, 0.0)
	is.Equal(len(st.RateSamples), 0)
}

func TestOutcomeKindStrings(t *testing.T) {
	is := is.New(t)
	is.Equal(Found.String(), "found")
	is.Equal(Unsupported.String(), "unsupported")
	is.Equal(WorkerError.String(), "worker-error")
	is.Equal(Exhausted.String(), "exhausted")
}

func TestSearchETA(t *testing.T) {
	is := is.New(t)
	is.Equal(searchETA(1000, 0, 100), "10s")
	is.Equal(searchETA(1000, 400, 100), "6s")
	is.Equal(searchETA(7200*50, 0, 50), "2h0m0s")
	is.Equal(searchETA(1000, 0, 0), "?")
	is.Equal(searchETA(1000, 1000, 100), "?")
	is.Equal(searchETA(math.MaxUint64, 0, 0.5), "?")
}
