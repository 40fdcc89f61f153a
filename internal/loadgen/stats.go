package loadgen

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Recorder collects request outcomes from concurrent workers.
type Recorder struct {
	mu        sync.Mutex
	latencies []time.Duration
	total     int64
	errors    int64
}

func (r *Recorder) Observe(lat time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	if err != nil {
		r.errors++
		return
	}
	r.latencies = append(r.latencies, lat)
}

type Summary struct {
	Total   int64
	Errors  int64
	Avg     time.Duration
	Min     time.Duration
	Max     time.Duration
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	RPS     float64
	Elapsed time.Duration
}

// Summary reports over successful requests; RPS counts every request.
func (r *Recorder) Summary(elapsed time.Duration) Summary {
	r.mu.Lock()
	tmp := make([]time.Duration, len(r.latencies))
	copy(tmp, r.latencies)
	s := Summary{Total: r.total, Errors: r.errors, Elapsed: elapsed}
	r.mu.Unlock()

	if elapsed > 0 {
		s.RPS = float64(s.Total) / elapsed.Seconds()
	}
	if len(tmp) == 0 {
		return s
	}

	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })
	var sum time.Duration
	for _, l := range tmp {
		sum += l
	}
	s.Avg = sum / time.Duration(len(tmp))
	s.Min = tmp[0]
	s.Max = tmp[len(tmp)-1]
	s.P50 = percentile(tmp, 0.50)
	s.P95 = percentile(tmp, 0.95)
	s.P99 = percentile(tmp, 0.99)
	return s
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	i := int(float64(len(sorted)) * p)
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var CSVHeader = []string{"clients", "avg_ms", "p50_ms", "p95_ms", "p99_ms", "throughput_rps", "errors", "total"}

// CSVRow renders one sweep step in CSVHeader order.
func (s Summary) CSVRow(clients int) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	return []string{
		strconv.Itoa(clients),
		f(ms(s.Avg)), f(ms(s.P50)), f(ms(s.P95)), f(ms(s.P99)),
		f(s.RPS),
		strconv.FormatInt(s.Errors, 10),
		strconv.FormatInt(s.Total, 10),
	}
}
