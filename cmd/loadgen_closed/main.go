package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atharv3903/campusnav/internal/loadgen"
)

func main() {
	var (
		server   = flag.String("server", "http://127.0.0.1:8080", "campusnav base URL")
		step     = flag.Duration("step", 10*time.Second, "duration of each client-count step")
		counts   = flag.String("clients", "2,4,8,16,32,64", "comma-separated client counts")
		out      = flag.String("out", "results.csv", "CSV output file")
		thinkDur = flag.Duration("think", 100*time.Microsecond, "pause between requests per client")
	)
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	clientCounts, err := parseCounts(*counts)
	if err != nil {
		log.Fatal("bad -clients", zap.Error(err))
	}

	peak := clientCounts[len(clientCounts)-1]
	c := loadgen.NewClient(*server, peak)
	labels, err := c.Labels(context.Background())
	if err != nil {
		log.Fatal("fetch locations", zap.Error(err))
	}

	// warm the server so cold-start effects don't matter
	c.Path(context.Background(), labels[0], labels[1])

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal("create output", zap.Error(err))
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write(loadgen.CSVHeader)

	for _, n := range clientCounts {
		log.Info("closed-loop step", zap.Int("clients", n))
		s := runClosedLoop(c, labels, n, *step, *thinkDur)
		fmt.Printf("%d clients: %.2f req/s avg %v p99 %v errors %d/%d\n", n, s.RPS, s.Avg, s.P99, s.Errors, s.Total)
		w.Write(s.CSVRow(n))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatal("write csv", zap.Error(err))
	}
	log.Info("saved results", zap.String("file", *out))
}

func runClosedLoop(c *loadgen.Client, labels []string, clients int, dur, think time.Duration) loadgen.Summary {
	ctx, cancel := context.WithTimeout(context.Background(), dur)
	defer cancel()

	var (
		rec loadgen.Recorder
		wg  sync.WaitGroup
	)
	start := time.Now()
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				a, b := loadgen.RandomPair(rnd, labels)
				t0 := time.Now()
				_, err := c.Path(ctx, a, b)
				if ctx.Err() != nil {
					return
				}
				rec.Observe(time.Since(t0), err)
				time.Sleep(think)
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
	return rec.Summary(time.Since(start))
}

// parseCounts reads an ascending list of positive client counts.
func parseCounts(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if n <= 0 || (len(out) > 0 && n < out[len(out)-1]) {
			return nil, fmt.Errorf("client counts must be positive and ascending: %q", s)
		}
		out = append(out, n)
	}
	return out, nil
}
