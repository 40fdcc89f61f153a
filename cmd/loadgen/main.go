package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atharv3903/campusnav/internal/loadgen"
)

func main() {
	var (
		server   = flag.String("server", "http://127.0.0.1:8080", "campusnav base URL")
		duration = flag.Duration("duration", 30*time.Second, "test length")
		workers  = flag.Int("workers", 1, "concurrent open-loop workers")
	)
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	c := loadgen.NewClient(*server, *workers)
	labels, err := c.Labels(context.Background())
	if err != nil {
		log.Fatal("fetch locations", zap.Error(err))
	}
	log.Info("loaded locations", zap.Int("count", len(labels)))

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var (
		rec loadgen.Recorder
		wg  sync.WaitGroup
	)
	log.Info("running loadgen", zap.Duration("duration", *duration), zap.Int("workers", *workers))
	start := time.Now()
	for w := 0; w < *workers; w++ {
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
			}
		}(time.Now().UnixNano() + int64(w))
	}
	wg.Wait()

	s := rec.Summary(time.Since(start))
	fmt.Fprintln(os.Stdout, "\n========== LOADGEN SUMMARY ==========")
	fmt.Printf("Total Requests: %d\n", s.Total)
	fmt.Printf("Errors: %d\n", s.Errors)
	fmt.Printf("Throughput: %.1f req/s\n", s.RPS)
	fmt.Printf("Avg Latency: %v\n", s.Avg)
	fmt.Printf("P50/P95/P99: %v / %v / %v\n", s.P50, s.P95, s.P99)
	fmt.Printf("Fastest: %v\n", s.Min)
	fmt.Printf("Slowest: %v\n", s.Max)
	fmt.Println("=====================================")
}
