// Command ringbench moves values through an SPSC queue and hammers a
// Recorder from several goroutines, then logs throughput and statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/aradilov/ringcursor"
	"github.com/aradilov/ringcursor/internal/telemetry"
)

func main() {
	cfg := NewDefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	l := telemetry.NewLogger("ringbench", cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		l.Error("bad configuration", err)
		os.Exit(2)
	}

	ctx, cancelCtx := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancelCtx()
	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()

	if _, err := run(ctx, cfg, l); err != nil {
		l.Error("run failed", err)
		os.Exit(1)
	}
}

// run returns the counters collected from the meter provider at the end of
// the run.
func run(ctx context.Context, cfg *Config, l *telemetry.Logger) (map[string]int64, error) {
	provider := telemetry.NewProvider()
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			l.Warn("shutting down meter provider", "err", err)
		}
	}()

	metrics := telemetry.NewMetrics(nil, l)
	defer func() {
		if err := metrics.Close(); err != nil {
			l.Warn("unregistering metrics", "err", err)
		}
	}()

	q := ringcursor.NewSPSC[int](cfg.Capacity)
	if err := metrics.ObserveSPSC("bench", q.Stats); err != nil {
		return nil, err
	}
	rec := ringcursor.NewRecorder[time.Duration](cfg.RecorderCapacity)
	if err := metrics.ObserveRecorder("bench", rec.Stats); err != nil {
		return nil, err
	}

	l.Info("starting transfer", "capacity", q.Capacity(), "items", cfg.Items)
	elapsed, err := transfer(ctx, q, cfg.Items)
	if err != nil {
		return nil, err
	}
	st := q.Stats()
	l.Info("transfer done",
		"elapsed", elapsed,
		"items_per_sec", fmt.Sprintf("%.0f", float64(cfg.Items)/elapsed.Seconds()),
		"enqueue_full", st.EnqueueFailedQIsFull,
		"dequeue_empty", st.DequeueFailedQIsEmpty,
	)

	l.Info("starting recorder", "capacity", rec.Capacity(), "writers", cfg.Writers)
	elapsed = record(ctx, rec, cfg.Writers, cfg.Items)
	rst := rec.Stats()
	last, _ := rec.Last()
	l.Info("recorder done",
		"elapsed", elapsed,
		"recorded", rst.Recorded,
		"overwritten", rst.Overwritten,
		"kept", len(rec.Snapshot()),
		"last", last,
	)

	values, err := provider.Collect(context.Background())
	if err != nil {
		return nil, err
	}
	names := slices.Sorted(maps.Keys(values))
	for _, name := range names {
		l.Info("metric", "name", name, "value", values[name])
	}

	return values, ctx.Err()
}

// transfer moves items values from a producer to a consumer goroutine and
// checks they arrive in order.
func transfer(ctx context.Context, q *ringcursor.SPSC[int], items int) (time.Duration, error) {
	start := time.Now()

	errCh := make(chan error, 1)
	go func() {
		for i := 0; i < items; i++ {
			v, err := q.DequeueWait(ctx)
			if err != nil {
				errCh <- err
				return
			}
			if v != i {
				errCh <- fmt.Errorf("expected %d, got %d", i, v)
				return
			}
		}
		errCh <- nil
	}()

	for i := 0; i < items; i++ {
		if err := q.EnqueueWait(ctx, i); err != nil {
			return 0, err
		}
	}

	if err := <-errCh; err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// record has writers goroutines record their latency until items values
// are recorded or ctx is done.
func record(ctx context.Context, rec *ringcursor.Recorder[time.Duration], writers, items int) time.Duration {
	start := time.Now()
	perWriter := items / writers

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if i%1024 == 0 && ctx.Err() != nil {
					return
				}
				rec.Record(time.Since(start))
			}
		}()
	}
	wg.Wait()

	return time.Since(start)
}
