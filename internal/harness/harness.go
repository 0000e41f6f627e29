// Package harness runs the metered-concurrency demonstration: a fixed
// number of workers share one CountingSemaphore, each holding a permit for
// a while before handing it back.
package harness

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/llxisdsh/metered"
	"github.com/llxisdsh/metered/internal/logging"
)

// ErrInvariant is returned when a worker observes a permit count outside
// the bounds the semaphore guarantees.
var ErrInvariant = errors.New("semaphore invariant violated")

// Report summarizes a run.
type Report struct {
	// Completed is the number of completion signals received.
	Completed int
	// PeakHolders is the largest number of workers seen holding a permit
	// at the same time.
	PeakHolders int64
	// FinalCount is the semaphore's available permits after every worker
	// finished.
	FinalCount int64
	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Run starts cfg.Workers workers contending for cfg.Permits permits and
// waits for all of them to signal completion.
//
// Cancelling ctx cuts the workers' hold short; permits are still released
// and Run returns the context's error. Acquire itself cannot be cancelled,
// so Run only returns once every worker got its turn.
//
// A nil log discards all entries.
func Run(ctx context.Context, cfg Config, log logrus.FieldLogger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if log == nil {
		log = logging.Discard()
	}

	var options []func(*metered.SemaphoreConfig)
	if cfg.MaxBackoff > 0 {
		options = append(options, metered.WithMaxBackoff(cfg.MaxBackoff))
	}
	r := &runner{
		cfg:  cfg,
		log:  log,
		sem:  metered.NewCountingSemaphore(cfg.Permits, cfg.Backoff, options...),
		done: make(chan int, cfg.Workers),
	}

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	for i := range cfg.Workers {
		eg.Go(func() error {
			return r.work(ctx, i)
		})
	}
	err := eg.Wait()
	close(r.done)

	rep := Report{
		PeakHolders: r.peak.Load(),
		FinalCount:  r.sem.Count(),
		Elapsed:     time.Since(start),
	}
	for range r.done {
		rep.Completed++
	}
	log.WithFields(logrus.Fields{
		"completed": rep.Completed,
		"peak":      rep.PeakHolders,
		"count":     rep.FinalCount,
		"elapsed":   rep.Elapsed.Round(time.Millisecond),
	}).Info("all workers finished")
	if err != nil {
		return rep, err
	}
	if rep.FinalCount != cfg.Permits {
		return rep, fmt.Errorf("%w: final count = %d, want %d", ErrInvariant, rep.FinalCount, cfg.Permits)
	}
	return rep, nil
}

type runner struct {
	cfg     Config
	log     logrus.FieldLogger
	sem     *metered.CountingSemaphore
	done    chan int
	holders atomic.Int64
	peak    atomic.Int64
}

func (r *runner) work(ctx context.Context, id int) (err error) {
	log := r.log.WithField("worker", id)

	g := r.sem.Acquire()
	r.enter()
	defer func() {
		r.holders.Add(-1)
		g.Release()
		count := r.sem.Count()
		log.WithField("count", count).Info("after release")
		if count > r.cfg.Permits {
			err = errors.Join(err, fmt.Errorf("%w: worker %d after release: count = %d", ErrInvariant, id, count))
		}
		if err == nil {
			r.done <- id
		}
	}()

	count := r.sem.Count()
	log.WithField("count", count).Info("after acquire")
	if count >= r.cfg.Permits {
		return fmt.Errorf("%w: worker %d after acquire: count = %d", ErrInvariant, id, count)
	}

	t := time.NewTimer(r.cfg.Hold)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		log.Warn("hold interrupted")
		return ctx.Err()
	}
}

func (r *runner) enter() {
	h := r.holders.Add(1)
	for {
		p := r.peak.Load()
		if h <= p || r.peak.CompareAndSwap(p, h) {
			return
		}
	}
}
