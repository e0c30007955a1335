// Package worker provides background persistence of freshly fetched
// audio feature vectors into the cache.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/ports"
)

const writeTimeout = 5 * time.Second

// Job carries one feature vector to persist.
type Job struct {
	TrackID  string
	Features domain.Features
}

// Pool manages background workers that write feature vectors to the
// store off the request path.
type Pool struct {
	store ports.FeatureStore
	jobs  chan Job
	wg    sync.WaitGroup
	log   zerolog.Logger
}

// NewPool creates a worker pool with the given queue size.
func NewPool(store ports.FeatureStore, queueSize int, log zerolog.Logger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{store: store, jobs: make(chan Job, queueSize), log: log}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. A full queue drops the job; the
// cache will simply refetch on a later request.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		p.log.Warn().Str("track_id", job.TrackID).Msg("dropping cache write, queue full")
	}
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := p.store.Put(ctx, job.TrackID, job.Features); err != nil {
		p.log.Warn().Err(err).Str("track_id", job.TrackID).Msg("cache write failed")
	}
}
