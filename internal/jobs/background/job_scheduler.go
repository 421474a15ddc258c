package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const warmTruckCacheJob = "warm_truck_cache"

// CacheWarmer reloads truck and schedule lookups into the cache.
type CacheWarmer interface {
	WarmCache(ctx context.Context) (int, error)
}

// JobScheduler runs the periodic maintenance jobs of the service.
type JobScheduler struct {
	scheduler gocron.Scheduler
	warmer    CacheWarmer
	interval  time.Duration
	logger    zerolog.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. The truck cache
// is warmed once on start and then every interval.
func NewJobScheduler(warmer CacheWarmer, interval time.Duration, logger zerolog.Logger) (*JobScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("cache warm interval must be positive, got %s", interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		warmer:    warmer,
		interval:  interval,
		logger:    logger.With().Str("component", "scheduler").Logger(),
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", js.JobCount()).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler.
func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobCount reports how many jobs are registered.
func (js *JobScheduler) JobCount() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.jobs)
}

// HasJob reports whether a job with the given name is registered.
func (js *JobScheduler) HasJob(name string) bool {
	js.mu.RLock()
	defer js.mu.RUnlock()
	_, ok := js.jobs[name]
	return ok
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.warmTruckCache, context.Background()),
		gocron.WithName(warmTruckCacheJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", warmTruckCacheJob, err)
	}

	js.mu.Lock()
	js.jobs[warmTruckCacheJob] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) warmTruckCache(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, js.interval)
	defer cancel()

	start := time.Now()
	warmed, err := js.warmer.WarmCache(ctx)
	if err != nil {
		js.logger.Error().Err(err).Int("warmed", warmed).Msg("truck cache warm-up failed")
		return err
	}
	js.logger.Debug().Int("warmed", warmed).Dur("took", time.Since(start)).Msg("truck cache warmed")
	return nil
}
