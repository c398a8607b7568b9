package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/bikeshare-viewer/internal/store"
)

// CityLister is the part of bikeshare.Service the probe needs.
type CityLister interface {
	ListAllCityNames(ctx context.Context) ([]string, error)
}

// DefaultInterval is used when no positive probe interval is configured.
const DefaultInterval = 15 * time.Minute

// Scheduler periodically probes the bike-network directory and records the outcome.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       *gocron.Job
	lister    CityLister
	probes    *store.MemoryStore
	interval  time.Duration
	logger    zerolog.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, lister CityLister, probes *store.MemoryStore, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		lister:    lister,
		probes:    probes,
		interval:  interval,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the probe job and starts the underlying scheduler.
// The first probe runs immediately.
func (s *Scheduler) Start() error {
	job, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.Probe(ctx)
	})
	if err != nil {
		return err
	}
	s.job = job

	s.scheduler.StartAsync()
	return nil
}

// Probe lists the directory's cities once and saves the result.
func (s *Scheduler) Probe(ctx context.Context) store.Probe {
	probe := store.Probe{At: time.Now().UTC()}

	cities, err := s.lister.ListAllCityNames(ctx)
	if err != nil {
		probe.Error = err.Error()
		s.logger.Error().Err(err).Msg("directory probe failed")
	} else {
		probe.Cities = len(cities)
		s.logger.Info().Int("cities", probe.Cities).Msg("directory probe completed")
	}

	s.probes.SaveProbe(probe)
	return probe
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
