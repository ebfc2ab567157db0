package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"maven-analytics/internal/config"
	"maven-analytics/pkg/cache"
	"maven-analytics/pkg/logger"
)

// Scheduler runs the housekeeping cron jobs: a periodic cache health check
// and a daily sweep of cached analysis results. Both jobs are no-ops when
// the cache is disabled.
type Scheduler struct {
	cron   *cron.Cron
	cache  cache.Client
	cfg    config.SchedulerConfig
	logger *logrus.Entry
}

func New(cfg config.SchedulerConfig, cacheClient cache.Client) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.TimeZone, err)
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(location)),
		cache:  cacheClient,
		cfg:    cfg,
		logger: logger.WithComponent("scheduler"),
	}, nil
}

// Start registers the jobs and launches the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.WarmupInterval, s.healthCheck); err != nil {
		return fmt.Errorf("registering warmup job: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.CleanupInterval, s.cleanup); err != nil {
		return fmt.Errorf("registering cleanup job: %w", err)
	}

	s.cron.Start()
	s.logger.WithFields(logrus.Fields{
		"warmup_interval":  s.cfg.WarmupInterval,
		"cleanup_interval": s.cfg.CleanupInterval,
	}).Info("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// healthCheck pings the cache so connection problems surface in the logs
// between requests, not only during them.
func (s *Scheduler) healthCheck() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cache.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("Cache health check failed")
		return
	}
	s.logger.Debug("Cache health check passed")
}

// cleanup sweeps all cached analysis results. TTLs expire entries on their
// own; the sweep bounds the keyspace when TTLs are configured long.
func (s *Scheduler) cleanup() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.cache.DeleteByPattern(ctx, "analysis:*")
	if err != nil {
		s.logger.WithError(err).Warn("Cache cleanup failed")
		return
	}
	s.logger.WithField("removed", removed).Info("Cache cleanup completed")
}
