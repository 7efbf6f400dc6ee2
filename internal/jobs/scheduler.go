package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const warmTimeout = 10 * time.Second

// NavWarmer rebuilds the cached classification list behind the nav bar.
type NavWarmer interface {
	WarmClassifications(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	nav  NavWarmer
	spec string
	log  zerolog.Logger
}

// NewScheduler runs nav warming on spec, a six field cron expression with
// seconds. An empty spec disables the job.
func NewScheduler(nav NavWarmer, spec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		nav:  nav,
		spec: spec,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if s.nav == nil || s.spec == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.WarmNav); err != nil {
		return fmt.Errorf("schedule nav refresh %q: %w", s.spec, err)
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) WarmNav() {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	if err := s.nav.WarmClassifications(ctx); err != nil {
		s.log.Error().Err(err).Msg("nav refresh failed")
		return
	}
	s.log.Debug().Msg("nav cache refreshed")
}
