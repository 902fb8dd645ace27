package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	svc  *Service
	cron *cron.Cron
	log  *zap.Logger
}

// NewScheduler registers the purge job under a cron spec such as
// "@every 30m".
func NewScheduler(svc *Service, spec string, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{svc: svc, cron: cron.New(), log: log}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule otp cleanup %q: %w", spec, err)
	}
	return s, nil
}

// Start runs one purge immediately, then follows the schedule.
func (s *Scheduler) Start() {
	s.log.Info("starting cleanup scheduler")
	s.run()
	s.cron.Start()
}

// Stop waits for a running purge to finish.
func (s *Scheduler) Stop() {
	s.log.Info("stopping cleanup scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	_, _ = s.svc.PurgeExpired(ctx)
}
