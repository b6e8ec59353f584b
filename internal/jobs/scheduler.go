// Package jobs runs the periodic maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"councilboard/internal/services"
	"councilboard/internal/utils"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const sweepSchedule = "@every 1m"

// Scheduler 定时对账计数器、清理过期缓存
type Scheduler struct {
	cron       *cron.Cron
	reconciler *services.Reconciler
	cache      *utils.TTLCache
}

func NewScheduler(reconciler *services.Reconciler, cache *utils.TTLCache, reconcileSpec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		cache:      cache,
	}

	if _, err := s.cron.AddFunc(reconcileSpec, s.Reconcile); err != nil {
		return nil, fmt.Errorf("schedule reconcile %q: %w", reconcileSpec, err)
	}
	if _, err := s.cron.AddFunc(sweepSchedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("schedule cache sweep: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) Reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	fixed, err := s.reconciler.ReconcileCounters(ctx)
	if err != nil {
		log.WithError(err).Error("Counter reconcile failed")
		return
	}
	log.WithFields(log.Fields{"fixed": fixed, "took": time.Since(start)}).Info("Counter reconcile finished")
}

func (s *Scheduler) Sweep() {
	if n := s.cache.PurgeExpired(); n > 0 {
		log.WithField("purged", n).Debug("Expired cache entries purged")
	}
}
