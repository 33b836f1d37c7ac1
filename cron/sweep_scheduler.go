package cron

import (
	"context"
	"log"
	"time"

	"github.com/eben2468/srcwebsite-sub008/assignment"
	"github.com/eben2468/srcwebsite-sub008/reconcile"
	"github.com/robfig/cron/v3"
)

const (
	assignmentSpec     = "*/15 * * * * *"
	reconciliationSpec = "0 * * * * *"
)

// SweepScheduler drives the assignment and reconciliation sweeps on a fixed
// cadence. Both sweeps are idempotent passes over store state, so overlapping
// a tick with a request-triggered run is harmless.
type SweepScheduler struct {
	cron       *cron.Cron
	engine     *assignment.Engine
	reconciler *reconcile.ReconcileService
}

func NewSweepScheduler(engine *assignment.Engine, reconciler *reconcile.ReconcileService) *SweepScheduler {
	return &SweepScheduler{
		cron:       cron.New(cron.WithSeconds()),
		engine:     engine,
		reconciler: reconciler,
	}
}

func (s *SweepScheduler) Start() error {
	if _, err := s.cron.AddFunc(assignmentSpec, s.runAssignment); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(reconciliationSpec, s.runReconciliation); err != nil {
		return err
	}

	log.Println("Starting sweep scheduler...")
	s.cron.Start()
	return nil
}

func (s *SweepScheduler) Stop() {
	log.Println("Stopping sweep scheduler...")
	ctx := s.cron.Stop()

	select {
	case <-ctx.Done():
		log.Println("Sweep scheduler stopped successfully")
	case <-time.After(30 * time.Second):
		log.Println("Sweep scheduler stop timeout reached")
	}
}

func (s *SweepScheduler) runAssignment() {
	if _, err := s.engine.RunSweep(context.Background()); err != nil {
		log.Printf("Scheduled assignment sweep failed: %v", err)
	}
}

func (s *SweepScheduler) runReconciliation() {
	if _, err := s.reconciler.RunSweep(context.Background()); err != nil {
		log.Printf("Scheduled reconciliation sweep failed: %v", err)
	}

	// Requeued sessions go straight back through assignment instead of
	// waiting for the next tick.
	s.runAssignment()
}
