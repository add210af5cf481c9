/*
scheduler.go - Cron-driven recurrence sweep

PURPOSE:
  Periodically walks every recurring budget chain and spawns the next
  period's instance when the current period has ended. Duplicate periods
  are silent no-ops - a concurrent tick or a manual trigger racing the cron
  can never create a second successor for the same period, because the
  service's existence check is backed by a store-level uniqueness
  constraint on (original_budget_id, start_date).

CONFIGURATION:
  - Spec:    cron expression for the sweep (default "@hourly")
  - Enabled: whether the background schedule runs

USAGE:
  sweeper := NewSweeper(svc, "@hourly")
  sweeper.Start()
  // ... later
  sweeper.Stop()

  The manual trigger (POST /api/admin/sweep) calls RunNow directly and
  works whether or not the background schedule is running.

SEE ALSO:
  - handlers.go: TriggerSweep endpoint
  - budget/service.go: AdvanceRecurrence
*/
package api

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/warp/budget-engine/budget"
)

// Sweeper drives recurrence advancement on a cron schedule.
type Sweeper struct {
	Service *budget.Service
	Spec    string

	cron *cron.Cron
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Spawned int
	Skipped int
	Errors  []string
}

// NewSweeper creates a sweeper with the given cron spec (e.g. "@hourly",
// "0 2 * * *").
func NewSweeper(svc *budget.Service, spec string) *Sweeper {
	if spec == "" {
		spec = "@hourly"
	}
	return &Sweeper{Service: svc, Spec: spec}
}

// Start schedules the background sweep.
func (s *Sweeper) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.Spec, func() {
		s.RunNow(context.Background())
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	log.Printf("[Sweeper] Started with schedule %q", s.Spec)
	return nil
}

// Stop halts the background schedule and waits for a running sweep.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		log.Println("[Sweeper] Stopped")
	}
}

// RunNow sweeps every recurring chain once. Also used by the admin endpoint.
func (s *Sweeper) RunNow(ctx context.Context) SweepResult {
	var result SweepResult
	asOf := budget.Today()

	parents, err := s.Service.Budgets.ListRecurringParents(ctx)
	if err != nil {
		log.Printf("[Sweeper] Error listing recurring budgets: %v", err)
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, root := range parents {
		successor, err := s.Service.AdvanceRecurrence(ctx, root.ID, asOf)
		if err != nil {
			log.Printf("[Sweeper] Error advancing %s: %v", root.ID, err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if successor == nil {
			result.Skipped++
			continue
		}
		result.Spawned++
		log.Printf("[Sweeper] Spawned %s for period %s..%s (root %s)",
			successor.ID, successor.StartDate, successor.EndDate, root.ID)
	}

	if result.Spawned > 0 || len(result.Errors) > 0 {
		log.Printf("[Sweeper] Completed: %d spawned, %d skipped, %d errors",
			result.Spawned, result.Skipped, len(result.Errors))
	}
	return result
}
