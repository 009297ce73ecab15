/*
scheduler.go - Automated monthly contribution posting

PURPOSE:
  Periodically posts the current month's EPF/ETF contributions for every
  employee with a salary on file, so the ledger keeps up without a manual
  POST per employee.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each pass records the current month for every employee
  - Months already in the ledger are skipped (ErrDuplicateContribution)
  - Employees without a positive salary are skipped (ErrInvalidInput)
  - Every pass is logged for audit

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPayrollScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: RecordContribution endpoint (manual posting)
  - service/service.go: RecordContribution
*/
package api

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/warp/compensation-engine/generic"
)

// PayrollRun summarizes one scheduler pass.
type PayrollRun struct {
	Period  generic.TimePoint
	Posted  int
	Skipped int
	Failed  int
}

// PayrollScheduler posts monthly contributions in the background.
type PayrollScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPayrollScheduler creates a new scheduler.
func NewPayrollScheduler(handler *Handler) *PayrollScheduler {
	return &PayrollScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (ps *PayrollScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled || ps.CheckInterval <= 0 {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop stops the scheduler.
func (ps *PayrollScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		ps.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (ps *PayrollScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.RunOnce(context.Background())

	for {
		select {
		case <-ps.ticker.C:
			ps.RunOnce(context.Background())
		case <-ps.stop:
			return
		}
	}
}

// RunOnce posts the current month for every employee and reports the outcome.
func (ps *PayrollScheduler) RunOnce(ctx context.Context) PayrollRun {
	today := ps.Handler.Service.Today()
	run := PayrollRun{Period: generic.StartOfMonth(today.Year(), today.Month())}

	employees, err := ps.Handler.Store.ListEmployees(ctx)
	if err != nil {
		log.Printf("[Scheduler] Failed to list employees: %v", err)
		return run
	}

	for _, emp := range employees {
		_, err := ps.Handler.Service.RecordContribution(ctx, generic.EmployeeID(emp.ID), run.Period)
		switch {
		case err == nil:
			run.Posted++
		case errors.Is(err, generic.ErrDuplicateContribution), errors.Is(err, generic.ErrInvalidInput):
			run.Skipped++
		default:
			run.Failed++
			log.Printf("[Scheduler] Failed to post %s for %s: %v", run.Period, emp.ID, err)
		}
	}

	log.Printf("[Scheduler] Period %s: posted=%d skipped=%d failed=%d",
		run.Period, run.Posted, run.Skipped, run.Failed)
	return run
}
