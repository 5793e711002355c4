package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/neotai/Order-page/internal/model"
	"github.com/neotai/Order-page/internal/repository"
)

// DefaultSweepInterval is how often the expiration sweep runs when the
// configuration does not override it.
const DefaultSweepInterval = 60 * time.Second

// SchedulerStatus is the bookkeeping the scheduler reports to operational
// tooling.
type SchedulerStatus struct {
	Running      bool       `json:"running"`
	Interval     string     `json:"interval"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastExpired  []string   `json:"last_expired,omitempty"`
	SweepCount   int64      `json:"sweep_count"`
	TotalExpired int64      `json:"total_expired"`
}

// ExpirationScheduler periodically sweeps active orders whose deadline has
// passed and whose settings allow auto-close, expiring them through the
// same lifecycle path as an explicit expire call.  Each expired order takes
// its own per-order lock, so a join racing a sweep resolves to whichever
// acquires the lock first.  A failure on one order is logged and never
// aborts the sweep of the rest.
type ExpirationScheduler struct {
	orders    *repository.OrderRepo
	lifecycle *OrderService
	interval  time.Duration
	now       func() time.Time

	mu           sync.Mutex
	running      bool
	stop         chan struct{}
	done         chan struct{}
	lastRun      *time.Time
	lastExpired  []string
	sweepCount   int64
	totalExpired int64
}

// NewExpirationScheduler wires the sweeper.  interval <= 0 falls back to
// DefaultSweepInterval; now may be nil, in which case time.Now is used.
func NewExpirationScheduler(orders *repository.OrderRepo, lifecycle *OrderService, interval time.Duration, now func() time.Time) *ExpirationScheduler {
	if orders == nil || lifecycle == nil {
		panic("nil dependency passed to NewExpirationScheduler")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if now == nil {
		now = time.Now
	}
	return &ExpirationScheduler{orders: orders, lifecycle: lifecycle, interval: interval, now: now}
}

// Start launches the background ticker loop.  Calling Start on a running
// scheduler is a no-op.
func (s *ExpirationScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
	log.Printf("expiration-sweeper: started (interval=%s)", s.interval)
}

// Stop halts the loop cooperatively: a sweep already underway finishes
// before the goroutine exits.  Calling Stop on a stopped scheduler is a
// no-op.
func (s *ExpirationScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
	log.Printf("expiration-sweeper: stopped")
}

func (s *ExpirationScheduler) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-stop:
			return
		}
	}
}

// Sweep scans all orders once and expires every active order past its
// deadline with auto-close enabled, returning the ids of the orders it
// expired.  It is the manual trigger entry point and is independently
// testable without waiting on the ticker.
func (s *ExpirationScheduler) Sweep(ctx context.Context) []string {
	now := s.now()
	var expired []string
	for _, o := range s.orders.List() {
		if o.Status != model.StatusActive || !o.Settings.AutoCloseOnDeadline || !o.DeadlinePassed(now) {
			continue
		}
		// Expire re-checks the status under the order's lock; a concurrent
		// close between our scan and the lock acquisition surfaces as a
		// StateError here, which is fine to skip.
		if _, err := s.lifecycle.Expire(ctx, o.ID); err != nil {
			log.Printf("expiration-sweeper: expire %s failed: %v", o.ID, err)
			continue
		}
		expired = append(expired, o.ID)
	}

	s.mu.Lock()
	t := s.now()
	s.lastRun = &t
	s.lastExpired = expired
	s.sweepCount++
	s.totalExpired += int64(len(expired))
	s.mu.Unlock()

	if len(expired) > 0 {
		log.Printf("expiration-sweeper: expired %d order(s)", len(expired))
	}
	return expired
}

// Status reports whether the loop is running plus last-run bookkeeping.
func (s *ExpirationScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{
		Running:      s.running,
		Interval:     s.interval.String(),
		LastRun:      s.lastRun,
		LastExpired:  append([]string(nil), s.lastExpired...),
		SweepCount:   s.sweepCount,
		TotalExpired: s.totalExpired,
	}
}
