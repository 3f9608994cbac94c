package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chris/remindme/internal/clock"
	"github.com/chris/remindme/internal/db"
	"github.com/chris/remindme/internal/metrics"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
)

const (
	// DefaultSchedule sweeps at the top of every minute.
	DefaultSchedule    = "* * * * *"
	defaultSendTimeout = 10 * time.Second
)

// Store is what a sweep reads from.
type Store interface {
	ListEventsAtTime(notifyTime string) ([]db.Event, error)
}

// SendFunc delivers content to an owner. It should honor ctx.
type SendFunc func(ctx context.Context, ownerID, content string) error

// Report summarizes one sweep.
type Report struct {
	Time    string // HH:MM that was matched
	Matched int
	Sent    int
	Failed  int
	Stale   int // events already in the past, skipped
}

type Option func(*Scheduler)

// WithSchedule sets the cron spec the sweep runs on.
func WithSchedule(spec string) Option {
	return func(s *Scheduler) { s.spec = spec }
}

// WithRate caps sends per second across a sweep. Zero or less means no cap.
func WithRate(perSecond float64) Option {
	return func(s *Scheduler) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithSendTimeout bounds each individual send.
func WithSendTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.metrics = r
		}
	}
}

type Scheduler struct {
	cron    *cron.Cron
	spec    string
	store   Store
	clock   clock.Clock
	send    SendFunc
	limiter *rate.Limiter
	timeout time.Duration
	metrics metrics.Recorder

	ctx    context.Context
	cancel context.CancelFunc
}

func New(store Store, c clock.Clock, send SendFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		spec:    DefaultSchedule,
		store:   store,
		clock:   c,
		send:    send,
		limiter: rate.NewLimiter(rate.Inf, 1),
		timeout: defaultSendTimeout,
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}

	loc := time.Local
	if l, ok := c.(interface{ Location() *time.Location }); ok {
		loc = l.Location()
	}
	logger := cron.PrintfLogger(log.Default())
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(s.ctx) }); err != nil {
		return fmt.Errorf("scheduling sweep %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Printf("scheduler started (%s)", s.spec)
	return nil
}

// Stop prevents further sweeps, aborts the running one between sends and
// waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	log.Println("scheduler stopped")
}

// RunOnce sweeps the events due at the current minute and sends each owner
// their reminder. A failed send is logged and does not stop the sweep.
func (s *Scheduler) RunOnce(ctx context.Context) Report {
	start := time.Now()
	now := s.clock.Now()
	rep := Report{Time: clock.TimeOfDay(now)}
	defer func() { s.metrics.SweepCompleted(rep.Matched, time.Since(start)) }()

	events, err := s.store.ListEventsAtTime(rep.Time)
	if err != nil {
		log.Printf("scheduler: listing events at %s: %v", rep.Time, err)
		s.metrics.StoreError("list_at_time")
		return rep
	}
	rep.Matched = len(events)
	if len(events) == 0 {
		return rep
	}
	log.Printf("scheduler: %d event(s) due at %s", len(events), rep.Time)

	today := clock.DateOf(now)
	for i, e := range events {
		r, ok := reminderFor(e, today)
		if !ok {
			rep.Stale++
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = s.limiter.Wait(ctx)
		}
		if err != nil {
			log.Printf("scheduler: sweep at %s stopped with %d event(s) left: %v", rep.Time, len(events)-i, err)
			break
		}
		if err := s.deliver(ctx, e.OwnerID, r.text); err != nil {
			log.Printf("scheduler: event %d for %s: %v", e.ID, e.OwnerID, err)
			rep.Failed++
			s.metrics.ReminderFailed(r.kind)
			continue
		}
		rep.Sent++
		s.metrics.ReminderSent(r.kind)
	}

	log.Printf("scheduler: sweep at %s sent %d, failed %d, skipped %d", rep.Time, rep.Sent, rep.Failed, rep.Stale)
	return rep
}

// deliver runs one send with its own deadline. A panicking or hanging send
// only costs that one reminder.
func (s *Scheduler) deliver(ctx context.Context, ownerID, content string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("send panicked: %v", r)
			}
		}()
		done <- s.send(ctx, ownerID, content)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("sending to %s: %w", ownerID, ctx.Err())
	}
}
