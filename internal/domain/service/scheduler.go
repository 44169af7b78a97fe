package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
	"github.com/diegoclair/team-assistant-bot/internal/domain/contract"
	"github.com/diegoclair/team-assistant-bot/internal/domain/entity"
)

// storeTimeout bounds every store round-trip made from timer goroutines.
const storeTimeout = 10 * time.Second

type armedReminder struct {
	timer    *time.Timer
	reminder *entity.Reminder
}

// scheduler turns pending reminders into timer-driven deliveries. The store
// is the source of truth; armed and inFlight are rebuilt from it by load.
//
// Every pending reminder is either armed, in flight, or waiting for its
// retirement to be retried (unretired). Never two of those at once.
type scheduler struct {
	dm       contract.DataManager
	notifier contract.Notifier
	opts     Options
	now      func() time.Time

	mu        sync.Mutex
	armed     map[string]*armedReminder
	inFlight  map[string]bool
	unretired map[string]*entity.Reminder
	stopped   bool
	// halt is closed by Stop; a new one is made when the scheduler restarts.
	halt      chan struct{}
	running   bool
	stopChan  chan struct{}
	loopDone  chan struct{}
	fires     sync.WaitGroup
}

func newScheduler(dm contract.DataManager, notifier contract.Notifier, opts Options) *scheduler {
	return &scheduler{
		dm:        dm,
		notifier:  notifier,
		opts:      opts.withDefaults(),
		now:       time.Now,
		armed:     make(map[string]*armedReminder),
		inFlight:  make(map[string]bool),
		unretired: make(map[string]*entity.Reminder),
		halt:      make(chan struct{}),
	}
}

var errStopped = errors.New("scheduler stopped")

// Start arms every pending reminder and launches the maintenance loop.
// Calling it again only arms what is not armed yet.
func (s *scheduler) Start(ctx context.Context) error {
	return s.start(ctx, s.resume())
}

// resume clears a previous Stop and returns the halt channel of this run.
func (s *scheduler) resume() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.stopped = false
		s.halt = make(chan struct{})
	}
	return s.halt
}

func (s *scheduler) start(ctx context.Context, halt chan struct{}) error {
	armed, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending reminders: %w", err)
	}

	if !s.startMaintenance(halt) {
		return errStopped
	}
	log.Printf("Scheduler started, %d reminders armed (%d total)", armed, s.ArmedCount())
	return nil
}

// StartWithRetry retries Start with exponential backoff. When every attempt
// fails the maintenance loop is started anyway so the periodic sweep keeps
// trying to load reminders while the rest of the bot runs without them.
// A Stop during the retries ends them for good.
func (s *scheduler) StartWithRetry(ctx context.Context, attempts int, backoff time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	halt := s.resume()

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.start(ctx, halt)
		if err == nil || errors.Is(err, errStopped) {
			return err
		}
		log.Printf("ERROR starting reminder scheduler (attempt %d/%d): %v", attempt, attempts, err)

		if attempt == attempts {
			break
		}
		select {
		case <-time.After(backoff << (attempt - 1)):
		case <-halt:
			return errStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if !s.startMaintenance(halt) {
		return errStopped
	}
	log.Printf("ERROR reminder scheduler running in degraded mode, sweep will keep retrying: %v", err)
	return err
}

// Stop disarms every timer, stops the maintenance loop and waits for
// deliveries already running. Pending reminders stay in the store.
func (s *scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.halt)
	}
	for id, entry := range s.armed {
		entry.timer.Stop()
		delete(s.armed, id)
	}

	var loopDone chan struct{}
	if s.running {
		close(s.stopChan)
		loopDone = s.loopDone
		s.running = false
	}
	s.mu.Unlock()

	if loopDone != nil {
		<-loopDone
	}
	s.fires.Wait()
	log.Println("Scheduler stopped")
}

// Arm registers a timer for reminder. It reports false when the reminder is
// already tracked or the scheduler is stopped.
func (s *scheduler) Arm(reminder *entity.Reminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.armLocked(reminder)
}

func (s *scheduler) armLocked(reminder *entity.Reminder) bool {
	if s.stopped || !reminder.Pending() {
		return false
	}
	if _, ok := s.armed[reminder.ID]; ok || s.inFlight[reminder.ID] || s.unretired[reminder.ID] != nil {
		return false
	}

	delay := reminder.ScheduledFor.Sub(s.now())
	if delay <= domain.FireEpsilon {
		delay = 0
	}

	entry := &armedReminder{reminder: reminder}
	// the callback needs s.mu, so it cannot observe the map before this returns
	entry.timer = time.AfterFunc(delay, func() { s.fire(entry) })
	s.armed[reminder.ID] = entry
	return true
}

// Disarm stops the timer for id without touching the store.
func (s *scheduler) Disarm(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.armed[id]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.armed, id)
	return true
}

// DisarmUser stops every timer owned by userID and returns how many were armed.
func (s *scheduler) DisarmUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, entry := range s.armed {
		if entry.reminder.UserID != userID {
			continue
		}
		entry.timer.Stop()
		delete(s.armed, id)
		count++
	}
	return count
}

// Cancel deletes id from the store and then disarms it, so a failed delete
// leaves the timer in place. Cancelling something already fired or deleted
// is not an error.
func (s *scheduler) Cancel(ctx context.Context, id string) (bool, error) {
	deleted, err := s.dm.Reminder().Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to cancel reminder: %w", err)
	}

	s.Disarm(id)
	return deleted, nil
}

// ArmedCount returns how many timers are currently armed.
func (s *scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// load arms every pending reminder that is not tracked yet.
func (s *scheduler) load(ctx context.Context) (int, error) {
	reminders, err := s.dm.Reminder().GetAllPending(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	armed := 0
	for _, r := range reminders {
		if s.armLocked(r) {
			armed++
		}
	}
	return armed, nil
}

func (s *scheduler) fire(entry *armedReminder) {
	id := entry.reminder.ID

	s.mu.Lock()
	current, ok := s.armed[id]
	if !ok || current != entry || s.stopped {
		// cancelled or replaced while the timer was firing
		s.mu.Unlock()
		return
	}
	delete(s.armed, id)
	s.inFlight[id] = true
	s.fires.Add(1)
	halt := s.halt
	s.mu.Unlock()

	defer s.fires.Done()

	s.deliver(entry.reminder, halt)

	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

// deliver sends the reminder and retires it whatever the outcome: one
// delivery attempt (or DeliveryAttempts) and never a re-arm. Closing halt
// cuts the retry backoff short.
func (s *scheduler) deliver(reminder *entity.Reminder, halt <-chan struct{}) {
	if !s.stillPending(reminder) {
		return
	}

	var err error
retry:
	for attempt := 1; attempt <= s.opts.DeliveryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.NotifyTimeout)
		err = s.notifier.Send(ctx, reminder.UserID, FormatNotification(reminder))
		cancel()

		if err == nil || errors.Is(err, domain.ErrRecipientNotFound) || attempt == s.opts.DeliveryAttempts {
			break
		}

		backoff := time.NewTimer(s.opts.RetryBackoff << (attempt - 1))
		select {
		case <-backoff.C:
		case <-halt:
			backoff.Stop()
			log.Printf("Scheduler stopping, giving up on reminder %s after %d attempts", reminder.ID, attempt)
			break retry
		}
	}

	if err != nil {
		log.Printf("Failed to deliver reminder %s to user %s, retiring it anyway: %v", reminder.ID, reminder.UserID, err)
	} else {
		log.Printf("Reminder %s delivered to user %s", reminder.ID, reminder.UserID)
	}

	s.retire(reminder)
}

// stillPending re-reads the reminder so a deletion that raced with the
// timer wins. On store errors the delivery goes ahead.
func (s *scheduler) stillPending(reminder *entity.Reminder) bool {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	current, err := s.dm.Reminder().GetByID(ctx, reminder.ID)
	if err != nil {
		log.Printf("Failed to check reminder %s before delivery: %v", reminder.ID, err)
		return true
	}
	return current != nil && current.Pending()
}

func (s *scheduler) retire(reminder *entity.Reminder) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.dm.Reminder().MarkSent(ctx, reminder.ID, reminder.UserID); err != nil {
		log.Printf("Failed to retire reminder %s, will retry on next sweep: %v", reminder.ID, err)
		s.mu.Lock()
		s.unretired[reminder.ID] = reminder
		s.mu.Unlock()
	}
}

// startMaintenance launches the loop for the run that owns halt. It reports
// false when that run was stopped in the meantime.
func (s *scheduler) startMaintenance(halt chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.halt != halt {
		return false
	}
	if s.running {
		return true
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.loopDone = make(chan struct{})
	go s.mainLoop(s.stopChan, s.loopDone)
	return true
}

func (s *scheduler) mainLoop(stopChan <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	sweep := time.NewTicker(s.opts.SweepInterval)
	defer sweep.Stop()

	retention := time.NewTicker(s.opts.RetentionInterval)
	defer retention.Stop()

	for {
		select {
		case <-sweep.C:
			s.sweep()
		case <-retention.C:
			s.purge()
		case <-stopChan:
			return
		}
	}
}

// sweep catches drift: reminders whose timers were lost and retirements that
// failed earlier.
func (s *scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	s.mu.Lock()
	unretired := make([]*entity.Reminder, 0, len(s.unretired))
	for _, r := range s.unretired {
		unretired = append(unretired, r)
	}
	s.mu.Unlock()

	for _, r := range unretired {
		if err := s.dm.Reminder().MarkSent(ctx, r.ID, r.UserID); err != nil {
			log.Printf("Failed to retire reminder %s on sweep: %v", r.ID, err)
			continue
		}
		s.mu.Lock()
		delete(s.unretired, r.ID)
		s.mu.Unlock()
	}

	armed, err := s.load(ctx)
	if err != nil {
		log.Printf("Failed to sweep pending reminders: %v", err)
		return
	}
	if armed > 0 {
		log.Printf("Sweep armed %d reminders that had no timer", armed)
	}
}

func (s *scheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	count, err := s.dm.Reminder().DeleteSentOlderThan(ctx, s.opts.RetentionDays)
	if err != nil {
		log.Printf("Failed to purge old reminders: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Purged %d reminders sent more than %d days ago", count, s.opts.RetentionDays)
	}
}
