package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/AdamBeresnev/bracket-picks/internal/live"
	"github.com/go-co-op/gocron/v2"
)

type TournamentLister interface {
	ListScheduledLocks(ctx context.Context) ([]bracket.Tournament, error)
}

type Broadcaster interface {
	Broadcast(msgType string, payload any)
}

type LockCounter interface {
	TournamentLocked()
}

// LockWatcher notices tournaments whose lock time has passed and announces that they locked.
// The lock itself needs no write, the time check already refuses picks.
type LockWatcher struct {
	tournaments TournamentLister
	hub         Broadcaster
	counter     LockCounter
	log         *slog.Logger
	now         func() time.Time

	mu        sync.Mutex
	lastCheck time.Time
}

func NewLockWatcher(tournaments TournamentLister, hub Broadcaster, counter LockCounter, log *slog.Logger) *LockWatcher {
	return &LockWatcher{
		tournaments: tournaments,
		hub:         hub,
		counter:     counter,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Check announces every tournament whose lock time fell after the previous check and at or before now.
// The first check only records the time, so a restart does not repeat old announcements.
func (w *LockWatcher) Check(ctx context.Context) ([]bracket.Tournament, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if w.lastCheck.IsZero() {
		w.lastCheck = now
		return nil, nil
	}

	scheduled, err := w.tournaments.ListScheduledLocks(ctx)
	if err != nil {
		return nil, err
	}

	var locked []bracket.Tournament
	for _, t := range scheduled {
		if t.LockAt == nil || !t.LockAt.After(w.lastCheck) || t.LockAt.After(now) {
			continue
		}
		locked = append(locked, t)

		w.log.Info("Tournament locked", "tournament_id", t.ID, "slug", t.Slug, "lock_at", t.LockAt)
		if w.counter != nil {
			w.counter.TournamentLocked()
		}
		w.hub.Broadcast(live.LockStatus, map[string]any{
			"tournamentId": t.ID,
			"locked":       true,
			"manualLock":   false,
			"lockAt":       t.LockAt,
		})
	}

	w.lastCheck = now
	return locked, nil
}

// Start runs Check every interval until ctx is done.
func (w *LockWatcher) Start(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := w.Check(ctx); err != nil {
				w.log.Error("Lock check failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	go func() {
		<-ctx.Done()
		if err := sched.Shutdown(); err != nil {
			w.log.Warn("Scheduler shutdown failed", "error", err)
		}
	}()
	return sched, nil
}
