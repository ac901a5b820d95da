package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/AdamBeresnev/bracket-picks/internal/live"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	tournaments []bracket.Tournament
	err         error
}

func (f *fakeLister) ListScheduledLocks(ctx context.Context) ([]bracket.Tournament, error) {
	return f.tournaments, f.err
}

type recordingHub struct {
	mu       sync.Mutex
	messages []string
}

func (h *recordingHub) Broadcast(msgType string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msgType)
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

type counter struct{ n int }

func (c *counter) TournamentLocked() { c.n++ }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckAnnouncesEachLockOnce(t *testing.T) {
	start := time.Date(2026, 3, 19, 15, 0, 0, 0, time.UTC)
	lockAt := start.Add(90 * time.Second)
	later := start.Add(time.Hour)

	lister := &fakeLister{tournaments: []bracket.Tournament{
		{ID: uuid.New(), Slug: "soon", LockAt: &lockAt},
		{ID: uuid.New(), Slug: "later", LockAt: &later},
		{ID: uuid.New(), Slug: "no-time"},
	}}
	hub := &recordingHub{}
	c := &counter{}

	w := NewLockWatcher(lister, hub, c, quietLogger())
	now := start
	w.now = func() time.Time { return now }

	locked, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locked, "first check only records the time")

	now = start.Add(time.Minute)
	locked, err = w.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locked)

	now = start.Add(2 * time.Minute)
	locked, err = w.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, locked, 1)
	assert.Equal(t, "soon", locked[0].Slug)

	now = start.Add(3 * time.Minute)
	locked, err = w.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, locked)

	assert.Equal(t, []string{live.LockStatus}, hub.messages)
	assert.Equal(t, 1, c.n)
}

func TestCheckError(t *testing.T) {
	boom := errors.New("db down")
	w := NewLockWatcher(&fakeLister{err: boom}, &recordingHub{}, nil, quietLogger())

	_, err := w.Check(context.Background())
	require.NoError(t, err)

	_, err = w.Check(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStartRunsChecks(t *testing.T) {
	lockAt := time.Now().UTC().Add(150 * time.Millisecond)
	lister := &fakeLister{tournaments: []bracket.Tournament{{ID: uuid.New(), Slug: "live", LockAt: &lockAt}}}
	hub := &recordingHub{}

	w := NewLockWatcher(lister, hub, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, err := w.Start(ctx, 50*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, sched)

	assert.Eventually(t, func() bool { return hub.count() == 1 }, 2*time.Second, 20*time.Millisecond)
}
