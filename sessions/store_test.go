package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament-ui/page"
)

func newTestStore(clock clockwork.Clock, idle time.Duration) *Store {
	return NewStore(func(ctx context.Context, origin string) *page.Page {
		return page.New(ctx, page.Options{Origin: origin, Clock: clock})
	}, idle, clock, nil)
}

func TestStore_GetOrCreate(t *testing.T) {
	s := newTestStore(clockwork.NewFakeClock(), time.Hour)
	t.Cleanup(s.Close)

	id, p1, created := s.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, id)
	assert.NotEqual(t, id, p1.Origin())

	sameID, p2, created := s.GetOrCreate(id)
	assert.False(t, created)
	assert.Equal(t, id, sameID)
	assert.Same(t, p1, p2)

	otherID, p3, created := s.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, "unknown", otherID)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 2, s.Len())
}

func TestStore_SweepEvictsIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestStore(clock, time.Hour)
	t.Cleanup(s.Close)

	idle, _ := s.Create()
	active, _ := s.Create()

	clock.Advance(45 * time.Minute)
	_, ok := s.Get(active)
	require.True(t, ok)

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	_, ok = s.Get(idle)
	assert.False(t, ok)
	_, ok = s.Get(active)
	assert.True(t, ok)
}

func TestStore_RunStopsOnContext(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestStore(clock, time.Minute)
	s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Minute) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Minute)
	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStore_MaxSessionsEvictsLeastRecentlyUsed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStore(func(ctx context.Context, origin string) *page.Page {
		return page.New(ctx, page.Options{Origin: origin, Clock: clock})
	}, time.Hour, clock, nil, WithMaxSessions(2))
	t.Cleanup(s.Close)

	first, _ := s.Create()
	clock.Advance(time.Minute)
	second, _ := s.Create()
	clock.Advance(time.Minute)
	_, ok := s.Get(first)
	require.True(t, ok)
	clock.Advance(time.Minute)

	third, _ := s.Create()

	assert.Equal(t, 2, s.Len())
	_, ok = s.Get(second)
	assert.False(t, ok, "least recently used session is evicted")
	_, ok = s.Get(first)
	assert.True(t, ok)
	_, ok = s.Get(third)
	assert.True(t, ok)
}

func TestStore_NoCapByDefault(t *testing.T) {
	s := newTestStore(clockwork.NewFakeClock(), time.Hour)
	t.Cleanup(s.Close)

	for i := 0; i < 50; i++ {
		s.Create()
	}
	assert.Equal(t, 50, s.Len())
}
