package gallery

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*SessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewSessionStore(ttl, Settings{Columns: 4, PageSize: 9})
	s.now = clock.Now
	return s, clock
}

func TestGetOrCreate(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	sess, created := s.GetOrCreate("")
	require.True(t, created)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, Settings{Columns: 4, PageSize: 9}, sess.Settings)
	assert.Equal(t, State{}, sess.State)

	again, created := s.GetOrCreate(sess.ID)
	assert.False(t, created)
	assert.Equal(t, sess.ID, again.ID)
	assert.Equal(t, 1, s.Len())
}

func TestGetOrCreateUnknownIDGetsFreshID(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	sess, created := s.GetOrCreate("forged-id")
	assert.True(t, created)
	assert.NotEqual(t, "forged-id", sess.ID)
}

func TestSessionsAreIndependent(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	a, _ := s.GetOrCreate("")
	b, _ := s.GetOrCreate("")
	require.NotEqual(t, a.ID, b.ID)

	a.State = State{Page: 3}
	s.Save(a)

	gotA, ok := s.Get(a.ID)
	require.True(t, ok)
	gotB, ok := s.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, State{Page: 3}, gotA.State)
	assert.Equal(t, State{}, gotB.State)
}

func TestReturnedSessionIsACopy(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	sess, _ := s.GetOrCreate("")
	sess.State.Page = 7

	stored, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, 0, stored.State.Page)
}

func TestSessionExpiry(t *testing.T) {
	s, clock := newTestStore(time.Hour)

	old, _ := s.GetOrCreate("")
	clock.Advance(30 * time.Minute)
	fresh, _ := s.GetOrCreate("")

	clock.Advance(45 * time.Minute)
	_, ok := s.Get(old.ID)
	assert.False(t, ok, "idle for 75m should be expired")
	_, ok = s.Get(fresh.ID)
	assert.True(t, ok)

	assert.Equal(t, 1, s.Cleanup())
	assert.Equal(t, 1, s.Len())

	replaced, created := s.GetOrCreate(old.ID)
	assert.True(t, created)
	assert.NotEqual(t, old.ID, replaced.ID)
}

func TestGetOrCreateRefreshesLastSeen(t *testing.T) {
	s, clock := newTestStore(time.Hour)

	sess, _ := s.GetOrCreate("")
	for i := 0; i < 3; i++ {
		clock.Advance(40 * time.Minute)
		_, created := s.GetOrCreate(sess.ID)
		require.False(t, created)
	}
	assert.Equal(t, 0, s.Cleanup())
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s, clock := newTestStore(0)

	sess, _ := s.GetOrCreate("")
	clock.Advance(24 * 365 * time.Hour)
	_, ok := s.Get(sess.ID)
	assert.True(t, ok)
	assert.Equal(t, 0, s.Cleanup())
}

func TestUpdateStoresResult(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess, _ := s.GetOrCreate("")

	err := s.Update(sess.ID, func(got *Session) error {
		got.State.Page = 3
		got.ID = "ignored"
		return nil
	})
	require.NoError(t, err)

	stored, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, 3, stored.State.Page)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateErrorLeavesSessionUntouched(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess, _ := s.GetOrCreate("")
	boom := errors.New("boom")

	err := s.Update(sess.ID, func(got *Session) error {
		got.State.Page = 3
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, _ := s.Get(sess.ID)
	assert.Zero(t, stored.State.Page)
}

func TestUpdateUnknownStartsFromDefaults(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	var seen Session
	require.NoError(t, s.Update("gone", func(got *Session) error {
		seen = *got
		return nil
	}))
	assert.Equal(t, "gone", seen.ID)
	assert.Equal(t, Settings{Columns: 4, PageSize: 9}, seen.Settings)
	_, ok := s.Get("gone")
	assert.True(t, ok)
}

func TestUpdateSerializesPerSession(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	sess, _ := s.GetOrCreate("")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(sess.ID, func(got *Session) error {
				page := got.State.Page
				time.Sleep(time.Microsecond)
				got.State.Page = page + 1
				return nil
			})
		}()
	}
	wg.Wait()

	stored, _ := s.Get(sess.ID)
	assert.Equal(t, 50, stored.State.Page)
}

func TestConcurrentAccess(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	base, _ := s.GetOrCreate("")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, _ := s.GetOrCreate(base.ID)
			sess.State.Page = i
			s.Save(sess)
			s.Cleanup()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
