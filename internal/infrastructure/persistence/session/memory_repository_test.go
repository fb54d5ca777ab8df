package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/failguard/internal/domain/session"
)

func TestMemorySessionRepository_RoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	sess := session.NewSession("tab")
	sess.SetItem(session.KeyLastPredictionID, "abc123")
	require.NoError(t, repo.Save(ctx, sess))

	// 保存後の変更はスナップショットに影響しない
	sess.SetItem(session.KeyLastPredictionID, "changed")

	loaded, err := repo.Load(ctx, "tab")
	require.NoError(t, err)
	v, _ := loaded.GetItem(session.KeyLastPredictionID)
	assert.Equal(t, "abc123", v)

	ok, err := repo.Exists(ctx, "tab")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, "tab"))
	_, err = repo.Load(ctx, "tab")
	assert.True(t, errors.Is(err, session.ErrSessionNotFound))
}

func TestMemorySessionRepository_Purge(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, session.ReconstructSession("a", nil, base, base)))
	require.NoError(t, repo.Save(ctx, session.ReconstructSession("b", nil, base, base.Add(time.Hour))))

	purged, err := repo.Purge(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	assert.Equal(t, 1, repo.Len())
}

func TestSweeper_InvalidConfig(t *testing.T) {
	_, err := NewSweeper(NewMemorySessionRepository(), "not a cron", time.Minute)
	assert.Error(t, err)

	_, err = NewSweeper(NewMemorySessionRepository(), "*/5 * * * *", 0)
	assert.Error(t, err)
}

func TestSweeper_Next(t *testing.T) {
	s, err := NewSweeper(NewMemorySessionRepository(), "*/5 * * * *", time.Minute)
	require.NoError(t, err)

	next, err := s.Next(time.Date(2026, 10, 14, 12, 2, 30, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 14, 12, 5, 0, 0, time.UTC), next)
}

func TestSweeper_Sweep(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	idle := now.Add(-2 * time.Hour)
	active := now.Add(-10 * time.Minute)
	require.NoError(t, repo.Save(ctx, session.ReconstructSession("idle", nil, idle, idle)))
	require.NoError(t, repo.Save(ctx, session.ReconstructSession("active", nil, active, active)))

	s, err := NewSweeper(repo, "*/5 * * * *", 30*time.Minute)
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	purged, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	ok, _ := repo.Exists(ctx, "active")
	assert.True(t, ok)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	s, err := NewSweeper(NewMemorySessionRepository(), "* * * * *", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run should return after cancel")
	}
}
