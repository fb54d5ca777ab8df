package session

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/Nyukimin/failguard/internal/domain/session"
	"github.com/Nyukimin/failguard/pkg/logger"
)

// Sweeper はcron式のスケジュールでアイドルセッションを削除する
type Sweeper struct {
	repo     session.Repository
	schedule string
	ttl      time.Duration
	now      func() time.Time
}

// NewSweeper は新しいSweeperを作成（scheduleは5フィールドのcron式）
func NewSweeper(repo session.Repository, schedule string, ttl time.Duration) (*Sweeper, error) {
	if !gronx.New().IsValid(schedule) {
		return nil, fmt.Errorf("invalid sweep schedule: %q", schedule)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Sweeper{
		repo:     repo,
		schedule: schedule,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Next はafter以降の次回実行時刻を返す
func (s *Sweeper) Next(after time.Time) (time.Time, error) {
	return gronx.NextTickAfter(s.schedule, after, false)
}

// Sweep はTTLを過ぎたセッションを1回削除する
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl)
	purged, err := s.repo.Purge(ctx, cutoff)
	if err != nil {
		return purged, fmt.Errorf("session purge failed: %w", err)
	}

	if purged > 0 {
		logger.InfoCF("session", "session.swept", map[string]interface{}{
			"purged": purged,
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}
	return purged, nil
}

// Run はctxがキャンセルされるまでスケジュールに従ってSweepを繰り返す
func (s *Sweeper) Run(ctx context.Context) error {
	for {
		next, err := s.Next(s.now())
		if err != nil {
			return fmt.Errorf("failed to compute next sweep: %w", err)
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := s.Sweep(ctx); err != nil {
			logger.WarnCF("session", "session.sweep_failed", map[string]interface{}{
				"error": err,
			})
		}
	}
}
