package session

import (
	"context"
	"errors"
	"fmt"
)

// 予測結果の受け渡しに使うキー
const (
	KeyLastPrediction   = "lastPrediction"
	KeyLastPredictionID = "lastPredictionId"
)

// Store はセッションスコープのキー/バリューストア
type Store interface {
	SetItem(ctx context.Context, key, value string) error
	GetItem(ctx context.Context, key string) (string, bool, error)
}

// ScopedStore はRepository上の1セッションにバインドされたStore
type ScopedStore struct {
	repo Repository
	id   string
}

// NewScopedStore は新しいScopedStoreを作成
func NewScopedStore(repo Repository, id string) *ScopedStore {
	return &ScopedStore{repo: repo, id: id}
}

// ID はバインドされたセッションIDを返す
func (s *ScopedStore) ID() string {
	return s.id
}

// SetItem は値を保存（セッションが無ければ作成）
func (s *ScopedStore) SetItem(ctx context.Context, key, value string) error {
	sess, err := s.loadOrCreate(ctx)
	if err != nil {
		return err
	}

	sess.SetItem(key, value)

	if err := s.repo.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.id, err)
	}
	return nil
}

// GetItem は値を取得（セッションが無ければ未設定扱い）
func (s *ScopedStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	sess, err := s.repo.Load(ctx, s.id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load session %s: %w", s.id, err)
	}

	v, ok := sess.GetItem(key)
	return v, ok, nil
}

func (s *ScopedStore) loadOrCreate(ctx context.Context) (*Session, error) {
	sess, err := s.repo.Load(ctx, s.id)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return NewSession(s.id), nil
	}
	return nil, fmt.Errorf("failed to load session %s: %w", s.id, err)
}
