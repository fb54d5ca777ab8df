package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nyukimin/failguard/internal/domain/session"
)

// MemorySessionRepository はプロセス内メモリのsession.Repository実装
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionDTO
}

// NewMemorySessionRepository は新しいMemorySessionRepositoryを作成
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*sessionDTO),
	}
}

// Save はセッションのスナップショットを保存
func (r *MemorySessionRepository) Save(ctx context.Context, sess *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sess.ID()] = &sessionDTO{
		ID:        sess.ID(),
		Values:    sess.Values(),
		CreatedAt: sess.CreatedAt(),
		UpdatedAt: sess.UpdatedAt(),
	}
	return nil
}

// Load はスナップショットから新しいSessionを復元
func (r *MemorySessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	return session.ReconstructSession(dto.ID, dto.Values, dto.CreatedAt, dto.UpdatedAt), nil
}

func (r *MemorySessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sessions[id]
	return ok, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) Purge(ctx context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, dto := range r.sessions {
		if !dto.UpdatedAt.After(before) {
			delete(r.sessions, id)
			purged++
		}
	}
	return purged, nil
}

// Len は保持しているセッション数を返す
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
