package session

import (
	"context"
	"time"
)

// Repository はセッション永続化の抽象化
type Repository interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	// Purge は最終更新がbefore以前のセッションを削除し、削除件数を返す
	Purge(ctx context.Context, before time.Time) (int, error)
}
