package session

import (
	"errors"
	"time"
)

// ErrSessionNotFound はセッションが見つからない場合のエラー
var ErrSessionNotFound = errors.New("session not found")

// Session はブラウザタブ1つ分のセッションストレージ
// 値は文字列のみ保持し、最終更新からのアイドル時間で失効する
type Session struct {
	id        string            // セッションID（日付ベース: "20261014-<uuid>"）
	values    map[string]string // キー/バリュー
	createdAt time.Time         // セッション作成時刻
	updatedAt time.Time         // 最終更新時刻
}

// NewSession は新しいセッションを作成
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		values:    make(map[string]string),
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructSession は永続化層から復元する際に使用（タイムスタンプを保持）
func ReconstructSession(id string, values map[string]string, createdAt, updatedAt time.Time) *Session {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Session{
		id:        id,
		values:    copied,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID はセッションIDを返す
func (s *Session) ID() string {
	return s.id
}

// CreatedAt は作成時刻を返す
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt は最終更新時刻を返す
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// SetItem は値を設定
func (s *Session) SetItem(key, value string) {
	s.values[key] = value
	s.updatedAt = time.Now()
}

// GetItem は値を取得
func (s *Session) GetItem(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// RemoveItem は値を削除
func (s *Session) RemoveItem(key string) {
	delete(s.values, key)
	s.updatedAt = time.Now()
}

// Values は値のコピーを返す
func (s *Session) Values() map[string]string {
	result := make(map[string]string, len(s.values))
	for k, v := range s.values {
		result[k] = v
	}
	return result
}

// Clear は全ての値を削除
func (s *Session) Clear() {
	s.values = make(map[string]string)
	s.updatedAt = time.Now()
}

// Len は保持している値の件数を返す
func (s *Session) Len() int {
	return len(s.values)
}

// IdleSince はnow時点で最終更新からidle以上経過しているかを判定
func (s *Session) IdleSince(now time.Time, idle time.Duration) bool {
	if idle <= 0 {
		return false
	}
	return now.Sub(s.updatedAt) >= idle
}
