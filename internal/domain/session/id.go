package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionID は新しいセッションIDを生成
func NewSessionID() string {
	// フォーマット: YYYYMMDD-{UUID（ハイフンなし32文字）}
	datePrefix := time.Now().Format("20060102")
	return fmt.Sprintf("%s-%s", datePrefix, strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// IsValidSessionID はNewSessionIDの形式かを判定（Cookie値の検証用）
func IsValidSessionID(id string) bool {
	date, rest, ok := strings.Cut(id, "-")
	if !ok || len(date) != 8 || len(rest) != 32 {
		return false
	}
	if _, err := time.Parse("20060102", date); err != nil {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
