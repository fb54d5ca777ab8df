package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
)

// CheckFunc は1つの依存先の状態を返す
type CheckFunc func(ctx context.Context) (bool, string)

// Source は予測サービスのヘルス取得
type Source interface {
	Health(ctx context.Context) (prediction.Health, error)
}

// PredictorCheck は予測サービスが応答し、モデルがロード済みかを確認する
func PredictorCheck(src Source, timeout time.Duration) CheckFunc {
	return func(ctx context.Context) (bool, string) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		h, err := src.Health(ctx)
		if err != nil {
			return false, fmt.Sprintf("unreachable: %v", err)
		}
		if h.Status != "healthy" {
			return false, fmt.Sprintf("status %s", h.Status)
		}
		if !h.ModelLoaded {
			return false, "model not loaded"
		}
		return true, fmt.Sprintf("ok (%dms)", h.Latency.Milliseconds())
	}
}

// CheckResult は1件のチェック結果
type CheckResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Report は全チェックの集約結果
type Report struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Healthy は全チェックが成功したかを返す
func (r Report) Healthy() bool {
	return r.Status == "ok"
}

// Checker は名前付きチェックを並行実行する
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewChecker は新しいCheckerを作成
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]CheckFunc)}
}

// Register はチェックを登録（同名は上書き）
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = fn
}

// Names は登録済みチェック名をソートして返す
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run は全チェックを実行する。1つでも失敗すれば status は degraded。
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	report := Report{Status: "ok", Checks: make(map[string]CheckResult, len(checks))}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, fn := range checks {
		wg.Add(1)
		go func(name string, fn CheckFunc) {
			defer wg.Done()
			ok, msg := fn(ctx)

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = CheckResult{OK: ok, Message: msg}
			if !ok {
				report.Status = "degraded"
			}
		}(name, fn)
	}
	wg.Wait()

	return report
}
