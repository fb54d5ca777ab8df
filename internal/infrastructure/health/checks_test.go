package health

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
)

type fakeSource struct {
	health prediction.Health
	err    error
}

func (f fakeSource) Health(ctx context.Context) (prediction.Health, error) {
	return f.health, f.err
}

func TestPredictorCheck_Success(t *testing.T) {
	checkFn := PredictorCheck(fakeSource{health: prediction.Health{Status: "healthy", ModelLoaded: true, Latency: 12 * time.Millisecond}}, time.Second)
	ok, msg := checkFn(context.Background())

	if !ok {
		t.Errorf("Expected ok=true, got ok=false with message: %s", msg)
	}
	if msg != "ok (12ms)" {
		t.Errorf("Expected msg='ok (12ms)', got msg='%s'", msg)
	}
}

func TestPredictorCheck_Unreachable(t *testing.T) {
	checkFn := PredictorCheck(fakeSource{err: errors.New("connection refused")}, time.Second)
	ok, msg := checkFn(context.Background())

	if ok {
		t.Error("Expected ok=false for unreachable service, got ok=true")
	}
	if !strings.Contains(msg, "unreachable") {
		t.Errorf("Expected message to contain 'unreachable', got: %s", msg)
	}
}

func TestPredictorCheck_ModelNotLoaded(t *testing.T) {
	checkFn := PredictorCheck(fakeSource{health: prediction.Health{Status: "healthy"}}, time.Second)
	ok, msg := checkFn(context.Background())

	if ok {
		t.Error("Expected ok=false when model is not loaded")
	}
	if msg != "model not loaded" {
		t.Errorf("Unexpected message: %s", msg)
	}
}

func TestChecker_Run(t *testing.T) {
	c := NewChecker()
	c.Register("self", func(ctx context.Context) (bool, string) { return true, "ok" })
	c.Register("predictor", func(ctx context.Context) (bool, string) { return false, "down" })

	report := c.Run(context.Background())

	if report.Healthy() {
		t.Error("Expected degraded report")
	}
	if report.Status != "degraded" {
		t.Errorf("Expected status 'degraded', got '%s'", report.Status)
	}
	if !report.Checks["self"].OK || report.Checks["predictor"].Message != "down" {
		t.Errorf("Unexpected checks: %+v", report.Checks)
	}

	names := c.Names()
	if len(names) != 2 || names[0] != "predictor" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestChecker_Empty(t *testing.T) {
	report := NewChecker().Run(context.Background())
	if !report.Healthy() {
		t.Error("Empty checker should be healthy")
	}
}
