package results

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/session"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/internal/infrastructure/dom"
)

const page = `<!DOCTYPE html><html><body><main>
<section id="resultSection" style="display: none;"><div id="resultContent"></div></section>
<section class="recommendations"><h3>📋 Recommendations</h3><div id="recommendationsContent"></div></section>
<div id="statsContent"></div><div id="historyContent"></div>
</main></body></html>`

type mapStore map[string]string

func (s mapStore) SetItem(ctx context.Context, key, value string) error {
	s[key] = value
	return nil
}

func (s mapStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

type mockHistory struct {
	entries []prediction.HistoryEntry
	stats   prediction.Stats
	err     error
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]prediction.HistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func (m *mockHistory) Stats(ctx context.Context) (prediction.Stats, error) {
	return m.stats, m.err
}

func bind(t *testing.T) (*dom.Document, *view.ResultView) {
	t.Helper()
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	rv, err := view.BindResultView(doc)
	require.NoError(t, err)
	return doc, rv
}

const stored = `{"success":true,"risk_level":"HIGH","risk_color":"#dc3545","probability":87.5,"confidence":75,"prediction":"DEFECTIVE","prediction_id":12,"input_features":{"loc":450,"wmc":14,"rfc":22,"cbo":7,"lcom":0.55,"code_churn":12,"num_developers":4,"past_defects":3}}`

func TestView_RendersStoredPrediction(t *testing.T) {
	doc, rv := bind(t)
	store := mapStore{session.KeyLastPrediction: stored}

	found, err := NewView(rv, store, nil, "/").Render(context.Background())
	require.NoError(t, err)
	assert.True(t, found)

	assert.Contains(t, rv.Content.InnerHTML(), "Risk Level: HIGH")
	assert.Contains(t, rv.Content.TextContent(), "450")
	assert.Equal(t, "block", rv.Section.Style("display"))

	items := doc.QueryAllByClass("recommendation-item")
	assert.Len(t, items, 6)
}

func TestView_EmptyState(t *testing.T) {
	_, rv := bind(t)

	found, err := NewView(rv, mapStore{}, nil, "/").Render(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Contains(t, rv.Content.TextContent(), "No prediction found")
	assert.Contains(t, rv.Content.InnerHTML(), `href="/"`)
}

func TestView_CorruptStoredValueShowsEmptyState(t *testing.T) {
	_, rv := bind(t)
	store := mapStore{session.KeyLastPrediction: "{not json"}

	found, err := NewView(rv, store, nil, "/").Render(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Contains(t, rv.Content.TextContent(), "No prediction found")
}

func TestView_History(t *testing.T) {
	doc, rv := bind(t)
	history := &mockHistory{
		entries: []prediction.HistoryEntry{
			{ID: "2", Timestamp: "2026-10-14 12:00:00", RiskLevel: prediction.RiskHigh, Probability: 0.81, Prediction: "DEFECTIVE"},
			{ID: "1", Timestamp: "2026-10-14 11:00:00", RiskLevel: prediction.RiskLow, Probability: 0.12, Prediction: "CLEAN"},
		},
		stats: prediction.Stats{
			Total:              2,
			RiskDistribution:   map[string]int{"LOW": 1, "HIGH": 1},
			AverageProbability: 46.5,
			HighRiskCount:      1,
		},
	}

	_, err := NewView(rv, mapStore{session.KeyLastPrediction: stored}, history, "/").WithLimit(1).Render(context.Background())
	require.NoError(t, err)

	rows := doc.QueryAllByClass("history-row")
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].TextContent(), "81%")

	stats, _ := doc.GetElementByID(IDStatsContent)
	assert.Contains(t, stats.TextContent(), "46.5%")
	assert.Contains(t, stats.TextContent(), "HIGH")
}

func TestView_HistoryFailureDoesNotBreakResult(t *testing.T) {
	_, rv := bind(t)
	history := &mockHistory{err: errors.New("connection refused")}

	found, err := NewView(rv, mapStore{session.KeyLastPrediction: stored}, history, "/").Render(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, rv.Content.InnerHTML(), "Risk Level: HIGH")
}
