package results

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sort"

	"github.com/Nyukimin/failguard/internal/application/render"
	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/session"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/pkg/logger"
)

// 履歴・集計を描画する任意の要素ID
const (
	IDHistoryContent = "historyContent"
	IDStatsContent   = "statsContent"

	DefaultHistoryLimit = 10
)

// View は結果ページ（フォーム送信後の遷移先）
type View struct {
	result   *view.ResultView
	renderer *render.Renderer
	store    session.Store
	history  prediction.HistoryReader
	formPath string
	limit    int
}

// NewView は新しいViewを作成。historyがnilなら履歴は描画しない。
func NewView(rv *view.ResultView, store session.Store, history prediction.HistoryReader, formPath string) *View {
	return &View{
		result:   rv,
		renderer: render.NewRenderer(rv),
		store:    store,
		history:  history,
		formPath: formPath,
		limit:    DefaultHistoryLimit,
	}
}

// WithLimit は履歴の取得件数を変更する
func (v *View) WithLimit(limit int) *View {
	if limit > 0 {
		v.limit = limit
	}
	return v
}

// Render は保存済みの予測を描画する。保存が無ければ空状態を描画してfalseを返す。
func (v *View) Render(ctx context.Context) (bool, error) {
	found, err := v.renderLast(ctx)
	if err != nil {
		return false, err
	}

	if v.history != nil {
		v.renderHistory(ctx)
	}
	return found, nil
}

// Last はセッションに保存された直近の予測を返す
func (v *View) Last(ctx context.Context) (prediction.Result, bool, error) {
	raw, ok, err := v.store.GetItem(ctx, session.KeyLastPrediction)
	if err != nil {
		return prediction.Result{}, false, fmt.Errorf("failed to read %s: %w", session.KeyLastPrediction, err)
	}
	if !ok || raw == "" {
		return prediction.Result{}, false, nil
	}

	result, err := prediction.DecodeResult([]byte(raw))
	if err != nil {
		return prediction.Result{}, false, err
	}
	return result, true, nil
}

func (v *View) renderLast(ctx context.Context) (bool, error) {
	result, ok, err := v.Last(ctx)
	if err != nil {
		logger.WarnCF("results", "results.decode_failed", map[string]interface{}{
			"error": err,
		})
		ok = false
	}
	if !ok {
		return false, v.renderEmpty()
	}

	var req prediction.Request
	if result.InputFeatures != nil {
		req = *result.InputFeatures
	}

	if err := v.renderer.DisplayResult(result, req); err != nil {
		return false, err
	}
	return true, nil
}

func (v *View) renderEmpty() error {
	var buf bytes.Buffer
	if err := emptyTpl.Execute(&buf, v.formPath); err != nil {
		return fmt.Errorf("failed to render empty state: %w", err)
	}

	if err := v.result.Content.SetInnerHTML(buf.String()); err != nil {
		return fmt.Errorf("failed to write empty state: %w", err)
	}
	v.result.Section.SetStyle("display", "block")
	return nil
}

type historyRow struct {
	ID          string
	Timestamp   string
	Level       prediction.RiskLevel
	Emoji       string
	Probability string
	Prediction  string
}

type distributionRow struct {
	Level string
	Count int
}

type statsData struct {
	Total        int
	Average      string
	HighRisk     int
	Distribution []distributionRow
}

// renderHistory は履歴と集計を描画する。予測サービスの失敗は結果表示を妨げない。
func (v *View) renderHistory(ctx context.Context) {
	doc := v.result.Document

	if slot, ok := doc.GetElementByID(IDHistoryContent); ok {
		entries, err := v.history.Recent(ctx, v.limit)
		if err != nil {
			logger.WarnCF("results", "results.history_failed", map[string]interface{}{
				"error": err,
			})
		} else if err := writeFragment(slot, historyTpl, historyRows(entries)); err != nil {
			logger.WarnCF("results", "results.history_render_failed", map[string]interface{}{
				"error": err,
			})
		}
	}

	if slot, ok := doc.GetElementByID(IDStatsContent); ok {
		stats, err := v.history.Stats(ctx)
		if err != nil {
			logger.WarnCF("results", "results.stats_failed", map[string]interface{}{
				"error": err,
			})
		} else if err := writeFragment(slot, statsTpl, statsView(stats)); err != nil {
			logger.WarnCF("results", "results.stats_render_failed", map[string]interface{}{
				"error": err,
			})
		}
	}
}

func historyRows(entries []prediction.HistoryEntry) []historyRow {
	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow{
			ID:          e.ID.String(),
			Timestamp:   e.Timestamp,
			Level:       e.RiskLevel,
			Emoji:       e.RiskLevel.Emoji(),
			Probability: prediction.FormatNumber(e.ProbabilityPercent()),
			Prediction:  e.Prediction,
		})
	}
	return rows
}

func statsView(s prediction.Stats) statsData {
	data := statsData{
		Total:    s.Total,
		Average:  prediction.FormatNumber(s.AverageProbability),
		HighRisk: s.HighRiskCount,
	}

	levels := make([]string, 0, len(s.RiskDistribution))
	for level := range s.RiskDistribution {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		data.Distribution = append(data.Distribution, distributionRow{Level: level, Count: s.RiskDistribution[level]})
	}
	return data
}

func writeFragment(slot view.Element, tpl *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tpl.Name(), err)
	}
	return slot.SetInnerHTML(buf.String())
}
