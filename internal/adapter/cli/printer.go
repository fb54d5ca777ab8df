package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	titleColor   = color.New(color.FgMagenta, color.Bold)
)

// Printer は端末への色付き出力
type Printer struct {
	out io.Writer
}

// NewPrinter は新しいPrinterを作成
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Success(format string, args ...interface{}) {
	successColor.Fprintf(p.out, "✅ "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...interface{}) {
	errorColor.Fprintf(p.out, "❌ "+format+"\n", args...)
}

func (p *Printer) Warning(format string, args ...interface{}) {
	warningColor.Fprintf(p.out, "⚠️  "+format+"\n", args...)
}

func (p *Printer) Info(format string, args ...interface{}) {
	infoColor.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Title(format string, args ...interface{}) {
	titleColor.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Separator() {
	fmt.Fprintln(p.out, strings.Repeat("─", 60))
}

// Alert は通知を成功メッセージとして表示する
func (p *Printer) Alert(message string) {
	p.Success("%s", message)
}

// riskColor はリスク区分に対応する端末色
func riskColor(level prediction.RiskLevel) *color.Color {
	switch level {
	case prediction.RiskHigh:
		return errorColor
	case prediction.RiskMedium:
		return warningColor
	default:
		return successColor
	}
}

// Result は予測結果と推奨事項を表示する
func (p *Printer) Result(r prediction.Result, req prediction.Request) {
	p.Separator()
	riskColor(r.RiskLevel).Fprintf(p.out, "%s Risk Level: %s\n", r.RiskLevel.Emoji(), r.RiskLevel)
	fmt.Fprintf(p.out, "  Failure Probability: %s%%\n", prediction.FormatNumber(r.Probability))
	fmt.Fprintf(p.out, "  Model Confidence:    %s%%\n", prediction.FormatNumber(r.Confidence))
	fmt.Fprintf(p.out, "  Prediction Status:   %s\n", r.Prediction)
	if r.PredictionID != "" {
		fmt.Fprintf(p.out, "  Prediction ID:       %s\n", r.PredictionID)
	}

	p.Separator()
	p.Title("Input Module Metrics")
	for _, fv := range req.Fields() {
		fmt.Fprintf(p.out, "  %-34s %s\n", fv.Label+":", prediction.FormatNumber(fv.Value))
	}

	p.Separator()
	p.Title("📋 Recommendations")
	for _, rec := range prediction.Recommendations(r.RiskLevel, r.Probability) {
		fmt.Fprintf(p.out, "  • %s\n", rec)
	}
}

// History は予測履歴を表形式で表示する
func (p *Printer) History(entries []prediction.HistoryEntry) {
	if len(entries) == 0 {
		p.Info("No predictions yet.")
		return
	}

	fmt.Fprintf(p.out, "%-8s %-20s %-8s %-12s %s\n", "ID", "TIME", "RISK", "PROBABILITY", "PREDICTION")
	for _, e := range entries {
		level := riskColor(e.RiskLevel).Sprintf("%-8s", e.RiskLevel)
		fmt.Fprintf(p.out, "%-8s %-20s %s %-12s %s\n",
			e.ID, e.Timestamp, level, prediction.FormatNumber(e.ProbabilityPercent())+"%", e.Prediction)
	}
}

// Entry は保存済みの予測1件を表示する
func (p *Printer) Entry(e prediction.HistoryEntry) {
	req := prediction.Request{
		LOC:           e.LOC,
		WMC:           e.WMC,
		RFC:           e.RFC,
		CBO:           e.CBO,
		LCOM:          e.LCOM,
		CodeChurn:     e.CodeChurn,
		NumDevelopers: e.NumDevelopers,
		PastDefects:   e.PastDefects,
	}
	p.Title("Prediction %s (%s)", e.ID, e.Timestamp)
	p.Result(prediction.Result{
		Success:      true,
		RiskLevel:    e.RiskLevel,
		Probability:  e.ProbabilityPercent(),
		Confidence:   e.Confidence,
		Prediction:   e.Prediction,
		PredictionID: e.ID,
	}, req)
}

// Stats は集計を表示する
func (p *Printer) Stats(s prediction.Stats) {
	p.Title("📊 Statistics")
	fmt.Fprintf(p.out, "  Total Predictions:   %d\n", s.Total)
	fmt.Fprintf(p.out, "  Average Probability: %s%%\n", prediction.FormatNumber(s.AverageProbability))
	fmt.Fprintf(p.out, "  High Risk:           %d\n", s.HighRiskCount)
	for _, level := range []prediction.RiskLevel{prediction.RiskHigh, prediction.RiskMedium, prediction.RiskLow} {
		if n, ok := s.RiskDistribution[string(level)]; ok {
			riskColor(level).Fprintf(p.out, "  %-20s %d\n", string(level)+":", n)
		}
	}
}

// Features は必要な入力項目を表示する
func (p *Printer) Features(f prediction.Features) {
	p.Title("Required features")
	for _, name := range f.Features {
		fmt.Fprintf(p.out, "  %-16s %s\n", name, f.Descriptions[name])
	}
}
