package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
)

// DefaultColor はリスク色が不正な場合に使うニュートラルグレー
const DefaultColor = "#6c757d"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type inputRow struct {
	Label string
	Value string
}

type resultData struct {
	Color       template.CSS
	Tint        template.CSS
	Width       template.CSS
	Emoji       string
	RiskLevel   prediction.RiskLevel
	Probability string
	Confidence  string
	Prediction  string
	Inputs      []inputRow
}

// ResultHTML は結果カードと入力エコーのフラグメントを生成する
func ResultHTML(result prediction.Result, req prediction.Request) (string, error) {
	color := normalizeColor(result.RiskColor)
	probability := prediction.FormatNumber(result.Probability)

	data := resultData{
		Color:       template.CSS(color),
		Tint:        template.CSS(color + "20"),
		Width:       template.CSS(probability + "%"),
		Emoji:       result.RiskLevel.Emoji(),
		RiskLevel:   result.RiskLevel,
		Probability: probability,
		Confidence:  prediction.FormatNumber(result.Confidence),
		Prediction:  result.Prediction,
	}
	for _, fv := range req.Fields() {
		data.Inputs = append(data.Inputs, inputRow{Label: fv.Label, Value: prediction.FormatNumber(fv.Value)})
	}

	var buf bytes.Buffer
	if err := resultTpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render result: %w", err)
	}
	return buf.String(), nil
}

// ErrorHTML はエラーボックスのフラグメントを生成する
func ErrorHTML(message string) (string, error) {
	var buf bytes.Buffer
	if err := errorTpl.Execute(&buf, message); err != nil {
		return "", fmt.Errorf("failed to render error: %w", err)
	}
	return buf.String(), nil
}

// RecommendationsHTML は推奨事項リストのフラグメントを生成する
func RecommendationsHTML(level prediction.RiskLevel, probability float64) (string, error) {
	var buf bytes.Buffer
	if err := recommendationsTpl.Execute(&buf, prediction.Recommendations(level, probability)); err != nil {
		return "", fmt.Errorf("failed to render recommendations: %w", err)
	}
	return buf.String(), nil
}

// normalizeColor は #rgb / #rrggbb を #rrggbb に揃える。それ以外はDefaultColor。
func normalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if !hexColor.MatchString(c) {
		return DefaultColor
	}
	if len(c) == 4 {
		return "#" + strings.Repeat(c[1:2], 2) + strings.Repeat(c[2:3], 2) + strings.Repeat(c[3:4], 2)
	}
	return strings.ToLower(c)
}
