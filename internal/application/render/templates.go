package render

import "html/template"

const resultTemplate = `<div class="result-card" style="background-color: {{.Tint}}; border-left: 6px solid {{.Color}};">
    <div class="result-header">
        <span class="risk-emoji">{{.Emoji}}</span>
        <div class="result-title">
            <h2>Risk Level: {{.RiskLevel}}</h2>
            <p class="result-subtitle">Module Failure Prediction</p>
        </div>
    </div>
    <div class="result-metrics">
        <div class="metric-item">
            <div class="metric-label">Failure Probability</div>
            <div class="metric-widget">
                <div class="progress-bar">
                    <div class="progress-fill" style="width: {{.Width}}; background-color: {{.Color}};"></div>
                </div>
                <div class="metric-value">{{.Probability}}%</div>
            </div>
        </div>
        <div class="metric-item">
            <div class="metric-label">Model Confidence</div>
            <div class="metric-value">{{.Confidence}}%</div>
        </div>
        <div class="metric-item">
            <div class="metric-label">Prediction Status</div>
            <div class="metric-value">{{.Prediction}}</div>
        </div>
    </div>
</div>
<div class="input-summary">
    <h3>Input Module Metrics</h3>
    <div class="metrics-table">
{{- range .Inputs}}
        <div class="metric-row">
            <span class="metric-key">{{.Label}}:</span>
            <span class="metric-val">{{.Value}}</span>
        </div>
{{- end}}
    </div>
</div>`

const errorTemplate = `<div class="error-box">
    <p><strong>❌ Error:</strong> {{.}}</p>
</div>`

const recommendationsTemplate = `{{range .}}<div class="recommendation-item">{{.}}</div>{{end}}`

const recommendationsSection = `<h3>📋 Recommendations</h3><div id="recommendationsContent"></div>`

var (
	resultTpl          = template.Must(template.New("result").Parse(resultTemplate))
	errorTpl           = template.Must(template.New("error").Parse(errorTemplate))
	recommendationsTpl = template.Must(template.New("recommendations").Parse(recommendationsTemplate))
)
