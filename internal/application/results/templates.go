package results

import "html/template"

const emptyTemplate = `<div class="empty-state">
    <p>No prediction found. Submit the form to analyze a module.</p>
    <a class="btn-back" href="{{.}}">← Back to form</a>
</div>`

const historyTemplate = `{{if .}}<table class="history-table">
    <thead><tr><th>ID</th><th>Time</th><th>Risk</th><th>Probability</th><th>Prediction</th></tr></thead>
    <tbody>
{{- range .}}
        <tr class="history-row risk-{{.Level}}"><td>{{.ID}}</td><td>{{.Timestamp}}</td><td>{{.Emoji}} {{.Level}}</td><td>{{.Probability}}%</td><td>{{.Prediction}}</td></tr>
{{- end}}
    </tbody>
</table>{{else}}<p class="history-empty">No predictions yet.</p>{{end}}`

const statsTemplate = `<div class="stats-grid">
    <div class="stat-item"><div class="stat-label">Total Predictions</div><div class="stat-value">{{.Total}}</div></div>
    <div class="stat-item"><div class="stat-label">Average Probability</div><div class="stat-value">{{.Average}}%</div></div>
    <div class="stat-item"><div class="stat-label">High Risk</div><div class="stat-value">{{.HighRisk}}</div></div>
{{- range .Distribution}}
    <div class="stat-item"><div class="stat-label">{{.Level}}</div><div class="stat-value">{{.Count}}</div></div>
{{- end}}
</div>`

var (
	emptyTpl   = template.Must(template.New("empty").Parse(emptyTemplate))
	historyTpl = template.Must(template.New("history").Parse(historyTemplate))
	statsTpl   = template.Must(template.New("stats").Parse(statsTemplate))
)
