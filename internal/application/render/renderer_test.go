package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/internal/infrastructure/dom"
)

const page = `<!DOCTYPE html><html><body><main>
<section id="resultSection" style="display: none;"><div id="resultContent"></div></section>
</main></body></html>`

func newView(t *testing.T, markup string) (*dom.Document, *view.ResultView) {
	t.Helper()
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	rv, err := view.BindResultView(doc)
	require.NoError(t, err)
	return doc, rv
}

func highResult() prediction.Result {
	return prediction.Result{
		Success:      true,
		RiskLevel:    prediction.RiskHigh,
		RiskColor:    "#dc3545",
		Probability:  87.5,
		Confidence:   75,
		Prediction:   "DEFECTIVE",
		PredictionID: "12",
	}
}

func recommendationTexts(doc *dom.Document) []string {
	var out []string
	for _, el := range doc.QueryAllByClass("recommendation-item") {
		out = append(out, el.TextContent())
	}
	return out
}

func TestResultHTML(t *testing.T) {
	html, err := ResultHTML(highResult(), prediction.ExampleRequest())
	require.NoError(t, err)

	assert.Contains(t, html, "Risk Level: HIGH")
	assert.Contains(t, html, "⚠️")
	assert.Contains(t, html, "width: 87.5%")
	assert.Contains(t, html, "background-color: #dc3545;")
	assert.Contains(t, html, "background-color: #dc354520;")
	assert.Contains(t, html, "87.5%</div>")
	assert.Contains(t, html, "75%</div>")
	assert.Contains(t, html, "DEFECTIVE")
	assert.Contains(t, html, "Lines of Code (LOC):")
	assert.Contains(t, html, `<span class="metric-val">0.55</span>`)
	assert.Equal(t, 8, strings.Count(html, `class="metric-row"`))
}

func TestResultHTML_InvalidColorFallsBack(t *testing.T) {
	r := highResult()
	r.RiskColor = "red; background: url(x)"

	html, err := ResultHTML(r, prediction.ExampleRequest())
	require.NoError(t, err)

	assert.Contains(t, html, "solid "+DefaultColor)
	assert.NotContains(t, html, "url(x)")
}

func TestNormalizeColor(t *testing.T) {
	assert.Equal(t, "#eab308", normalizeColor("#EAB308"))
	assert.Equal(t, "#aabbcc", normalizeColor("#abc"))
	assert.Equal(t, DefaultColor, normalizeColor(""))
	assert.Equal(t, DefaultColor, normalizeColor("green"))
}

func TestErrorHTML_EscapesMessage(t *testing.T) {
	html, err := ErrorHTML("<b>model unavailable</b>")
	require.NoError(t, err)

	assert.Contains(t, html, `class="error-box"`)
	assert.Contains(t, html, "&lt;b&gt;model unavailable&lt;/b&gt;")
}

func TestRenderer_DisplayResult(t *testing.T) {
	doc, rv := newView(t, page)
	r := NewRenderer(rv)

	require.NoError(t, r.DisplayResult(highResult(), prediction.ExampleRequest()))

	assert.Equal(t, "block", rv.Section.Style("display"))
	assert.Contains(t, rv.Content.TextContent(), "Risk Level: HIGH")
	assert.Equal(t, prediction.Recommendations(prediction.RiskHigh, 0), recommendationTexts(doc))

	scrolls := doc.Scrolls()
	require.Len(t, scrolls, 1)
	assert.Equal(t, dom.Scroll{ID: view.IDResultSection, Behavior: "smooth"}, scrolls[0])
}

func TestRenderer_DisplayResult_UnknownLevelUsesFallback(t *testing.T) {
	doc, rv := newView(t, page)
	r := highResult()
	r.RiskLevel = "SEVERE"

	require.NoError(t, NewRenderer(rv).DisplayResult(r, prediction.ExampleRequest()))

	assert.Equal(t, prediction.Recommendations(prediction.RiskLow, 0), recommendationTexts(doc))
	assert.Contains(t, rv.Content.TextContent(), "✅")
}

func TestRenderer_ShowError(t *testing.T) {
	doc, rv := newView(t, page)

	require.NoError(t, NewRenderer(rv).ShowError("model unavailable"))

	assert.Contains(t, rv.Content.TextContent(), "model unavailable")
	assert.Equal(t, "block", rv.Section.Style("display"))
	assert.Empty(t, doc.QueryAllByClass(view.ClassRecommendations))
	assert.Empty(t, doc.QueryAllByClass("metric-row"))
	assert.Len(t, doc.Scrolls(), 1)
}

func TestRenderer_RecommendationsIdempotent(t *testing.T) {
	doc, rv := newView(t, page)
	r := NewRenderer(rv)

	require.NoError(t, r.DisplayRecommendations(prediction.RiskHigh, 90))
	require.NoError(t, r.DisplayRecommendations(prediction.RiskMedium, 50))

	assert.Len(t, doc.QueryAllByClass(view.ClassRecommendations), 1)
	assert.Equal(t, 1, strings.Count(doc.String(), `id="recommendationsContent"`))
	assert.Equal(t, prediction.Recommendations(prediction.RiskMedium, 0), recommendationTexts(doc))

	section, ok := rv.Main.FindByClass(view.ClassRecommendations)
	require.True(t, ok, "section should be appended to main")
	assert.Contains(t, section.TextContent(), "📋 Recommendations")
}

func TestRenderer_ReusesExistingSectionAndCreatesSlot(t *testing.T) {
	markup := `<html><body><main>
<section id="resultSection"><div id="resultContent"></div></section>
<section class="recommendations"><h3>Advice</h3></section>
</main></body></html>`
	doc, rv := newView(t, markup)
	r := NewRenderer(rv)

	first, err := r.EnsureRecommendationsContainer()
	require.NoError(t, err)
	second, err := r.EnsureRecommendationsContainer()
	require.NoError(t, err)

	assert.Equal(t, view.IDRecommendationsContent, first.ID())
	assert.Equal(t, first.ID(), second.ID())
	assert.Len(t, doc.QueryAllByClass(view.ClassRecommendations), 1)
	assert.Equal(t, 1, strings.Count(doc.String(), `id="recommendationsContent"`))
	assert.Contains(t, doc.String(), "<h3>Advice</h3>")
}
