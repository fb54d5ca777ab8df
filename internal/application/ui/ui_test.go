package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/internal/infrastructure/dom"
)

const page = `<!DOCTYPE html><html><body><main>
<form id="predictionForm">
<label>LOC <span class="tooltip">?<span class="tooltip-text" style="visibility: hidden;">Lines of Code</span></span></label>
<input id="loc"><input id="wmc"><input id="rfc"><input id="cbo"><input id="lcom">
<input id="code_churn"><input id="num_developers"><input id="past_defects">
<label>LCOM <span class="tooltip">?<span class="tooltip-text" style="visibility: hidden;">Lack of Cohesion</span></span></label>
<button class="btn-submit">Go</button>
</form>
<section id="resultSection"><div id="resultContent"><div class="result-card">Risk Level: LOW</div></div></section>
</main></body></html>`

func parse(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	return doc
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type recordingNotifier struct {
	alerts []string
}

func (n *recordingNotifier) Alert(message string) {
	n.alerts = append(n.alerts, message)
}

func TestFillExample(t *testing.T) {
	doc := parse(t)
	fv, err := view.BindFormView(doc, prediction.FieldNames)
	require.NoError(t, err)

	FillExample(fv)

	want := map[string]string{
		"loc":            "450",
		"wmc":            "14",
		"rfc":            "22",
		"cbo":            "7",
		"lcom":           "0.55",
		"code_churn":     "12",
		"num_developers": "4",
		"past_defects":   "3",
	}
	for id, v := range want {
		assert.Equal(t, v, fv.FieldValue(id), id)
	}

	// 書き込んだ値はそのまま有効な入力になる
	req := prediction.ParseRequest(fv.FieldValue)
	assert.NoError(t, req.Validate())
}

func TestCopyResults(t *testing.T) {
	doc := parse(t)
	cb := &fakeClipboard{}
	n := &recordingNotifier{}

	require.NoError(t, CopyResults(doc, "resultContent", cb, n))
	assert.Equal(t, "Risk Level: LOW", cb.text)
	assert.Equal(t, []string{CopiedMessage}, n.alerts)
}

func TestCopyResults_MissingElement(t *testing.T) {
	n := &recordingNotifier{}

	err := CopyResults(parse(t), "nope", &fakeClipboard{}, n)
	assert.True(t, errors.Is(err, view.ErrMissingElement))
	assert.Empty(t, n.alerts)
}

func TestCopyResults_ClipboardFailure(t *testing.T) {
	n := &recordingNotifier{}

	err := CopyResults(parse(t), "resultContent", &fakeClipboard{err: errors.New("no xclip")}, n)
	assert.Error(t, err)
	assert.Empty(t, n.alerts, "no notification when the copy fails")
}

func TestTooltips_Init(t *testing.T) {
	doc := parse(t)
	tips := NewTooltips()

	assert.Equal(t, 2, tips.Init(doc))
	// 2回目は登録しない
	assert.Equal(t, 0, tips.Init(doc))

	tip := doc.QueryAllByClass(view.ClassTooltip)[0]
	text, ok := tip.FindByClass(view.ClassTooltipText)
	require.True(t, ok)

	tip.Dispatch("mouseenter")
	assert.Equal(t, "visible", text.Style("visibility"))

	tip.Dispatch("mouseleave")
	assert.Equal(t, "hidden", text.Style("visibility"))

	// 他のツールチップには影響しない
	other, _ := doc.QueryAllByClass(view.ClassTooltip)[1].FindByClass(view.ClassTooltipText)
	assert.Equal(t, "hidden", other.Style("visibility"))
}

func TestTooltips_Release(t *testing.T) {
	doc := parse(t)
	tips := NewTooltips()

	tips.Init(doc)
	tips.Release(doc)
	assert.Equal(t, 2, tips.Init(doc))
}
