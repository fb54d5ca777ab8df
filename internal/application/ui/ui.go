package ui

import (
	"fmt"
	"sync"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/view"
)

// CopiedMessage はクリップボードへのコピー完了通知
const CopiedMessage = "Results copied to clipboard!"

// FillExample は8つの入力欄にデモ用の固定値を書き込む
func FillExample(v *view.FormView) {
	for _, fv := range prediction.ExampleRequest().Fields() {
		v.SetFieldValue(fv.Name, prediction.FormatNumber(fv.Value))
	}
}

// CopyResults は要素のテキストをクリップボードへコピーし、成功時のみ通知する
func CopyResults(doc view.Document, id string, cb view.Clipboard, n view.Notifier) error {
	el, ok := doc.GetElementByID(id)
	if !ok {
		return fmt.Errorf("%w: #%s", view.ErrMissingElement, id)
	}

	if err := cb.WriteText(el.TextContent()); err != nil {
		return fmt.Errorf("failed to copy #%s: %w", id, err)
	}

	n.Alert(CopiedMessage)
	return nil
}

// Tooltips はドキュメントごとに1回だけツールチップのホバー処理を登録する
type Tooltips struct {
	mu   sync.Mutex
	done map[view.Document]struct{}
}

// NewTooltips は新しいTooltipsを作成
func NewTooltips() *Tooltips {
	return &Tooltips{done: make(map[view.Document]struct{})}
}

// Init は各 .tooltip に mouseenter / mouseleave を登録し、登録した数を返す。
// 同じドキュメントへの2回目以降の呼び出しは何もしない。
func (t *Tooltips) Init(doc view.Document) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.done[doc]; ok {
		return 0
	}
	t.done[doc] = struct{}{}

	tips := doc.QueryAllByClass(view.ClassTooltip)
	for _, tip := range tips {
		tip.AddEventListener("mouseenter", setTooltipVisibility("visible"))
		tip.AddEventListener("mouseleave", setTooltipVisibility("hidden"))
	}
	return len(tips)
}

// Release はドキュメントの登録記録を破棄する
func (t *Tooltips) Release(doc view.Document) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.done, doc)
}

func setTooltipVisibility(visibility string) func(view.Element) {
	return func(tip view.Element) {
		if text, ok := tip.FindByClass(view.ClassTooltipText); ok {
			text.SetStyle("visibility", visibility)
		}
	}
}
