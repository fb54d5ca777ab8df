package render

import (
	"fmt"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/view"
)

// ScrollBehavior は結果表示時のスクロール指定
const ScrollBehavior = "smooth"

// Renderer は結果・エラー・推奨事項をResultViewへ描画する
type Renderer struct {
	view *view.ResultView
}

// NewRenderer は新しいRendererを作成
func NewRenderer(v *view.ResultView) *Renderer {
	return &Renderer{view: v}
}

// DisplayResult は結果カードを描画し、推奨事項を更新してからスクロールする
func (r *Renderer) DisplayResult(result prediction.Result, req prediction.Request) error {
	fragment, err := ResultHTML(result, req)
	if err != nil {
		return err
	}

	if err := r.view.Content.SetInnerHTML(fragment); err != nil {
		return fmt.Errorf("failed to write result content: %w", err)
	}
	r.view.Section.SetStyle("display", "block")

	if err := r.DisplayRecommendations(result.RiskLevel, result.Probability); err != nil {
		return err
	}

	r.view.Section.ScrollIntoView(ScrollBehavior)
	return nil
}

// ShowError はエラーボックスを描画する（メトリクス・推奨事項は描画しない）
func (r *Renderer) ShowError(message string) error {
	fragment, err := ErrorHTML(message)
	if err != nil {
		return err
	}

	if err := r.view.Content.SetInnerHTML(fragment); err != nil {
		return fmt.Errorf("failed to write error content: %w", err)
	}
	r.view.Section.SetStyle("display", "block")
	r.view.Section.ScrollIntoView(ScrollBehavior)
	return nil
}

// DisplayRecommendations は推奨事項コンテナの内容を置き換える
func (r *Renderer) DisplayRecommendations(level prediction.RiskLevel, probability float64) error {
	fragment, err := RecommendationsHTML(level, probability)
	if err != nil {
		return err
	}

	slot, err := r.EnsureRecommendationsContainer()
	if err != nil {
		return err
	}

	if err := slot.SetInnerHTML(fragment); err != nil {
		return fmt.Errorf("failed to write recommendations: %w", err)
	}
	return nil
}

// EnsureRecommendationsContainer は推奨事項の内側スロットを返す。
// セクションが無ければmain末尾に作成し、スロットが無ければセクション内に作成する。
func (r *Renderer) EnsureRecommendationsContainer() (view.Element, error) {
	doc := r.view.Document

	if section, ok := doc.QueryByClass(view.ClassRecommendations); ok {
		if slot, ok := section.FindByID(view.IDRecommendationsContent); ok {
			return slot, nil
		}

		slot := doc.CreateElement("div")
		slot.SetAttr("id", view.IDRecommendationsContent)
		if err := section.AppendChild(slot); err != nil {
			return nil, fmt.Errorf("failed to attach recommendations slot: %w", err)
		}
		return slot, nil
	}

	section := doc.CreateElement("section")
	section.SetAttr("class", view.ClassRecommendations)
	if err := section.SetInnerHTML(recommendationsSection); err != nil {
		return nil, fmt.Errorf("failed to build recommendations section: %w", err)
	}
	if err := r.view.Main.AppendChild(section); err != nil {
		return nil, fmt.Errorf("failed to attach recommendations section: %w", err)
	}

	slot, ok := section.FindByID(view.IDRecommendationsContent)
	if !ok {
		return nil, fmt.Errorf("%w: #%s", view.ErrMissingElement, view.IDRecommendationsContent)
	}
	return slot, nil
}
