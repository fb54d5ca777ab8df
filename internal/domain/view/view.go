package view

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingElement は必須要素がドキュメントに存在しない場合のエラー
var ErrMissingElement = errors.New("required element missing")

// 統合点となる要素ID・クラス
const (
	IDPredictionForm         = "predictionForm"
	IDResultContent          = "resultContent"
	IDResultSection          = "resultSection"
	IDRecommendationsContent = "recommendationsContent"
	ClassSubmit              = "btn-submit"
	ClassRecommendations     = "recommendations"
	ClassTooltip             = "tooltip"
	ClassTooltipText         = "tooltip-text"
	TagMain                  = "main"
)

// Element はドキュメント内の1要素へのハンドル
type Element interface {
	ID() string
	Tag() string

	InnerHTML() string
	SetInnerHTML(fragment string) error
	TextContent() string

	Value() string
	SetValue(v string)

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	HasClass(class string) bool

	Style(prop string) string
	SetStyle(prop, value string)

	Disabled() bool
	SetDisabled(disabled bool)

	AppendChild(child Element) error
	FindByID(id string) (Element, bool)
	FindByClass(class string) (Element, bool)

	ScrollIntoView(behavior string)
	AddEventListener(event string, fn func(Element))
	Dispatch(event string)
}

// Document はページ全体
type Document interface {
	GetElementByID(id string) (Element, bool)
	QueryByClass(class string) (Element, bool)
	QueryAllByClass(class string) []Element
	QueryByTag(tag string) (Element, bool)
	CreateElement(tag string) Element
}

// Navigator はページ遷移を行う
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// Notifier はユーザーへのブロッキング通知（alert相当）
type Notifier interface {
	Alert(message string)
}

// Clipboard はシステムクリップボードへの書き込み
type Clipboard interface {
	WriteText(text string) error
}

// ResultView は結果表示に必要な要素ハンドル
type ResultView struct {
	Document Document
	Content  Element
	Section  Element
	Main     Element
}

// FormView は予測フォームに必要な要素ハンドル
type FormView struct {
	*ResultView
	Form   Element
	Submit Element
	Fields map[string]Element
}

// BindResultView は結果表示用の要素を一度だけ解決する
func BindResultView(doc Document) (*ResultView, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document", ErrMissingElement)
	}

	content, ok := doc.GetElementByID(IDResultContent)
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, IDResultContent)
	}

	section, ok := doc.GetElementByID(IDResultSection)
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, IDResultSection)
	}

	main, ok := doc.QueryByTag(TagMain)
	if !ok {
		return nil, fmt.Errorf("%w: <%s>", ErrMissingElement, TagMain)
	}

	return &ResultView{
		Document: doc,
		Content:  content,
		Section:  section,
		Main:     main,
	}, nil
}

// BindFormView はフォーム・入力欄・送信ボタンと結果表示要素を解決する
func BindFormView(doc Document, fieldIDs []string) (*FormView, error) {
	rv, err := BindResultView(doc)
	if err != nil {
		return nil, err
	}

	form, ok := doc.GetElementByID(IDPredictionForm)
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrMissingElement, IDPredictionForm)
	}

	submit, ok := form.FindByClass(ClassSubmit)
	if !ok {
		return nil, fmt.Errorf("%w: .%s", ErrMissingElement, ClassSubmit)
	}

	fields := make(map[string]Element, len(fieldIDs))
	for _, id := range fieldIDs {
		el, ok := form.FindByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: #%s", ErrMissingElement, id)
		}
		fields[id] = el
	}

	return &FormView{
		ResultView: rv,
		Form:       form,
		Submit:     submit,
		Fields:     fields,
	}, nil
}

// FieldValue は入力欄の値を返す（未バインドなら空文字）
func (v *FormView) FieldValue(id string) string {
	if el, ok := v.Fields[id]; ok {
		return el.Value()
	}
	return ""
}

// SetFieldValue は入力欄に値を書き込む
func (v *FormView) SetFieldValue(id, value string) {
	if el, ok := v.Fields[id]; ok {
		el.SetValue(value)
	}
}
