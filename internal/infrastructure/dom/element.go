package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/Nyukimin/failguard/internal/domain/view"
)

// Element はview.Elementの実装
type Element struct {
	node *html.Node
	doc  *Document
}

var _ view.Element = (*Element)(nil)

func (e *Element) ID() string {
	return attr(e.node, "id")
}

func (e *Element) Tag() string {
	return e.node.Data
}

// InnerHTML は子要素をHTMLとして返す
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// SetInnerHTML は子要素をfragmentのパース結果で置き換える
func (e *Element) SetInnerHTML(fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), e.node)
	if err != nil {
		return fmt.Errorf("failed to parse fragment for <%s>: %w", e.node.Data, err)
	}

	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}

	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// TextContent は表示テキストを行単位で返す
func (e *Element) TextContent() string {
	var lines []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				if text := strings.Join(strings.Fields(c.Data), " "); text != "" {
					lines = append(lines, text)
				}
			case html.ElementNode:
				if c.Data == "script" || c.Data == "style" {
					continue
				}
				collect(c)
			}
		}
	}
	collect(e.node)
	return strings.Join(lines, "\n")
}

func (e *Element) Value() string {
	if e.node.Data == "textarea" {
		return e.TextContent()
	}
	return attr(e.node, "value")
}

func (e *Element) SetValue(v string) {
	e.SetAttr("value", v)
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) removeAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

func (e *Element) HasClass(class string) bool {
	return hasClass(e.node, class)
}

// Style はstyle属性から値を取り出す
func (e *Element) Style(prop string) string {
	for _, d := range parseStyle(attr(e.node, "style")) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyle はstyle属性の値を更新（宣言順は維持）
func (e *Element) SetStyle(prop, value string) {
	decls := parseStyle(attr(e.node, "style"))
	found := false
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].value = value
			found = true
		}
	}
	if !found {
		decls = append(decls, declaration{prop: prop, value: value})
	}
	e.SetAttr("style", formatStyle(decls))
}

func (e *Element) Disabled() bool {
	_, ok := e.Attr("disabled")
	return ok
}

func (e *Element) SetDisabled(disabled bool) {
	if disabled {
		e.SetAttr("disabled", "")
		return
	}
	e.removeAttr("disabled")
}

// AppendChild は子要素を末尾に追加（既存の親からは切り離す）
func (e *Element) AppendChild(child view.Element) error {
	c, ok := child.(*Element)
	if !ok {
		return fmt.Errorf("cannot append %T to dom element", child)
	}
	if c.node == e.node {
		return fmt.Errorf("cannot append element to itself")
	}
	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
	return nil
}

func (e *Element) FindByID(id string) (view.Element, bool) {
	n := findFirst(e.node, func(n *html.Node) bool { return attr(n, "id") == id })
	return e.doc.wrap(n)
}

func (e *Element) FindByClass(class string) (view.Element, bool) {
	n := findFirst(e.node, func(n *html.Node) bool { return hasClass(n, class) })
	return e.doc.wrap(n)
}

// ScrollIntoView はスクロール要求を記録し、描画結果にも属性として残す
func (e *Element) ScrollIntoView(behavior string) {
	e.doc.scrolls = append(e.doc.scrolls, Scroll{ID: e.ID(), Behavior: behavior})
	e.SetAttr(ScrollAttr, behavior)
}

func (e *Element) AddEventListener(event string, fn func(view.Element)) {
	byEvent, ok := e.doc.listeners[e.node]
	if !ok {
		byEvent = make(map[string][]func(view.Element))
		e.doc.listeners[e.node] = byEvent
	}
	byEvent[event] = append(byEvent[event], fn)
}

// Dispatch は登録済みリスナーを登録順に呼び出す
func (e *Element) Dispatch(event string) {
	for _, fn := range e.doc.listeners[e.node][event] {
		fn(e)
	}
}

type declaration struct {
	prop  string
	value string
}

func parseStyle(s string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ") + ";"
}
