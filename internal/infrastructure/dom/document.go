// Package dom implements view.Document on top of golang.org/x/net/html.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Nyukimin/failguard/internal/domain/view"
)

// ScrollAttr はScrollIntoViewの要求を描画結果に残す属性名
const ScrollAttr = "data-scroll-into-view"

// Scroll はScrollIntoViewの呼び出し記録
type Scroll struct {
	ID       string
	Behavior string
}

// Document はパース済みHTMLツリー
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]func(view.Element)
	scrolls   []Scroll
}

// Parse はHTMLを読み込みDocumentを作成
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]func(view.Element)),
	}, nil
}

// ParseString は文字列からDocumentを作成
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render はツリー全体をHTMLとして書き出す
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String はツリー全体のHTMLを返す
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Scrolls はScrollIntoViewの呼び出し履歴を返す
func (d *Document) Scrolls() []Scroll {
	out := make([]Scroll, len(d.scrolls))
	copy(out, d.scrolls)
	return out
}

// GetElementByID はidで要素を検索
func (d *Document) GetElementByID(id string) (view.Element, bool) {
	n := findFirst(d.root, func(n *html.Node) bool { return attr(n, "id") == id })
	return d.wrap(n)
}

// QueryByClass はクラスを持つ最初の要素を返す
func (d *Document) QueryByClass(class string) (view.Element, bool) {
	n := findFirst(d.root, func(n *html.Node) bool { return hasClass(n, class) })
	return d.wrap(n)
}

// QueryAllByClass はクラスを持つ全要素を文書順に返す
func (d *Document) QueryAllByClass(class string) []view.Element {
	var out []view.Element
	walk(d.root, func(n *html.Node) {
		if hasClass(n, class) {
			out = append(out, &Element{node: n, doc: d})
		}
	})
	return out
}

// QueryByTag はタグ名で最初の要素を返す
func (d *Document) QueryByTag(tag string) (view.Element, bool) {
	tag = strings.ToLower(tag)
	n := findFirst(d.root, func(n *html.Node) bool { return n.Data == tag })
	return d.wrap(n)
}

// CreateElement はどこにも接続されていない要素を作成
func (d *Document) CreateElement(tag string) view.Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return &Element{node: n, doc: d}
}

func (d *Document) wrap(n *html.Node) (view.Element, bool) {
	if n == nil {
		return nil, false
	}
	return &Element{node: n, doc: d}, true
}

func walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
