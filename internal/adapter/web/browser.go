package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Nyukimin/failguard/internal/domain/session"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/pkg/logger"
)

// IDAlerts はalert相当のメッセージを差し込む要素ID
const IDAlerts = "alerts"

var alertTpl = template.Must(template.New("alert").Parse(`<div class="alert" role="alert">{{.}}</div>`))

// pageNotifier はalertをページ内のメッセージとして描画する
type pageNotifier struct {
	doc view.Document
}

func (n *pageNotifier) Alert(message string) {
	slot, ok := n.doc.GetElementByID(IDAlerts)
	if !ok {
		logger.WarnCF("web", "alert.dropped", map[string]interface{}{
			"message": message,
		})
		return
	}

	var buf bytes.Buffer
	if err := alertTpl.Execute(&buf, message); err != nil {
		return
	}
	_ = slot.SetInnerHTML(slot.InnerHTML() + buf.String())
}

// redirectNavigator は遷移先を記録し、ハンドラーが303で返す
type redirectNavigator struct {
	location string
}

func (n *redirectNavigator) Navigate(ctx context.Context, route string) error {
	if route == "" {
		return fmt.Errorf("empty route")
	}
	n.location = route
	return nil
}

// sessionID はCookieから有効なセッションIDを取り出す
func (h *Handler) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(h.cookieName)
	if err != nil || !session.IsValidSessionID(c.Value) {
		return "", false
	}
	return c.Value, true
}

// ensureSession は既存のセッションIDを返すか、新規に発行してCookieに設定する。
// Max-Ageを付けないためブラウザを閉じるとCookieは消える。
func (h *Handler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := h.sessionID(r); ok {
		return id
	}

	id := session.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return id
}
