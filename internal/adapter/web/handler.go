package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Nyukimin/failguard/internal/application/form"
	"github.com/Nyukimin/failguard/internal/application/results"
	"github.com/Nyukimin/failguard/internal/application/ui"
	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/session"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/internal/infrastructure/dom"
	"github.com/Nyukimin/failguard/internal/infrastructure/health"
	"github.com/Nyukimin/failguard/pkg/logger"
)

// PredictPath はフォームの送信先
const PredictPath = "/predict"

// フォーム送信ボディの上限
const maxFormBytes = 64 << 10

// Routes はページのパス
type Routes struct {
	Form    string
	Results string
}

// Options はHandlerの依存関係
type Options struct {
	Predictor  prediction.Predictor
	History    prediction.HistoryReader // nilなら結果ページに履歴を出さない
	Sessions   session.Repository
	Checker    *health.Checker
	Routes     Routes
	CookieName string
}

// Handler はFailGuardのWebフロントエンド
type Handler struct {
	predictor  prediction.Predictor
	history    prediction.HistoryReader
	sessions   session.Repository
	checker    *health.Checker
	tooltips   *ui.Tooltips
	routes     Routes
	cookieName string
	static     http.Handler
}

// NewHandler は新しいHandlerを作成
func NewHandler(opts Options) *Handler {
	checker := opts.Checker
	if checker == nil {
		checker = health.NewChecker()
	}

	return &Handler{
		predictor:  opts.Predictor,
		history:    opts.History,
		sessions:   opts.Sessions,
		checker:    checker,
		tooltips:   ui.NewTooltips(),
		routes:     opts.Routes,
		cookieName: opts.CookieName,
		static:     http.StripPrefix(StaticPrefix, http.FileServer(http.FS(staticFiles()))),
	}
}

// ServeHTTP はHTTPリクエストを処理
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// ルーティング
	switch {
	case r.URL.Path == "/health" && r.Method == http.MethodGet:
		h.handleHealth(w, r)
	case r.URL.Path == h.routes.Form && r.Method == http.MethodGet:
		h.handleForm(w, r)
	case r.URL.Path == PredictPath && r.Method == http.MethodPost:
		h.handlePredict(w, r)
	case r.URL.Path == h.routes.Results && r.Method == http.MethodGet:
		h.handleResults(w, r)
	case strings.HasPrefix(r.URL.Path, StaticPrefix) && r.Method == http.MethodGet:
		h.static.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleHealth はこのサービスと予測サービスのヘルスチェック
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Run(r.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}

// handleForm はフォームページを返す（?example=1 でデモ値を入力済みにする）
func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	doc, fv, ok := h.formPage(w)
	if !ok {
		return
	}

	if r.URL.Query().Get("example") == "1" {
		ui.FillExample(fv)
	}

	h.writeDocument(w, http.StatusOK, doc)
}

// handlePredict はフォーム送信を処理し、成功時は結果ページへ303で遷移させる
func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	doc, fv, ok := h.formPage(w)
	if !ok {
		return
	}

	// 送信値をそのまま入力欄に戻す（再表示時に入力が残る）
	for _, name := range prediction.FieldNames {
		fv.SetFieldValue(name, r.PostForm.Get(name))
	}

	sid := h.ensureSession(w, r)
	nav := &redirectNavigator{}
	ctrl := form.NewController(
		fv,
		h.predictor,
		session.NewScopedStore(h.sessions, sid),
		nav,
		&pageNotifier{doc: doc},
		h.routes.Results,
	)

	outcome, err := ctrl.Submit(r.Context())
	if err != nil {
		logger.ErrorCF("web", "predict.render_failed", map[string]interface{}{
			"session_id": sid,
			"error":      err,
		})
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.DebugCF("web", "predict.outcome", map[string]interface{}{
		"session_id": sid,
		"outcome":    outcome.String(),
	})

	if outcome == form.Navigated {
		http.Redirect(w, r, nav.location, http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	if outcome == form.Rejected {
		status = http.StatusUnprocessableEntity
	}
	h.writeDocument(w, status, doc)
}

// handleResults は結果ページを返す
func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	doc, err := buildDashboard(h.routes.Form)
	if err != nil {
		h.internalError(w, "results.build_failed", err)
		return
	}

	rv, err := view.BindResultView(doc)
	if err != nil {
		h.internalError(w, "results.bind_failed", err)
		return
	}

	var store session.Store = emptyStore{}
	if sid, ok := h.sessionID(r); ok {
		store = session.NewScopedStore(h.sessions, sid)
	}

	if _, err := results.NewView(rv, store, h.history, h.routes.Form).Render(r.Context()); err != nil {
		h.internalError(w, "results.render_failed", err)
		return
	}

	h.writeDocument(w, http.StatusOK, doc)
}

// formPage はフォームページを組み立て、要素をバインドしてツールチップを初期化する
func (h *Handler) formPage(w http.ResponseWriter) (*dom.Document, *view.FormView, bool) {
	doc, err := buildIndex(h.routes.Form, PredictPath)
	if err != nil {
		h.internalError(w, "form.build_failed", err)
		return nil, nil, false
	}

	fv, err := view.BindFormView(doc, prediction.FieldNames)
	if err != nil {
		h.internalError(w, "form.bind_failed", err)
		return nil, nil, false
	}

	h.tooltips.Init(doc)
	return doc, fv, true
}

func (h *Handler) writeDocument(w http.ResponseWriter, status int, doc *dom.Document) {
	defer h.tooltips.Release(doc)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := doc.Render(w); err != nil {
		logger.WarnCF("web", "page.write_failed", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	logger.ErrorCF("web", msg, map[string]interface{}{
		"error": err,
	})
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// emptyStore はセッションが無いリクエスト用の空のStore
type emptyStore struct{}

func (emptyStore) SetItem(ctx context.Context, key, value string) error { return nil }

func (emptyStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}
