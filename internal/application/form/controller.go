package form

import (
	"context"
	"fmt"

	"github.com/Nyukimin/failguard/internal/application/render"
	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/domain/session"
	"github.com/Nyukimin/failguard/internal/domain/view"
	"github.com/Nyukimin/failguard/pkg/logger"
)

// ユーザーに表示する文言
const (
	InvalidInputMessage   = "Please fill in all fields with valid numbers."
	AnalyzingLabel        = "⏳ Analyzing..."
	PredictionFailedText  = "Prediction failed"
	ConnectFailureMessage = "Failed to connect to server. Make sure the prediction service is running."
)

// Outcome は1回の送信の結果
type Outcome int

const (
	// Rejected は入力検証で拒否された（予測サービスは呼ばれていない）
	Rejected Outcome = iota
	// Navigated は結果を保存して結果ページへ遷移した
	Navigated
	// Failed はエラーをインライン表示した
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Navigated:
		return "navigated"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Controller は予測フォームの送信を処理する
type Controller struct {
	view         *view.FormView
	renderer     *render.Renderer
	predictor    prediction.Predictor
	store        session.Store
	navigator    view.Navigator
	notifier     view.Notifier
	resultsRoute string
}

// NewController は新しいControllerを作成
func NewController(
	v *view.FormView,
	predictor prediction.Predictor,
	store session.Store,
	navigator view.Navigator,
	notifier view.Notifier,
	resultsRoute string,
) *Controller {
	return &Controller{
		view:         v,
		renderer:     render.NewRenderer(v.ResultView),
		predictor:    predictor,
		store:        store,
		navigator:    navigator,
		notifier:     notifier,
		resultsRoute: resultsRoute,
	}
}

// ReadRequest はフォームの入力欄から予測要求を組み立てる
func (c *Controller) ReadRequest() prediction.Request {
	return prediction.ParseRequest(c.view.FieldValue)
}

// Submit はフォーム送信を1回処理する
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	req := c.ReadRequest()
	if err := req.Validate(); err != nil {
		logger.DebugCF("form", "form.rejected", map[string]interface{}{
			"error": err,
		})
		c.notifier.Alert(InvalidInputMessage)
		return Rejected, nil
	}

	restore := c.busy()
	defer restore()

	result, err := c.predictor.Predict(ctx, req)
	if err != nil {
		logger.ErrorCF("form", "predict.transport_failed", map[string]interface{}{
			"error": err,
		})
		return Failed, c.renderer.ShowError(ConnectFailureMessage)
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = PredictionFailedText
		}
		logger.WarnCF("form", "predict.failed", map[string]interface{}{
			"error": msg,
		})
		return Failed, c.renderer.ShowError(msg)
	}

	if err := c.handoff(ctx, result); err != nil {
		logger.ErrorCF("form", "predict.handoff_failed", map[string]interface{}{
			"prediction_id": result.PredictionID.String(),
			"error":         err,
		})
		return Failed, c.renderer.ShowError(ConnectFailureMessage)
	}

	logger.InfoCF("form", "predict.succeeded", map[string]interface{}{
		"prediction_id": result.PredictionID.String(),
		"risk_level":    string(result.RiskLevel),
	})
	return Navigated, nil
}

// handoff は結果をセッションに書き込んでから結果ページへ遷移する
func (c *Controller) handoff(ctx context.Context, result prediction.Result) error {
	body, err := result.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := c.store.SetItem(ctx, session.KeyLastPrediction, string(body)); err != nil {
		return fmt.Errorf("failed to store %s: %w", session.KeyLastPrediction, err)
	}
	if err := c.store.SetItem(ctx, session.KeyLastPredictionID, result.PredictionID.String()); err != nil {
		return fmt.Errorf("failed to store %s: %w", session.KeyLastPredictionID, err)
	}

	if err := c.navigator.Navigate(ctx, c.resultsRoute); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", c.resultsRoute, err)
	}
	return nil
}

// busy は送信ボタンを処理中表示にし、元に戻す関数を返す
func (c *Controller) busy() func() {
	submit := c.view.Submit
	label := submit.InnerHTML()
	disabled := submit.Disabled()

	_ = submit.SetInnerHTML(AnalyzingLabel)
	submit.SetDisabled(true)

	return func() {
		_ = submit.SetInnerHTML(label)
		submit.SetDisabled(disabled)
	}
}
