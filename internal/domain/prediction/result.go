package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RiskLevel は予測されたモジュール障害リスクの区分
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Emoji はリスク区分に対応する表示用グリフを返す
func (l RiskLevel) Emoji() string {
	switch l {
	case RiskHigh:
		return "⚠️"
	case RiskMedium:
		return "⚡"
	default:
		return "✅"
	}
}

// ID は予測の不透明な識別子。APIは数値または文字列で返す。
type ID string

// UnmarshalJSON は文字列・数値・nullのいずれも受け付ける
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("prediction_id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String は識別子の文字列表現を返す
func (id ID) String() string {
	return string(id)
}

// Result は予測APIのレスポンス
type Result struct {
	Success       bool      `json:"success"`
	RiskLevel     RiskLevel `json:"risk_level,omitempty"`
	RiskColor     string    `json:"risk_color,omitempty"`
	Probability   float64   `json:"probability,omitempty"`
	Confidence    float64   `json:"confidence,omitempty"`
	Prediction    string    `json:"prediction,omitempty"`
	PredictionID  ID        `json:"prediction_id,omitempty"`
	Error         string    `json:"error,omitempty"`
	InputFeatures *Request  `json:"input_features,omitempty"`

	raw json.RawMessage
}

// DecodeResult はレスポンスボディをResultに変換し、元のJSONを保持する
func DecodeResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("failed to decode prediction result: %w", err)
	}
	r.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return r, nil
}

// JSON はセッション保存用の完全なJSON表現を返す。
// サーバーから受け取ったボディがあればそのまま返す。
func (r Result) JSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return append([]byte(nil), r.raw...), nil
	}
	return json.Marshal(r)
}

// HistoryEntry は予測サービスに保存された過去の予測
type HistoryEntry struct {
	ID            ID        `json:"id"`
	Timestamp     string    `json:"timestamp"`
	LOC           float64   `json:"loc"`
	WMC           float64   `json:"wmc"`
	RFC           float64   `json:"rfc"`
	CBO           float64   `json:"cbo"`
	LCOM          float64   `json:"lcom"`
	CodeChurn     float64   `json:"code_churn"`
	NumDevelopers float64   `json:"num_developers"`
	PastDefects   float64   `json:"past_defects"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Probability   float64   `json:"probability"` // 0-1 の小数で保存されている
	Confidence    float64   `json:"confidence"`
	Prediction    string    `json:"prediction"`
}

// ProbabilityPercent は保存値（0-1）をパーセントに変換する
func (e HistoryEntry) ProbabilityPercent() float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(e.Probability*100, 'f', 2, 64), 64)
	return v
}

// Stats は予測履歴の集計
type Stats struct {
	Total              int            `json:"total"`
	RiskDistribution   map[string]int `json:"risk_distribution"`
	AverageProbability float64        `json:"average_probability"`
	HighRiskCount      int            `json:"high_risk_count"`
}

// Features は予測サービスが要求するフィールド一覧
type Features struct {
	Features     []string          `json:"features"`
	Descriptions map[string]string `json:"descriptions"`
}

// Health は予測サービスの状態
type Health struct {
	Status      string        `json:"status"`
	ModelLoaded bool          `json:"model_loaded"`
	Latency     time.Duration `json:"-"`
}

// Predictor は予測サービス呼び出しの抽象化。
// エラーは通信レベルの失敗を表し、アプリケーションの失敗は Success=false のResultで返る。
type Predictor interface {
	Predict(ctx context.Context, req Request) (Result, error)
}

// HistoryReader は予測履歴の参照
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
	Stats(ctx context.Context) (Stats, error)
}
