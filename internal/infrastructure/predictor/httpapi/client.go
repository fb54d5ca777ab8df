package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
)

// ErrNotFound は予測サービスが404を返した場合のエラー
var ErrNotFound = errors.New("not found")

const (
	predictPath     = "/api/predict"
	featuresPath    = "/api/features"
	healthPath      = "/api/health"
	predictionsPath = "/api/predictions"
	statsPath       = "/api/predictions/stats"

	// レスポンスボディの読み込み上限
	maxBodyBytes = 1 << 20
)

// Client は予測サービスのHTTPクライアント
type Client struct {
	baseURL string
	client  *http.Client
}

var (
	_ prediction.Predictor     = (*Client)(nil)
	_ prediction.HistoryReader = (*Client)(nil)
)

// NewClient は新しいClientを作成
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient はHTTPクライアントを差し替えたClientを返す
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	return &Client{baseURL: c.baseURL, client: hc}
}

// BaseURL は接続先を返す
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict は予測を実行する。
// サービスは失敗時も {success:false,error} を4xx/5xxで返すため、ステータスに関係なくボディを解釈する。
func (c *Client) Predict(ctx context.Context, req prediction.Request) (prediction.Result, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return prediction.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(reqBody))
	if err != nil {
		return prediction.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return prediction.Result{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return prediction.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	result, err := prediction.DecodeResult(body)
	if err != nil {
		return prediction.Result{}, fmt.Errorf("prediction API returned undecodable body: status=%d: %w", resp.StatusCode, err)
	}

	return result, nil
}

// Features は必要なフィールド一覧を取得
func (c *Client) Features(ctx context.Context) (prediction.Features, error) {
	var f prediction.Features
	if err := c.getJSON(ctx, featuresPath, &f); err != nil {
		return prediction.Features{}, err
	}
	return f, nil
}

// Health は予測サービスの状態を取得
func (c *Client) Health(ctx context.Context) (prediction.Health, error) {
	start := time.Now()

	var h prediction.Health
	if err := c.getJSON(ctx, healthPath, &h); err != nil {
		return prediction.Health{}, err
	}
	h.Latency = time.Since(start)
	return h, nil
}

// Recent は新しい順に予測履歴を取得
func (c *Client) Recent(ctx context.Context, limit int) ([]prediction.HistoryEntry, error) {
	path := predictionsPath
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var entries []prediction.HistoryEntry
	if err := c.getJSON(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats は予測履歴の集計を取得
func (c *Client) Stats(ctx context.Context) (prediction.Stats, error) {
	var s prediction.Stats
	if err := c.getJSON(ctx, statsPath, &s); err != nil {
		return prediction.Stats{}, err
	}
	return s, nil
}

// Get はIDで予測を1件取得
func (c *Client) Get(ctx context.Context, id prediction.ID) (prediction.HistoryEntry, error) {
	var e prediction.HistoryEntry
	if err := c.getJSON(ctx, predictionsPath+"/"+url.PathEscape(id.String()), &e); err != nil {
		return prediction.HistoryEntry{}, err
	}
	return e, nil
}

// Delete はIDで予測を削除
func (c *Client) Delete(ctx context.Context, id prediction.ID) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+predictionsPath+"/"+url.PathEscape(id.String()), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("prediction %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		msg := out.Error
		if msg == "" {
			msg = string(body)
		}
		return fmt.Errorf("delete failed: status=%d, error=%s", resp.StatusCode, msg)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("prediction API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
