package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// セッション保存先
const (
	SessionBackendMemory = "memory"
	SessionBackendJSON   = "json"
)

// Config はアプリケーション全体の設定
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Predictor PredictorConfig `yaml:"predictor"`
	Session   SessionConfig   `yaml:"session"`
	Routes    RoutesConfig    `yaml:"routes"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port int    `yaml:"port" env:"FAILGUARD_SERVER_PORT"`
	Host string `yaml:"host" env:"FAILGUARD_SERVER_HOST"`
}

// Addr はlisten用のアドレスを返す
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PredictorConfig は予測サービス設定
type PredictorConfig struct {
	BaseURL string        `yaml:"base_url" env:"FAILGUARD_PREDICTOR_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"FAILGUARD_PREDICTOR_TIMEOUT"`
}

// SessionConfig はセッション設定
type SessionConfig struct {
	Backend       string        `yaml:"backend" env:"FAILGUARD_SESSION_BACKEND"`
	StorageDir    string        `yaml:"storage_dir" env:"FAILGUARD_SESSION_STORAGE_DIR"`
	TTL           time.Duration `yaml:"ttl" env:"FAILGUARD_SESSION_TTL"`
	SweepSchedule string        `yaml:"sweep_schedule" env:"FAILGUARD_SESSION_SWEEP_SCHEDULE"`
	CookieName    string        `yaml:"cookie_name" env:"FAILGUARD_SESSION_COOKIE_NAME"`
}

// RoutesConfig はページのパス設定
type RoutesConfig struct {
	Form    string `yaml:"form" env:"FAILGUARD_ROUTES_FORM"`
	Results string `yaml:"results" env:"FAILGUARD_ROUTES_RESULTS"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level  string `yaml:"level" env:"FAILGUARD_LOG_LEVEL"`
	Format string `yaml:"format" env:"FAILGUARD_LOG_FORMAT"`
}

// LoadConfig は設定ファイルを読み込む
func LoadConfig(path string) (*Config, error) {
	// ファイル読み込み
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// YAMLパース
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return finish(&cfg)
}

// LoadOptional はpathが空または存在しなければデフォルト値と環境変数だけで設定を組み立てる
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	// デフォルト値設定
	cfg.setDefaults()

	// 環境変数で上書き
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	// バリデーション
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults はデフォルト値を設定
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Predictor.BaseURL == "" {
		c.Predictor.BaseURL = "http://localhost:5000"
	}

	if c.Predictor.Timeout == 0 {
		c.Predictor.Timeout = 10 * time.Second
	}

	if c.Session.Backend == "" {
		c.Session.Backend = SessionBackendMemory
	}

	if c.Session.StorageDir == "" {
		c.Session.StorageDir = "./data/sessions"
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = 12 * time.Hour
	}

	if c.Session.SweepSchedule == "" {
		c.Session.SweepSchedule = "*/15 * * * *"
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "failguard_session"
	}

	if c.Routes.Form == "" {
		c.Routes.Form = "/"
	}

	if c.Routes.Results == "" {
		c.Routes.Results = "/dashboard"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// loadFromEnv は FAILGUARD_* 環境変数で設定を上書き
func (c *Config) loadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate は設定の妥当性を検証
func (c *Config) Validate() error {
	// サーバー設定検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}

	// 予測サービス設定検証
	u, err := url.Parse(c.Predictor.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid predictor base_url: %q", c.Predictor.BaseURL)
	}

	if c.Predictor.Timeout < 0 {
		return fmt.Errorf("predictor timeout must not be negative: %s", c.Predictor.Timeout)
	}

	// セッション設定検証
	switch c.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendJSON:
		if c.Session.StorageDir == "" {
			return fmt.Errorf("session storage_dir is required for the json backend")
		}
	default:
		return fmt.Errorf("unknown session backend: %q (must be memory or json)", c.Session.Backend)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive: %s", c.Session.TTL)
	}

	if !gronx.New().IsValid(c.Session.SweepSchedule) {
		return fmt.Errorf("invalid session sweep_schedule: %q", c.Session.SweepSchedule)
	}

	// ルート設定検証
	if !strings.HasPrefix(c.Routes.Form, "/") || !strings.HasPrefix(c.Routes.Results, "/") {
		return fmt.Errorf("routes must be absolute paths: form=%q results=%q", c.Routes.Form, c.Routes.Results)
	}

	if c.Routes.Form == c.Routes.Results {
		return fmt.Errorf("form and results routes must differ: %q", c.Routes.Form)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}

	return nil
}
