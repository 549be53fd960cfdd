// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// OCR
	OCRAPIKey  string
	OCRAPIURL  string
	OCRTimeout time.Duration

	// Quota
	MonthlyScanLimit int

	// Upload
	AllowedExtensions []string
	MaxUploadSize     int64
	UploadDir         string

	// Search
	SearchCaseSensitive bool

	// Session
	SessionSecret string
	SessionMaxAge int

	// Rate Limit（req/min/user）
	RateLimitGeneral int
	RateLimitUpload  int

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	FeedbackTo   string

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// defaultAllowedExtensions はアップロードを許可する画像拡張子の既定値。
const defaultAllowedExtensions = "png,jpg,jpeg,gif,bmp,tiff"

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.OCRAPIKey = os.Getenv("OCR_API_KEY")
	if cfg.OCRAPIKey == "" {
		missing = append(missing, "OCR_API_KEY")
	}

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.OCRAPIURL = getEnvString("OCR_API_URL", "https://api.ocr.space/parse/image")
	cfg.OCRTimeout = getEnvDuration("OCR_TIMEOUT", 30*time.Second)
	cfg.MonthlyScanLimit = getEnvInt("MONTHLY_SCAN_LIMIT", 100)
	cfg.AllowedExtensions = parseExtensions(getEnvString("ALLOWED_EXTENSIONS", defaultAllowedExtensions))
	cfg.MaxUploadSize = getEnvInt64("MAX_UPLOAD_SIZE", 16*1024*1024)
	cfg.UploadDir = getEnvString("UPLOAD_DIR", os.TempDir())
	cfg.SearchCaseSensitive = getEnvBool("SEARCH_CASE_SENSITIVE", true)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 604800)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitUpload = getEnvInt("RATE_LIMIT_UPLOAD", 10)
	cfg.SMTPHost = getEnvString("SMTP_HOST", "")
	cfg.SMTPPort = getEnvInt("SMTP_PORT", 587)
	cfg.SMTPUsername = getEnvString("SMTP_USERNAME", "")
	cfg.SMTPPassword = getEnvString("SMTP_PASSWORD", "")
	cfg.SMTPFrom = getEnvString("SMTP_FROM", cfg.SMTPUsername)
	cfg.FeedbackTo = getEnvString("FEEDBACK_TO", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// parseExtensions はカンマ区切りの拡張子リストを正規化する。
// 各要素は小文字化し、先頭のドットと空白を除去する。空要素は無視する。
func parseExtensions(s string) []string {
	parts := strings.Split(s, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		ext := strings.ToLower(strings.TrimSpace(p))
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" {
			continue
		}
		exts = append(exts, ext)
	}
	return exts
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
