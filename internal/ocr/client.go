// Package ocr は外部OCR APIによるテキスト抽出クライアントを提供する。
// OCR.space互換のparse/imageエンドポイントを呼び出す。
package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// defaultEndpoint はOCR.spaceのテキスト抽出APIのエンドポイント。
const defaultEndpoint = "https://api.ocr.space/parse/image"

// Config はOCRクライアントの設定。
type Config struct {
	APIKey   string
	Endpoint string        // 空の場合はdefaultEndpointを使用
	Timeout  time.Duration // HTTPクライアント全体のタイムアウト
}

// Client はOCR APIのクライアント。
//
// ExtractTextの契約: タイムアウト・通信障害・API側の処理エラー・
// 「読み取れる文字がなかった」は、いずれも区別せず空文字列に正規化する。
// 呼び出し側は空文字列を「テキストなし」として扱い、失敗理由で分岐しない。
// 通信障害でも使用量が消費される挙動はこの正規化に由来する（現行製品仕様）。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string // テスト用にエンドポイントを差し替え可能
	apiKey     string
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(cfg Config, logger *slog.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
	}
}

// ExtractText は画像からテキストを抽出する。
// 失敗はすべて空文字列に正規化する（Clientのドキュメント参照）。
func (c *Client) ExtractText(ctx context.Context, filename string, file io.Reader) string {
	text, err := c.extract(ctx, filename, file)
	if err != nil {
		c.logger.Warn("OCR呼び出しに失敗したため空テキストとして扱います",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return ""
	}
	return text
}

// parseResponse はOCR.space APIのレスポンスボディを表す。
type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool          `json:"IsErroredOnProcessing"`
	ErrorMessage          errorMessages `json:"ErrorMessage"`
}

// errorMessages はAPIが文字列と文字列配列の両方で返すErrorMessageを吸収する。
type errorMessages []string

func (e *errorMessages) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = errorMessages{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*e = errorMessages(many)
	return nil
}

// extract はmultipartリクエストを組み立ててOCR APIを呼び出す。
// 固定オプション: language=eng, detectOrientation, scale, OCREngine=2（手書きに強いエンジン）。
func (c *Client) extract(ctx context.Context, filename string, file io.Reader) (string, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"apikey":            c.apiKey,
		"language":          "eng",
		"isOverlayRequired": "false",
		"detectOrientation": "true",
		"scale":             "true",
		"OCREngine":         "2",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", fmt.Errorf("multipartフィールドの書き込みに失敗しました: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("multipartファイルパートの作成に失敗しました: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("画像データの書き込みに失敗しました: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("multipartの終端処理に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR APIがステータス %d を返しました", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result parseResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	if result.IsErroredOnProcessing {
		msg := "unknown error"
		if len(result.ErrorMessage) > 0 {
			msg = result.ErrorMessage[0]
		}
		return "", fmt.Errorf("OCR APIが処理エラーを返しました: %s", msg)
	}

	if len(result.ParsedResults) == 0 {
		return "", nil
	}

	return strings.TrimSpace(result.ParsedResults[0].ParsedText), nil
}
