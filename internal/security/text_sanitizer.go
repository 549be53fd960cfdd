// Package security はOCR抽出テキストの無害化処理を提供する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はOCRで抽出したテキストを保存前に無害化するサービス。
// ノート本文はプレーンテキストとして扱うため、マークアップは一切許可しない。
type TextSanitizerService struct {
	policy *bluemonday.Policy
}

// NewTextSanitizerService は新しいTextSanitizerServiceを作成する。
func NewTextSanitizerService() *TextSanitizerService {
	return &TextSanitizerService{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからHTMLタグをすべて除去し、改行コードをLFに正規化する。
// OCR結果にマークアップ風の文字列が含まれていても、タグとして解釈される要素のみ除去し、
// エンティティ化された文字は元の文字に戻す。
func (s *TextSanitizerService) Sanitize(text string) string {
	if text == "" {
		return ""
	}

	cleaned := s.policy.Sanitize(text)
	// StrictPolicyは < > & 等をエンティティ化するため、プレーンテキストに戻す
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")

	return strings.TrimSpace(cleaned)
}
