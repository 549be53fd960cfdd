// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, quota, note, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeQuotaExceeded      = "QUOTA_EXCEEDED"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeExtractionEmpty    = "EXTRACTION_EMPTY"
	ErrCodeProcessingFailed   = "PROCESSING_FAILED"
	ErrCodeNoteNotFound       = "NOTE_NOT_FOUND"
	ErrCodeUnauthorizedNote   = "UNAUTHORIZED_NOTE"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeMailNotConfigured  = "MAIL_NOT_CONFIGURED"
)

// NewQuotaExceededError は月間スキャン上限到達エラーを生成する。
func NewQuotaExceededError(used, limit int) *APIError {
	return &APIError{
		Code:     ErrCodeQuotaExceeded,
		Message:  fmt.Sprintf("今月のスキャン上限に達しています（%d/%d回使用済み）。", used, limit),
		Category: "quota",
		Action:   "上限は翌月1日にリセットされます。それまでお待ちください。",
	}
}

// NewValidationError はアップロードファイルの検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("ファイルを受け付けられません: %s", reason),
		Category: "validation",
		Action:   "png, jpg, jpeg, gif, bmp, tiff のいずれかの画像ファイルを選択してください。",
	}
}

// NewExtractionEmptyError はテキスト未検出エラーを生成する。
// OCR呼び出し自体は行われているため、使用量は1回分消費済みである。
func NewExtractionEmptyError() *APIError {
	return &APIError{
		Code:     ErrCodeExtractionEmpty,
		Message:  "画像からテキストを抽出できませんでした（スキャン回数は消費されます）。",
		Category: "note",
		Action:   "文字がはっきり写った、明るい画像で再度お試しください。",
	}
}

// NewProcessingFailedError は画像処理中の予期しないエラーを生成する。
func NewProcessingFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeProcessingFailed,
		Message:  "画像の処理中にエラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewNoteNotFoundError はノート未検出エラーを生成する。
func NewNoteNotFoundError(noteID string) *APIError {
	return &APIError{
		Code:     ErrCodeNoteNotFound,
		Message:  fmt.Sprintf("指定されたノートが見つかりません: %s", noteID),
		Category: "note",
		Action:   "ノートIDを確認してください。",
	}
}

// NewUnauthorizedNoteError は他ユーザーのノートへの操作エラーを生成する。
func NewUnauthorizedNoteError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorizedNote,
		Message:  "このノートを操作する権限がありません。",
		Category: "auth",
		Action:   "自分が作成したノートのみ編集・削除できます。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewMailNotConfiguredError はメール設定未完了エラーを生成する。
func NewMailNotConfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeMailNotConfigured,
		Message:  "メール送信が設定されていません。",
		Category: "system",
		Action:   "管理者にSMTP設定を確認するよう連絡してください。",
	}
}
