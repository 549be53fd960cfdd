package model

import "time"

// UsageEvent はOCR API呼び出し1回分の使用量記録を表す。
// 抽出の成否やノートが保存されたかどうかに関わらず、API呼び出しごとに1件記録される。
// 一度書き込まれたレコードはユーザー操作で変更・削除できない（追記専用）。
// 月間クォータの算出はこのレコードのみを参照する。
type UsageEvent struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}
