package model

import "time"

// Note はユーザーが所有するテキストノートを表す。
// アップロードされた画像からのOCR抽出、または手動作成で生成される。
// 本文（ExtractedText）のみ所有者が編集でき、ノート自体はいつでも削除できる。
// ノートの削除は使用量記録（UsageEvent）には一切影響しない。
type Note struct {
	ID            string
	UserID        string
	Filename      string
	ExtractedText string
	CreatedAt     time.Time
}
