// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/scanote/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// NoteRepository はノートデータの永続化インターフェース。
type NoteRepository interface {
	// FindByID は指定IDのノートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Note, error)

	// Create はノートを作成する。
	Create(ctx context.Context, note *model.Note) error

	// UpdateText はノート本文を更新する。
	UpdateText(ctx context.Context, id, text string) error

	// DeleteByID は指定IDのノートを削除する。
	DeleteByID(ctx context.Context, id string) error

	// ListByUserID はユーザーの全ノートを作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Note, error)

	// SearchByText はユーザーのノートから本文に部分文字列を含むものを
	// 作成日時の降順で返す。caseSensitiveがfalseの場合は大文字小文字を区別しない。
	SearchByText(ctx context.Context, userID, query string, caseSensitive bool) ([]*model.Note, error)
}

// UsageEventRepository はOCR使用量台帳の永続化インターフェース。
// 台帳は追記専用であり、更新・削除操作はこのインターフェースにも
// 実装にも存在しない。クォータ算出の改ざん不能性はこの「操作の不在」で
// 構造的に保証する。
type UsageEventRepository interface {
	// Create は使用量イベントを1件追記する。
	// 失敗はストレージ障害のみであり、呼び出し元へそのまま伝播する。
	Create(ctx context.Context, event *model.UsageEvent) error

	// CountSince は指定時刻以降のユーザーの使用量イベント数を返す。
	// 副作用のない冪等な読み取り。
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
}
