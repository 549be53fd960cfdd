package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/scanote/internal/model"
)

// PostgresUsageEventRepo はPostgreSQLを使用した使用量台帳リポジトリ。
// INSERTとSELECT COUNTのみを発行する。UPDATE/DELETEのメソッドは存在せず、
// スキーマ側もusers外部キーをON DELETE RESTRICTとしているため、
// ユーザー入力から到達可能なコードパスで台帳が減ることはない。
type PostgresUsageEventRepo struct {
	db *sql.DB
}

// NewPostgresUsageEventRepo はPostgresUsageEventRepoを生成する。
func NewPostgresUsageEventRepo(db *sql.DB) *PostgresUsageEventRepo {
	return &PostgresUsageEventRepo{db: db}
}

// Create は使用量イベントを1件追記する。
func (r *PostgresUsageEventRepo) Create(ctx context.Context, event *model.UsageEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_events (id, user_id, created_at)
		 VALUES ($1, $2, $3)`,
		event.ID, event.UserID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage event: %w", err)
	}
	return nil
}

// CountSince は指定時刻以降のユーザーの使用量イベント数を返す。
func (r *PostgresUsageEventRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usage_events
		 WHERE user_id = $1 AND created_at >= $2`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage events: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ UsageEventRepository = (*PostgresUsageEventRepo)(nil)
