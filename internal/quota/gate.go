// Package quota は月間OCR使用量の算出とアップロード可否判定を提供する。
package quota

import (
	"context"
	"fmt"
	"time"
)

// UsageCounter は使用量台帳の読み取りインターフェース。
// repository.UsageEventRepositoryの部分集合として定義する。
type UsageCounter interface {
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// Gate は月間クォータの判定器。
// 判定は使用量台帳のみを参照する。ノート数は無関係であり、
// ノートを削除しても当月の使用量は減らない。
//
// 基準時計はUTC固定で、ユーザーごとのタイムゾーン調整は行わない。
// 月末23:59:59のイベントは当月に、翌月00:00:00のイベントは翌月に数える。
type Gate struct {
	usage UsageCounter
	limit int
	now   func() time.Time
}

// NewGate はGateを生成する。limitは1ユーザーあたりの月間OCR呼び出し上限。
func NewGate(usage UsageCounter, limit int) *Gate {
	return &Gate{
		usage: usage,
		limit: limit,
		now:   time.Now,
	}
}

// Limit は設定された月間上限を返す。
func (g *Gate) Limit() int {
	return g.limit
}

// Usage は当月（基準時計の暦月）のOCR使用量を返す。
// 副作用のない冪等な読み取りで、何度呼んでも安全。
func (g *Gate) Usage(ctx context.Context, userID string) (int, error) {
	now := g.now().UTC()
	count, err := g.usage.CountSince(ctx, userID, MonthStart(now))
	if err != nil {
		return 0, fmt.Errorf("failed to count monthly usage: %w", err)
	}
	return count, nil
}

// CanConsume は新たなOCR呼び出しが許可されるかを返す。
// 定義: 当月使用量 < 上限。
func (g *Gate) CanConsume(ctx context.Context, userID string) (bool, error) {
	used, err := g.Usage(ctx, userID)
	if err != nil {
		return false, err
	}
	return used < g.limit, nil
}

// Remaining は当月の残りスキャン回数を返す。下限は0。
func (g *Gate) Remaining(ctx context.Context, userID string) (int, error) {
	used, err := g.Usage(ctx, userID)
	if err != nil {
		return 0, err
	}
	remaining := g.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// MonthStart はtが属する暦月の最初の瞬間をtと同じロケーションで返す。
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
