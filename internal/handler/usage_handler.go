package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/scanote/internal/middleware"
)

// QuotaGateInterface は使用量ハンドラーが必要とするゲートインターフェース。
type QuotaGateInterface interface {
	Usage(ctx context.Context, userID string) (int, error)
	Remaining(ctx context.Context, userID string) (int, error)
	Limit() int
}

// UsageHandler は月間使用量のHTTPハンドラー。
type UsageHandler struct {
	gate QuotaGateInterface
}

// NewUsageHandler はUsageHandlerを生成する。
func NewUsageHandler(gate QuotaGateInterface) *UsageHandler {
	return &UsageHandler{gate: gate}
}

// usageResponse は使用量のAPIレスポンス。
type usageResponse struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// GetUsage は今月の使用量と残りクォータを返す。
// GET /api/usage
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	used, err := h.gate.Usage(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	remaining, err := h.gate.Remaining(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usageResponse{
		Used:      used,
		Limit:     h.gate.Limit(),
		Remaining: remaining,
	})
}
