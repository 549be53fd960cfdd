package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/scanote/internal/middleware"
	"github.com/hitoshi/scanote/internal/model"
)

// FeedbackSender はフィードバック送信のインターフェース。
type FeedbackSender interface {
	Send(ctx context.Context, userEmail, subject, message string) error
}

// FeedbackHandler はフィードバック送信のHTTPハンドラー。
type FeedbackHandler struct {
	sender FeedbackSender
	users  UserFinder
}

// NewFeedbackHandler はFeedbackHandlerを生成する。
func NewFeedbackHandler(sender FeedbackSender, users UserFinder) *FeedbackHandler {
	return &FeedbackHandler{
		sender: sender,
		users:  users,
	}
}

// feedbackRequest はフィードバック送信リクエストのボディ。
type feedbackRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendFeedback はユーザーからのフィードバックを運用者に送信する。
// POST /api/feedback
func (h *FeedbackHandler) SendFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if user == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewUserNotFoundError())
		return
	}

	if err := h.sender.Send(r.Context(), user.Email, req.Subject, req.Message); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
