package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/scanote/internal/middleware"
	"github.com/hitoshi/scanote/internal/model"
)

// Exporter はノート一覧を1つの文書として書き出すインターフェース。
type Exporter interface {
	Export(w io.Writer, email string, notes []*model.Note) error
}

// UserFinder はユーザー情報の参照に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// NoteLister はノート一覧の取得に必要なインターフェース。
type NoteLister interface {
	List(ctx context.Context, userID string) ([]*model.Note, error)
}

// ExportHandler はノートコレクション書き出しのHTTPハンドラー。
type ExportHandler struct {
	notes NoteLister
	users UserFinder
	html  Exporter
	pdf   Exporter
}

// NewExportHandler はExportHandlerを生成する。
func NewExportHandler(notes NoteLister, users UserFinder, html, pdf Exporter) *ExportHandler {
	return &ExportHandler{
		notes: notes,
		users: users,
		html:  html,
		pdf:   pdf,
	}
}

// ExportHTML は全ノートをHTML文書としてダウンロードさせる。
// GET /api/export/html
func (h *ExportHandler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.html, "text/html; charset=utf-8", "notes.html")
}

// ExportPDF は全ノートをPDF文書としてダウンロードさせる。
// GET /api/export/pdf
func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.pdf, "application/pdf", "notes.pdf")
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, exporter Exporter, contentType, filename string) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
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

	notes, err := h.notes.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := exporter.Export(w, user.Email, notes); err != nil {
		// ヘッダー送信後はステータスを変更できないのでログのみ
		slog.Error("failed to write export document",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
}
