package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/scanote/internal/middleware"
	"github.com/hitoshi/scanote/internal/model"
)

// NoteServiceInterface はノートハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.Note, error)
	Get(ctx context.Context, userID, noteID string) (*model.Note, error)
	CreateManual(ctx context.Context, userID, title, body string) (*model.Note, error)
	UpdateText(ctx context.Context, userID, noteID, text string) (*model.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
	Search(ctx context.Context, userID, query string) ([]*model.Note, error)
}

// NoteHandler はノート管理のHTTPハンドラー。
type NoteHandler struct {
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{service: service}
}

// createNoteRequest はノート手動作成リクエストのボディ。
type createNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// updateNoteRequest はノート本文更新リクエストのボディ。
type updateNoteRequest struct {
	Text string `json:"text"`
}

// noteResponse はノート情報のAPIレスポンス。
type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// noteListResponse はノート一覧のAPIレスポンス。
type noteListResponse struct {
	Notes []noteResponse `json:"notes"`
	Total int            `json:"total"`
}

// ListNotes はユーザーの全ノートを返す。
// GET /api/notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	notes, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteListResponse(notes))
}

// SearchNotes は本文の部分一致でノートを検索する。
// GET /api/notes/search?q=xxx
func (h *NoteHandler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	query := r.URL.Query().Get("q")
	notes, err := h.service.Search(r.Context(), userID, query)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteListResponse(notes))
}

// GetNote はノート詳細を返す。
// GET /api/notes/:id
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	noteID := chi.URLParam(r, "id")
	note, err := h.service.Get(r.Context(), userID, noteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// CreateNote はノートを手動作成する。
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	note, err := h.service.CreateManual(r.Context(), userID, req.Title, req.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// UpdateNote はノート本文を更新する。
// PATCH /api/notes/:id
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	noteID := chi.URLParam(r, "id")
	note, err := h.service.UpdateText(r.Context(), userID, noteID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// DeleteNote はノートを削除する。
// DELETE /api/notes/:id
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	noteID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), userID, noteID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toNoteResponse はmodel.NoteからAPIレスポンスに変換する。
func toNoteResponse(note *model.Note) noteResponse {
	return noteResponse{
		ID:        note.ID,
		Title:     note.Filename,
		Text:      note.ExtractedText,
		CreatedAt: note.CreatedAt,
	}
}

// toNoteListResponse はノートのスライスから一覧レスポンスに変換する。
func toNoteListResponse(notes []*model.Note) noteListResponse {
	resp := noteListResponse{
		Notes: make([]noteResponse, 0, len(notes)),
		Total: len(notes),
	}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(note))
	}
	return resp
}
