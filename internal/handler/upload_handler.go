package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/hitoshi/scanote/internal/middleware"
	"github.com/hitoshi/scanote/internal/model"
	"github.com/hitoshi/scanote/internal/upload"
)

// uploadFileField はmultipartフォームのファイルフィールド名。
const uploadFileField = "file"

// UploadPipelineInterface はアップロードハンドラーが必要とするパイプラインインターフェース。
type UploadPipelineInterface interface {
	Process(ctx context.Context, userID, filename string, file io.Reader, size int64) (*upload.Result, error)
}

// UploadHandler は画像アップロードのHTTPハンドラー。
type UploadHandler struct {
	pipeline      UploadPipelineInterface
	maxUploadSize int64
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(pipeline UploadPipelineInterface, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{
		pipeline:      pipeline,
		maxUploadSize: maxUploadSize,
	}
}

// uploadResponse はアップロード成功時のAPIレスポンス。
type uploadResponse struct {
	Note      noteResponse `json:"note"`
	Remaining int          `json:"remaining"`
}

// Upload は画像をアップロードしてOCR処理を実行する。
// POST /api/scans
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	// multipartの読み取り上限。フィールド分の余裕を持たせる
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+4096)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("アップロードの読み取りに失敗しました"))
		return
	}

	file, header, err := r.FormFile(uploadFileField)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("ファイルが添付されていません"))
		return
	}
	defer file.Close()

	result, err := h.pipeline.Process(r.Context(), userID, header.Filename, file, header.Size)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Note:      toNoteResponse(result.Note),
		Remaining: result.Remaining,
	})
}
