// Package upload は画像アップロードからノート作成までの処理パイプラインを提供する。
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/scanote/internal/metrics"
	"github.com/hitoshi/scanote/internal/model"
	"github.com/hitoshi/scanote/internal/repository"
)

// QuotaGate は月間クォータ判定のインターフェース。
// テスタビリティのためquota.Gateを抽象化する。
type QuotaGate interface {
	CanConsume(ctx context.Context, userID string) (bool, error)
	Usage(ctx context.Context, userID string) (int, error)
	Remaining(ctx context.Context, userID string) (int, error)
	Limit() int
}

// TextExtractor は画像からのテキスト抽出のインターフェース。
// 失敗はすべて空文字列に正規化されることを前提とする。
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, file io.Reader) string
}

// TextSanitizer は抽出テキストの無害化のインターフェース。
type TextSanitizer interface {
	Sanitize(text string) string
}

// Config はパイプラインのファイル受け入れ設定。
type Config struct {
	UploadDir         string
	AllowedExtensions []string
	MaxUploadSize     int64
}

// Result はアップロード成功時の処理結果。
type Result struct {
	Note      *model.Note
	Remaining int
}

// Pipeline は画像アップロード1件を処理する状態機械。
// フロー: クォータ確認 → 入力検証 → 一時ファイル退避 → テキスト抽出 →
// 使用量記録（無条件） → ノート保存判定 → 一時ファイル削除。
// 使用量の記録は抽出結果に関わらずOCR呼び出し後に必ず行う。
type Pipeline struct {
	gate        QuotaGate
	extractor   TextExtractor
	sanitizer   TextSanitizer
	noteRepo    repository.NoteRepository
	usageRepo   repository.UsageEventRepository
	collector   metrics.MetricsCollector
	logger      *slog.Logger
	uploadDir   string
	allowedExts map[string]struct{}
	maxSize     int64
}

// NewPipeline はPipelineの新しいインスタンスを生成する。
func NewPipeline(
	gate QuotaGate,
	extractor TextExtractor,
	sanitizer TextSanitizer,
	noteRepo repository.NoteRepository,
	usageRepo repository.UsageEventRepository,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	cfg Config,
) *Pipeline {
	exts := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Pipeline{
		gate:        gate,
		extractor:   extractor,
		sanitizer:   sanitizer,
		noteRepo:    noteRepo,
		usageRepo:   usageRepo,
		collector:   collector,
		logger:      logger,
		uploadDir:   cfg.UploadDir,
		allowedExts: exts,
		maxSize:     cfg.MaxUploadSize,
	}
}

// Process はアップロード1件を処理し、ノートが作成された場合はResultを返す。
// クォータ超過・検証エラー・抽出結果なし・処理失敗はAPIErrorとして返す。
// 一時ファイルはどの経路で終了しても削除される。
func (p *Pipeline) Process(ctx context.Context, userID, filename string, file io.Reader, size int64) (*Result, error) {
	start := time.Now()
	defer func() {
		p.collector.RecordUploadLatency(time.Since(start))
	}()

	// 1. クォータ確認（OCR呼び出し前のゲート）
	ok, err := p.gate.CanConsume(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("使用量の確認に失敗しました: %w", err)
	}
	if !ok {
		used, uerr := p.gate.Usage(ctx, userID)
		if uerr != nil {
			return nil, fmt.Errorf("使用量の確認に失敗しました: %w", uerr)
		}
		p.collector.RecordQuotaDenied()
		p.logger.Info("upload denied by quota",
			slog.String("user_id", userID),
			slog.Int("used", used),
			slog.Int("limit", p.gate.Limit()))
		return nil, model.NewQuotaExceededError(used, p.gate.Limit())
	}

	// 2. 入力検証
	if err := p.validate(filename, size); err != nil {
		return nil, err
	}

	// 3. 一時ファイルへ退避（この時点以降、終了経路を問わず削除する）
	staged, err := p.stage(filename, file)
	if err != nil {
		p.collector.RecordScanFailure("stage")
		p.logger.Error("failed to stage upload",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, model.NewProcessingFailedError()
	}
	defer func() {
		staged.Close()
		if rmErr := os.Remove(staged.Name()); rmErr != nil {
			p.logger.Warn("一時ファイルの削除に失敗しました",
				slog.String("path", staged.Name()),
				slog.String("error", rmErr.Error()))
		}
	}()

	// 4. テキスト抽出（失敗は空文字列に正規化済み）
	text := p.extractor.ExtractText(ctx, filename, staged)

	// 5. 使用量記録。抽出結果に関わらずOCR呼び出し1回につき1件追記する
	event := &model.UsageEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.usageRepo.Create(ctx, event); err != nil {
		p.collector.RecordScanFailure("ledger_write")
		p.logger.Error("failed to record usage event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, model.NewProcessingFailedError()
	}

	// 6. ノート保存判定。空・空白のみの抽出結果はノートを作成しない
	cleaned := p.sanitizer.Sanitize(text)
	if cleaned == "" {
		p.collector.RecordScanEmpty()
		p.logger.Info("scan produced no text",
			slog.String("user_id", userID),
			slog.String("filename", filename))
		return nil, model.NewExtractionEmptyError()
	}

	note := &model.Note{
		ID:            uuid.New().String(),
		UserID:        userID,
		Filename:      filepath.Base(filename),
		ExtractedText: cleaned,
		CreatedAt:     time.Now().UTC(),
	}
	if err := p.noteRepo.Create(ctx, note); err != nil {
		p.collector.RecordScanFailure("note_persist")
		p.logger.Error("failed to persist note",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, model.NewProcessingFailedError()
	}

	// 7. 残りクォータの再計算（台帳追記後の値を返す）
	remaining, err := p.gate.Remaining(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("残り使用量の取得に失敗しました: %w", err)
	}

	p.collector.RecordScanSuccess()
	p.collector.RecordNoteCreated()
	p.logger.Info("note created from scan",
		slog.String("user_id", userID),
		slog.String("note_id", note.ID),
		slog.Int("text_length", len(cleaned)),
		slog.Int("remaining", remaining))

	return &Result{Note: note, Remaining: remaining}, nil
}

// validate はファイル名・拡張子・サイズを検証する。
func (p *Pipeline) validate(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return model.NewValidationError("ファイル名が指定されていません")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return model.NewValidationError("ファイルに拡張子がありません")
	}
	if _, ok := p.allowedExts[ext]; !ok {
		return model.NewValidationError(fmt.Sprintf("対応していないファイル形式です: %s", ext))
	}

	if size <= 0 {
		return model.NewValidationError("ファイルが空です")
	}
	if size > p.maxSize {
		return model.NewValidationError("ファイルサイズが上限を超えています")
	}

	return nil
}

// stage はアップロード内容を一時ファイルに書き出し、先頭にシークした状態で返す。
func (p *Pipeline) stage(filename string, file io.Reader) (*os.File, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	tmp, err := os.CreateTemp(p.uploadDir, "scanote-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("一時ファイルへの書き込みに失敗しました: %w", err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("一時ファイルのシークに失敗しました: %w", err)
	}

	return tmp, nil
}
