// Package note はノート閲覧・編集・検索のドメインロジックを提供する。
package note

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/scanote/internal/model"
	"github.com/hitoshi/scanote/internal/repository"
)

// maxTitleLength は手動作成ノートのタイトル文字数上限。
const maxTitleLength = 200

// Sanitizer はノート本文の無害化のインターフェース。
type Sanitizer interface {
	Sanitize(text string) string
}

// Service はノート操作のサービス層。
// すべての書き込み操作は所有者チェックを通過した場合のみ実行される。
type Service struct {
	noteRepo      repository.NoteRepository
	sanitizer     Sanitizer
	caseSensitive bool
}

// NewService はServiceの新しいインスタンスを生成する。
// caseSensitiveは検索時の大文字小文字の区別を制御する。
func NewService(noteRepo repository.NoteRepository, sanitizer Sanitizer, caseSensitive bool) *Service {
	return &Service{
		noteRepo:      noteRepo,
		sanitizer:     sanitizer,
		caseSensitive: caseSensitive,
	}
}

// List はユーザーの全ノートを作成日時の降順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Note, error) {
	notes, err := s.noteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	return notes, nil
}

// Get は指定IDのノートを返す。所有者以外のアクセスは拒否する。
func (s *Service) Get(ctx context.Context, userID, noteID string) (*model.Note, error) {
	return s.findOwned(ctx, userID, noteID)
}

// CreateManual は画像を経由せずノートを手動作成する。
// タイトルと本文は無害化してから保存する。使用量台帳には一切触れない。
func (s *Service) CreateManual(ctx context.Context, userID, title, body string) (*model.Note, error) {
	title = s.sanitizer.Sanitize(title)
	if title == "" {
		return nil, model.NewValidationError("タイトルが指定されていません")
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, model.NewValidationError("タイトルが長すぎます")
	}

	body = s.sanitizer.Sanitize(body)
	if body == "" {
		return nil, model.NewValidationError("本文が指定されていません")
	}

	note := &model.Note{
		ID:            uuid.New().String(),
		UserID:        userID,
		Filename:      title,
		ExtractedText: body,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("ノートの作成に失敗しました: %w", err)
	}

	return note, nil
}

// UpdateText はノート本文を更新する。所有者以外の更新は拒否する。
func (s *Service) UpdateText(ctx context.Context, userID, noteID, text string) (*model.Note, error) {
	note, err := s.findOwned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	cleaned := s.sanitizer.Sanitize(text)
	if cleaned == "" {
		return nil, model.NewValidationError("本文が指定されていません")
	}

	if err := s.noteRepo.UpdateText(ctx, noteID, cleaned); err != nil {
		return nil, fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}

	note.ExtractedText = cleaned
	return note, nil
}

// Delete はノートを削除する。所有者以外の削除は拒否する。
// ノートを削除しても使用量台帳の記録は残る。
func (s *Service) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.findOwned(ctx, userID, noteID); err != nil {
		return err
	}

	if err := s.noteRepo.DeleteByID(ctx, noteID); err != nil {
		return fmt.Errorf("ノートの削除に失敗しました: %w", err)
	}

	return nil
}

// Search はユーザーのノートから本文に部分文字列を含むものを返す。
// 空・空白のみのクエリは検索を行わず空の結果を返す。
func (s *Service) Search(ctx context.Context, userID, query string) ([]*model.Note, error) {
	if strings.TrimSpace(query) == "" {
		return []*model.Note{}, nil
	}

	notes, err := s.noteRepo.SearchByText(ctx, userID, query, s.caseSensitive)
	if err != nil {
		return nil, fmt.Errorf("ノートの検索に失敗しました: %w", err)
	}
	return notes, nil
}

// findOwned はノートを取得し所有者を検証する。
// 存在しない場合はNOT_FOUND、他人のノートの場合はUNAUTHORIZED_NOTEを返す。
func (s *Service) findOwned(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	if note.UserID != userID {
		return nil, model.NewUnauthorizedNoteError()
	}
	return note, nil
}
