package note

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/scanote/internal/model"
)

// mockNoteRepo はノートリポジトリのモック。関数フィールドで挙動を差し替える。
type mockNoteRepo struct {
	findByIDFunc     func(ctx context.Context, id string) (*model.Note, error)
	createFunc       func(ctx context.Context, note *model.Note) error
	updateTextFunc   func(ctx context.Context, id, text string) error
	deleteByIDFunc   func(ctx context.Context, id string) error
	listByUserIDFunc func(ctx context.Context, userID string) ([]*model.Note, error)
	searchByTextFunc func(ctx context.Context, userID, query string, caseSensitive bool) ([]*model.Note, error)
}

func (m *mockNoteRepo) FindByID(ctx context.Context, id string) (*model.Note, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockNoteRepo) Create(ctx context.Context, note *model.Note) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) UpdateText(ctx context.Context, id, text string) error {
	if m.updateTextFunc != nil {
		return m.updateTextFunc(ctx, id, text)
	}
	return nil
}

func (m *mockNoteRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return nil
}

func (m *mockNoteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Note, error) {
	if m.listByUserIDFunc != nil {
		return m.listByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockNoteRepo) SearchByText(ctx context.Context, userID, query string, caseSensitive bool) ([]*model.Note, error) {
	if m.searchByTextFunc != nil {
		return m.searchByTextFunc(ctx, userID, query, caseSensitive)
	}
	return nil, nil
}

// passthroughSanitizer は前後の空白のみ除去する無害化モック。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(text string) string {
	return strings.TrimSpace(text)
}

func ownedNote(id, userID string) *model.Note {
	return &model.Note{
		ID:            id,
		UserID:        userID,
		Filename:      "scan.png",
		ExtractedText: "hello",
		CreatedAt:     time.Now().UTC(),
	}
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != code {
		t.Errorf("error code = %s, want %s", apiErr.Code, code)
	}
}

// TestService_Get_OwnerCanRead は所有者がノートを取得できることを検証する。
func TestService_Get_OwnerCanRead(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Note, error) {
			return ownedNote(id, "user-1"), nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	note, err := service.Get(context.Background(), "user-1", "note-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.ID != "note-1" {
		t.Errorf("note ID = %s, want note-1", note.ID)
	}
}

// TestService_Get_NotFound は存在しないノートでNOT_FOUNDが返ることを検証する。
func TestService_Get_NotFound(t *testing.T) {
	repo := &mockNoteRepo{}
	service := NewService(repo, passthroughSanitizer{}, true)

	_, err := service.Get(context.Background(), "user-1", "missing")
	assertAPIErrorCode(t, err, model.ErrCodeNoteNotFound)
}

// TestService_Get_OtherUsersNote は他人のノートへのアクセスが拒否されることを検証する。
func TestService_Get_OtherUsersNote(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Note, error) {
			return ownedNote(id, "owner"), nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	_, err := service.Get(context.Background(), "intruder", "note-1")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorizedNote)
}

// TestService_CreateManual_Success は手動作成でタイトルと本文が保存されることを検証する。
func TestService_CreateManual_Success(t *testing.T) {
	var created *model.Note
	repo := &mockNoteRepo{
		createFunc: func(ctx context.Context, note *model.Note) error {
			created = note
			return nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	note, err := service.CreateManual(context.Background(), "user-1", "買い物リスト", "牛乳と卵")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Filename != "買い物リスト" {
		t.Errorf("title = %s, want 買い物リスト", note.Filename)
	}
	if note.ExtractedText != "牛乳と卵" {
		t.Errorf("body = %s, want 牛乳と卵", note.ExtractedText)
	}
	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
	if note.ID == "" {
		t.Error("note should have generated ID")
	}
}

// TestService_CreateManual_Validation は空のタイトル・本文が拒否されることを検証する。
func TestService_CreateManual_Validation(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
	}{
		{"empty title", "", "body"},
		{"whitespace title", "   ", "body"},
		{"empty body", "title", ""},
		{"whitespace body", "title", "  \n "},
		{"too long title", strings.Repeat("あ", 201), "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockNoteRepo{
				createFunc: func(ctx context.Context, note *model.Note) error {
					t.Error("Create should not be called on validation error")
					return nil
				},
			}
			service := NewService(repo, passthroughSanitizer{}, true)

			_, err := service.CreateManual(context.Background(), "user-1", tt.title, tt.body)
			assertAPIErrorCode(t, err, model.ErrCodeValidation)
		})
	}
}

// TestService_UpdateText_Success は所有者が本文を更新できることを検証する。
func TestService_UpdateText_Success(t *testing.T) {
	var updatedID, updatedText string
	repo := &mockNoteRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Note, error) {
			return ownedNote(id, "user-1"), nil
		},
		updateTextFunc: func(ctx context.Context, id, text string) error {
			updatedID = id
			updatedText = text
			return nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	note, err := service.UpdateText(context.Background(), "user-1", "note-1", "  revised  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedID != "note-1" || updatedText != "revised" {
		t.Errorf("update called with (%s, %q), want (note-1, revised)", updatedID, updatedText)
	}
	if note.ExtractedText != "revised" {
		t.Errorf("returned text = %q, want revised", note.ExtractedText)
	}
}

// TestService_UpdateText_OtherUsersNote は他人のノートの更新が拒否され
// リポジトリの更新が呼ばれないことを検証する。
func TestService_UpdateText_OtherUsersNote(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Note, error) {
			return ownedNote(id, "owner"), nil
		},
		updateTextFunc: func(ctx context.Context, id, text string) error {
			t.Error("UpdateText should not be called for unauthorized access")
			return nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	_, err := service.UpdateText(context.Background(), "intruder", "note-1", "hacked")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorizedNote)
}

// TestService_Delete_Success は所有者がノートを削除できることを検証する。
func TestService_Delete_Success(t *testing.T) {
	deleted := false
	repo := &mockNoteRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Note, error) {
			return ownedNote(id, "user-1"), nil
		},
		deleteByIDFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	if err := service.Delete(context.Background(), "user-1", "note-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected repository DeleteByID to be called")
	}
}

// TestService_Delete_OtherUsersNote は他人のノートの削除が拒否されることを検証する。
func TestService_Delete_OtherUsersNote(t *testing.T) {
	repo := &mockNoteRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Note, error) {
			return ownedNote(id, "owner"), nil
		},
		deleteByIDFunc: func(ctx context.Context, id string) error {
			t.Error("DeleteByID should not be called for unauthorized access")
			return nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	err := service.Delete(context.Background(), "intruder", "note-1")
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorizedNote)
}

// TestService_Search_BlankQuery は空・空白のみのクエリで検索せずに
// 空の結果が返ることを検証する。
func TestService_Search_BlankQuery(t *testing.T) {
	repo := &mockNoteRepo{
		searchByTextFunc: func(ctx context.Context, userID, query string, caseSensitive bool) ([]*model.Note, error) {
			t.Error("SearchByText should not be called for blank query")
			return nil, nil
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	for _, query := range []string{"", "   ", "\t\n"} {
		notes, err := service.Search(context.Background(), "user-1", query)
		if err != nil {
			t.Fatalf("unexpected error for query %q: %v", query, err)
		}
		if notes == nil {
			t.Errorf("query %q: expected empty slice, got nil", query)
		}
		if len(notes) != 0 {
			t.Errorf("query %q: expected no results, got %d", query, len(notes))
		}
	}
}

// TestService_Search_PassesCaseSensitivity は設定した大文字小文字の区別が
// リポジトリにそのまま渡ることを検証する。
func TestService_Search_PassesCaseSensitivity(t *testing.T) {
	var gotCaseSensitive bool
	repo := &mockNoteRepo{
		searchByTextFunc: func(ctx context.Context, userID, query string, caseSensitive bool) ([]*model.Note, error) {
			gotCaseSensitive = caseSensitive
			return []*model.Note{}, nil
		},
	}

	service := NewService(repo, passthroughSanitizer{}, false)
	if _, err := service.Search(context.Background(), "user-1", "milk"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCaseSensitive {
		t.Error("caseSensitive = true, want false")
	}
}

// TestService_Search_RepositoryError はストレージ障害が伝播することを検証する。
func TestService_Search_RepositoryError(t *testing.T) {
	repo := &mockNoteRepo{
		searchByTextFunc: func(ctx context.Context, userID, query string, caseSensitive bool) ([]*model.Note, error) {
			return nil, errors.New("connection refused")
		},
	}
	service := NewService(repo, passthroughSanitizer{}, true)

	_, err := service.Search(context.Background(), "user-1", "milk")
	if err == nil {
		t.Fatal("expected error")
	}
}
