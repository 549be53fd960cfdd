package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/scanote/internal/model"
)

// PostgresNoteRepo はPostgreSQLを使用したノートリポジトリ。
type PostgresNoteRepo struct {
	db *sql.DB
}

// NewPostgresNoteRepo はPostgresNoteRepoを生成する。
func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

// FindByID は指定IDのノートを取得する。見つからない場合はnilを返す。
func (r *PostgresNoteRepo) FindByID(ctx context.Context, id string) (*model.Note, error) {
	note := &model.Note{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, extracted_text, created_at
		 FROM notes WHERE id = $1`,
		id,
	).Scan(&note.ID, &note.UserID, &note.Filename, &note.ExtractedText, &note.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note by ID: %w", err)
	}

	return note, nil
}

// Create はノートを作成する。
func (r *PostgresNoteRepo) Create(ctx context.Context, note *model.Note) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, filename, extracted_text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		note.ID, note.UserID, note.Filename, note.ExtractedText, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// UpdateText はノート本文を更新する。
func (r *PostgresNoteRepo) UpdateText(ctx context.Context, id, text string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notes SET extracted_text = $2 WHERE id = $1`,
		id, text,
	)
	if err != nil {
		return fmt.Errorf("failed to update note text: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}

// DeleteByID は指定IDのノートを削除する。
func (r *PostgresNoteRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}

// ListByUserID はユーザーの全ノートを作成日時の降順で返す。
func (r *PostgresNoteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, filename, extracted_text, created_at
		 FROM notes
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// SearchByText はユーザーのノートから本文に部分文字列を含むものを
// 作成日時の降順で返す。caseSensitiveがfalseの場合はILIKEで照合する。
// クエリ中のLIKEメタ文字（% _ \）はリテラルとして扱う。
func (r *PostgresNoteRepo) SearchByText(ctx context.Context, userID, query string, caseSensitive bool) ([]*model.Note, error) {
	op := "LIKE"
	if !caseSensitive {
		op = "ILIKE"
	}

	pattern := "%" + escapeLikePattern(query) + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, filename, extracted_text, created_at
		 FROM notes
		 WHERE user_id = $1 AND extracted_text `+op+` $2 ESCAPE '\'
		 ORDER BY created_at DESC`,
		userID, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// escapeLikePattern はLIKEパターンのメタ文字をエスケープする。
func escapeLikePattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// scanNotes は結果セットをノートのスライスに変換する。
func scanNotes(rows *sql.Rows) ([]*model.Note, error) {
	notes := []*model.Note{}
	for rows.Next() {
		note := &model.Note{}
		if err := rows.Scan(&note.ID, &note.UserID, &note.Filename, &note.ExtractedText, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

// compile-time interface check
var _ NoteRepository = (*PostgresNoteRepo)(nil)
