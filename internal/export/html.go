// Package export はノートコレクションのHTML/PDF書き出しを提供する。
package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/hitoshi/scanote/internal/model"
)

// htmlTemplate はHTML書き出しのテンプレート。
// ノート本文はhtml/templateの自動エスケープを通るため、そのまま埋め込んでよい。
const htmlTemplate = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>scanote エクスポート</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
article { border-bottom: 1px solid #ccc; padding: 1rem 0; }
h2 { margin-bottom: 0.25rem; }
time { color: #666; font-size: 0.85rem; }
pre { white-space: pre-wrap; font-family: inherit; }
</style>
</head>
<body>
<h1>ノート一覧</h1>
<p>{{.Email}} / {{.ExportedAt.Format "2006-01-02 15:04"}} 時点 / 全{{len .Notes}}件</p>
{{range .Notes}}<article>
<h2>{{.Filename}}</h2>
<time>{{.CreatedAt.Format "2006-01-02 15:04"}}</time>
<pre>{{.ExtractedText}}</pre>
</article>
{{else}}<p>ノートはまだありません。</p>
{{end}}</body>
</html>
`

// htmlDocument はテンプレートに渡すデータ。
type htmlDocument struct {
	Email      string
	ExportedAt time.Time
	Notes      []*model.Note
}

// HTMLExporter はノート一覧をHTML文書として書き出す。
type HTMLExporter struct {
	tmpl *template.Template
}

// NewHTMLExporter はHTMLExporterの新しいインスタンスを生成する。
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{
		tmpl: template.Must(template.New("export").Parse(htmlTemplate)),
	}
}

// Export はノート一覧（作成日時の降順で渡される前提）をHTMLとして書き出す。
func (e *HTMLExporter) Export(w io.Writer, email string, notes []*model.Note) error {
	doc := htmlDocument{
		Email:      email,
		ExportedAt: time.Now().UTC(),
		Notes:      notes,
	}
	if err := e.tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("HTMLの生成に失敗しました: %w", err)
	}
	return nil
}
