package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/hitoshi/scanote/internal/model"
)

// PDFExporter はノート一覧をPDF文書として書き出す。
type PDFExporter struct{}

// NewPDFExporter はPDFExporterの新しいインスタンスを生成する。
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export はノート一覧（作成日時の降順で渡される前提）をPDFとして書き出す。
// ノートごとにタイトル・作成日時・本文を1ブロックとして出力する。
func (e *PDFExporter) Export(w io.Writer, email string, notes []*model.Note) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("scanote export", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "scanote export", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	header := fmt.Sprintf("%s / %s / %d notes", email, time.Now().UTC().Format("2006-01-02 15:04"), len(notes))
	pdf.CellFormat(0, 6, tr(header), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, note := range notes {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(note.Filename), "", "L", false)

		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, note.CreatedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(note.ExtractedText), "", "L", false)
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("PDFの生成に失敗しました: %w", err)
	}
	return nil
}
