package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/scanote/internal/model"
)

func sampleNotes() []*model.Note {
	return []*model.Note{
		{
			ID:            "note-2",
			UserID:        "user-1",
			Filename:      "meeting.png",
			ExtractedText: "agenda item one",
			CreatedAt:     time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            "note-1",
			UserID:        "user-1",
			Filename:      "receipt.jpg",
			ExtractedText: "total 1200 yen",
			CreatedAt:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

// TestHTMLExporter_Export はHTML出力にノートの内容が含まれることを検証する。
func TestHTMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewHTMLExporter()

	if err := exporter.Export(&buf, "user@example.com", sampleNotes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"user@example.com",
		"meeting.png",
		"agenda item one",
		"receipt.jpg",
		"total 1200 yen",
		"全2件",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

// TestHTMLExporter_Export_EscapesMarkup はノート本文のマークアップが
// エスケープされることを検証する。
func TestHTMLExporter_Export_EscapesMarkup(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewHTMLExporter()

	notes := []*model.Note{
		{
			ID:            "note-1",
			Filename:      "x.png",
			ExtractedText: "<script>alert(1)</script>",
			CreatedAt:     time.Now().UTC(),
		},
	}
	if err := exporter.Export(&buf, "user@example.com", notes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("note body must be escaped in HTML output")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped form should appear in output")
	}
}

// TestHTMLExporter_Export_NoNotes はノートがない場合のプレースホルダを検証する。
func TestHTMLExporter_Export_NoNotes(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewHTMLExporter()

	if err := exporter.Export(&buf, "user@example.com", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "ノートはまだありません") {
		t.Error("empty collection should render placeholder text")
	}
}

// TestPDFExporter_Export は有効なPDFバイト列が生成されることを検証する。
func TestPDFExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewPDFExporter()

	if err := exporter.Export(&buf, "user@example.com", sampleNotes()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output should start with PDF header")
	}
	if len(out) < 500 {
		t.Errorf("PDF output suspiciously small: %d bytes", len(out))
	}
}

// TestPDFExporter_Export_NoNotes はノートがなくてもPDFが生成されることを検証する。
func TestPDFExporter_Export_NoNotes(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewPDFExporter()

	if err := exporter.Export(&buf, "user@example.com", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output should start with PDF header")
	}
}
