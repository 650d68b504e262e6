package pdfrender

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"quillpost/internal/model"
)

func TestRenderPost(t *testing.T) {
	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	post := &model.Post{
		Title:       "Café notes",
		Description: "Short description",
		Tags:        []string{"coffee", "travel"},
		Body:        "First paragraph.\n\nSecond paragraph.",
		ReadingTime: 1,
		CreatedAt:   published.Add(-time.Hour),
		PublishedAt: &published,
	}

	out, err := RenderPost(post, "Ada Lovelace")
	if err != nil {
		t.Fatalf("RenderPost() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
}

func TestRenderPostNil(t *testing.T) {
	if _, err := RenderPost(nil, ""); err == nil {
		t.Fatal("RenderPost(nil) should fail")
	}
}

func TestMetaLineAndParagraphs(t *testing.T) {
	created := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	line := metaLine(&model.Post{CreatedAt: created, ReadingTime: 3}, "")
	if line != "2024-01-05  |  3 min read" {
		t.Fatalf("metaLine() = %q", line)
	}

	got := paragraphs("a\r\n\r\n\n\nb\n\n  ")
	if strings.Join(got, "|") != "a|b" {
		t.Fatalf("paragraphs() = %q", got)
	}
}
