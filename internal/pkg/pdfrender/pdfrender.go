package pdfrender

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"quillpost/internal/model"
)

// RenderPost lays out a post as a single A4 document. author is the byline;
// an empty author omits it.
func RenderPost(post *model.Post, author string) ([]byte, error) {
	if post == nil {
		return nil, fmt.Errorf("render post: nil post")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(18, 18, 18)
	pdf.SetTitle(tr(post.Title), false)
	pdf.SetAuthor(tr(author), false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 9, tr(post.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, tr(metaLine(post, author)), "", "L", false)
	if len(post.Tags) > 0 {
		pdf.MultiCell(0, 5, tr("Tags: "+strings.Join(post.Tags, ", ")), "", "L", false)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "I", 12)
	pdf.SetTextColor(50, 50, 50)
	pdf.MultiCell(0, 6, tr(post.Description), "", "L", false)
	pdf.Ln(4)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(18, pdf.GetY(), 192, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont("Times", "", 12)
	pdf.SetTextColor(20, 20, 20)
	for _, paragraph := range paragraphs(post.Body) {
		pdf.MultiCell(0, 6, tr(paragraph), "", "J", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf build failed: %w", err)
	}
	return buf.Bytes(), nil
}

func metaLine(post *model.Post, author string) string {
	parts := make([]string, 0, 3)
	if author != "" {
		parts = append(parts, "By "+author)
	}
	stamp := post.CreatedAt
	if post.PublishedAt != nil {
		stamp = *post.PublishedAt
	}
	parts = append(parts, stamp.Format(time.DateOnly))
	parts = append(parts, fmt.Sprintf("%d min read", post.ReadingTime))
	return strings.Join(parts, "  |  ")
}

func paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
