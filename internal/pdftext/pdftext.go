// Package pdftext implements the pdf2text algorithm (spec §4.4): compute
// the text-coverage ratio of a PDF and either emit its plain text or the
// scanned-PDF sentinel.
package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/Geek0x0/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/ecrawler/harvester/internal/pipeline"
)

// coverageThreshold is the minimum text-to-page area ratio for a PDF to
// be treated as born-digital rather than a scan (spec §4.4). A ratio
// exactly at the threshold counts as born-digital.
const coverageThreshold = 0.01

// Extractor turns a PDF file on disk into plain text or the scanned-PDF
// sentinel. Exported as an interface so tests can substitute a fake.
type Extractor interface {
	Extract(ctx context.Context, path string) (text string, scanned bool, err error)
}

// PDFCPUExtractor is the production Extractor: page geometry from
// pdfcpu, text and block classification from Geek0x0/pdf.
type PDFCPUExtractor struct{}

func New() *PDFCPUExtractor { return &PDFCPUExtractor{} }

// Extract implements §4.4 steps 1-4.
func (PDFCPUExtractor) Extract(ctx context.Context, path string) (string, bool, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read page dimensions: %w", err)
	}

	r, err := pdf.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("open pdf: %w", err)
	}

	total := r.NumPage()
	if total == 0 || len(dims) != total {
		return "", false, fmt.Errorf("pdf has no pages or page count mismatch: %d pages, %d dims", total, len(dims))
	}

	var aPage, aText float64
	var pages []string

	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		default:
		}

		d := dims[i-1]
		area := d.Width * d.Height
		if area == 0 {
			return "", false, fmt.Errorf("zero-area page %d", i)
		}
		aPage += area

		page := r.Page(i)

		blocks, err := page.ClassifyTextBlocks()
		if err == nil {
			for _, b := range blocks {
				aText += blockArea(b)
			}
		}

		text, err := page.GetPlainText(ctx, nil)
		if err == nil {
			pages = append(pages, text)
		}
	}

	ratio := aText / aPage
	if isScanned(ratio) {
		return pipeline.ScannedPDFText, true, nil
	}

	return strings.Join(pages, "\n"), false, nil
}

// isScanned reports whether a text-coverage ratio falls below the
// born-digital threshold. A ratio exactly at the threshold is NOT
// scanned (spec §4.4 boundary behavior).
func isScanned(ratio float64) bool {
	return ratio < coverageThreshold
}

func blockArea(b pdf.ClassifiedBlock) float64 {
	w := b.Rect.X1 - b.Rect.X0
	h := b.Rect.Y1 - b.Rect.Y0
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}
