package textextractor

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/workset"
)

type fakeExtractor struct {
	scannedDocIDs map[string]bool
}

func (f fakeExtractor) Extract(_ context.Context, path string) (string, bool, error) {
	for docID, scanned := range f.scannedDocIDs {
		if scanned && strings.Contains(path, docID) {
			return pipeline.ScannedPDFText, true, nil
		}
	}
	return "extracted plain text for " + path, false, nil
}

func TestRunOnce_ExtractsTextAndPushesToDatePool(t *testing.T) {
	texts := workset.NewMemorySet()
	dates := workset.NewMemorySet()

	doc := pipeline.Document{DocID: "abc123", OriginURL: "https://example.org/a.pdf"}
	b, _ := json.Marshal(doc)
	texts.AddMany(context.Background(), [][]byte{b})

	deps := Deps{
		Texts:     texts,
		Dates:     dates,
		Extractor: fakeExtractor{},
		Logger:    zerolog.Nop(),
	}
	cfg := Config{MaxProcessors: 2, MaxThreads: 2, DownloadPath: "/tmp/downloads"}

	n, err := RunOnce(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 processed, got %d", n)
	}

	datesSize, _ := dates.Size(context.Background())
	if datesSize != 1 {
		t.Fatalf("expected 1 document pushed to date-pool, got %d", datesSize)
	}

	raw, _ := dates.PopMany(context.Background(), 1)
	var out pipeline.Document
	json.Unmarshal(raw[0], &out)
	if out.Text == "" {
		t.Fatal("expected non-empty extracted text")
	}
}

func TestRunOnce_ScannedPDFGetsSentinelText(t *testing.T) {
	texts := workset.NewMemorySet()
	dates := workset.NewMemorySet()

	doc := pipeline.Document{DocID: "scanned1", OriginURL: "https://example.org/scan.pdf"}
	b, _ := json.Marshal(doc)
	texts.AddMany(context.Background(), [][]byte{b})

	deps := Deps{
		Texts:     texts,
		Dates:     dates,
		Extractor: fakeExtractor{scannedDocIDs: map[string]bool{"scanned1": true}},
		Logger:    zerolog.Nop(),
	}
	cfg := Config{MaxProcessors: 1, MaxThreads: 1, DownloadPath: "/tmp/downloads"}

	if _, err := RunOnce(context.Background(), cfg, deps); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	raw, _ := dates.PopMany(context.Background(), 1)
	var out pipeline.Document
	json.Unmarshal(raw[0], &out)
	if out.Text != pipeline.ScannedPDFText {
		t.Fatalf("expected scanned sentinel text, got %q", out.Text)
	}
}

func TestRunOnce_EmptyPoolNoOp(t *testing.T) {
	deps := Deps{
		Texts:     workset.NewMemorySet(),
		Dates:     workset.NewMemorySet(),
		Extractor: fakeExtractor{},
		Logger:    zerolog.Nop(),
	}
	cfg := Config{MaxProcessors: 1, MaxThreads: 1}

	n, err := RunOnce(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 processed on empty pool, got %d", n)
	}
}
