package spider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/visited"
	"github.com/ecrawler/harvester/internal/workset"
)

func newTestDeps(pages, pdfs workset.Set) Deps {
	return Deps{
		Pages:   pages,
		PDFs:    pdfs,
		Visited: visited.NewMemorySet(),
		Client:  &http.Client{Timeout: 5 * time.Second},
		Logger:  zerolog.Nop(),
	}
}

func TestRunOnce_DiscoversChildrenAndPDF(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<html><body>
			<a href="/report.pdf">report</a>
			<a href="/about">about</a>
			<a href="https://external.example/other">external</a>
		</body></html>`)
	})
	mux.HandleFunc("/report.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	pages := workset.NewMemorySet()
	pdfs := workset.NewMemorySet()
	deps := newTestDeps(pages, pdfs)

	seed := pipeline.Link{URL: srv.URL + "/", Website: srv.URL + "/", Depth: 0, Attempt: 0, Type: pipeline.LinkTypePage}
	b, _ := json.Marshal(seed)
	if err := pages.AddMany(context.Background(), [][]byte{b}); err != nil {
		t.Fatalf("seed pages-pool: %v", err)
	}

	cfg := Config{MaxDepth: 5, MaxAttempt: 3, MaxThreads: 4, LimitPerHost: 2}

	n, err := RunOnce(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 link processed, got %d", n)
	}

	pagesSize, _ := pages.Size(context.Background())
	if pagesSize != 2 {
		t.Fatalf("expected 2 new links (/report.pdf, /about) enqueued, external dropped, got %d", pagesSize)
	}

	// Children are classified only once fetched, in the next round:
	// /report.pdf answers application/pdf and moves to pdf-pool.
	if _, err := RunOnce(context.Background(), cfg, deps); err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}

	pdfSize, _ := pdfs.Size(context.Background())
	if pdfSize != 1 {
		t.Fatalf("expected 1 pdf link discovered, got %d", pdfSize)
	}
}

func TestRunOnce_DepthBoundaryStopsChildEnqueue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, `<a href="/child">child</a>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	pages := workset.NewMemorySet()
	pdfs := workset.NewMemorySet()
	deps := newTestDeps(pages, pdfs)

	seed := pipeline.Link{URL: srv.URL + "/", Website: srv.URL + "/", Depth: 1, Attempt: 0, Type: pipeline.LinkTypePage}
	b, _ := json.Marshal(seed)
	pages.AddMany(context.Background(), [][]byte{b})

	cfg := Config{MaxDepth: 1, MaxAttempt: 3, MaxThreads: 2, LimitPerHost: 2}

	if _, err := RunOnce(context.Background(), cfg, deps); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	pagesSize, _ := pages.Size(context.Background())
	if pagesSize != 0 {
		t.Fatalf("expected no children enqueued at max_depth boundary, got %d", pagesSize)
	}
}

func TestRunOnce_EmptyPoolNoOp(t *testing.T) {
	deps := newTestDeps(workset.NewMemorySet(), workset.NewMemorySet())
	cfg := Config{MaxDepth: 5, MaxAttempt: 3, MaxThreads: 2, LimitPerHost: 2}

	n, err := RunOnce(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 processed on empty pool, got %d", n)
	}
}

func TestRunOnce_DeadLinkDropped(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	pages := workset.NewMemorySet()
	pdfs := workset.NewMemorySet()
	deps := newTestDeps(pages, pdfs)

	dead := pipeline.Link{URL: srv.URL + "/", Website: srv.URL + "/", Depth: 0, Attempt: 3, Type: pipeline.LinkTypePage}
	b, _ := json.Marshal(dead)
	pages.AddMany(context.Background(), [][]byte{b})

	cfg := Config{MaxDepth: 5, MaxAttempt: 3, MaxThreads: 2, LimitPerHost: 2}

	if _, err := RunOnce(context.Background(), cfg, deps); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if called {
		t.Fatalf("dead link must not be fetched")
	}
}
