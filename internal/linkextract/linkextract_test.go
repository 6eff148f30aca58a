package linkextract

import (
	"strings"
	"testing"

	"github.com/ecrawler/harvester/internal/pipeline"
)

func parent() pipeline.Link {
	return pipeline.Link{
		URL:     "https://example.com/start",
		Website: "https://example.com",
		Name:    "site",
		Code:    "S1",
		Depth:   0,
	}
}

func TestExtractChildren_OnlyRootRelativeAnchors(t *testing.T) {
	html := `
	<html><body>
		<a href="/page1">p1</a>
		<a href="https://example.com/page2">absolute, ignored</a>
		<a href="relative/page3">non-root-relative, ignored</a>
		<a href="/a.pdf">pdf link</a>
	</body></html>`

	children, err := ExtractChildren(parent(), strings.NewReader(html), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{
		"https://example.com/page1": true,
		"https://example.com/a.pdf": true,
	}
	if len(children) != len(want) {
		t.Fatalf("expected %d children, got %d: %+v", len(want), len(children), children)
	}
	for _, c := range children {
		if !want[c.URL] {
			t.Fatalf("unexpected child URL %s", c.URL)
		}
		if c.Depth != 1 || c.Attempt != 0 || c.Name != "site" || c.Code != "S1" {
			t.Fatalf("child did not inherit parent fields correctly: %+v", c)
		}
	}
}

func TestExtractChildren_DedupsAndSkipsVisited(t *testing.T) {
	html := `
	<html><body>
		<a href="/dup">a</a>
		<a href="/dup">b</a>
		<a href="/already-visited">c</a>
	</body></html>`

	visited := map[string]bool{"https://example.com/already-visited": true}
	children, err := ExtractChildren(parent(), strings.NewReader(html), func(u string) bool { return visited[u] })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(children) != 1 {
		t.Fatalf("expected exactly 1 child after dedup+visited filter, got %d: %+v", len(children), children)
	}
	if children[0].URL != "https://example.com/dup" {
		t.Fatalf("unexpected surviving child: %+v", children[0])
	}
}

func TestExtractChildren_SkipsNonHTTPSchemesIfSomehowRootRelative(t *testing.T) {
	// Root-relative hrefs always resolve to http(s) given an http(s) base,
	// but guard the scheme filter directly in case base itself is unusual.
	p := parent()
	p.Website = "ftp://example.com"

	html := `<a href="/file">f</a>`
	children, err := ExtractChildren(p, strings.NewReader(html), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("expected no children for non-http(s) base, got %+v", children)
	}
}
