// Package linkextract discovers child Links from an HTML page body
// (spec §4.2.1). It plays the role of the spec's out-of-scope "HTML
// parser" collaborator, using goquery the way BeautifulSoup is used in
// the Python original.
package linkextract

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ecrawler/harvester/internal/pipeline"
)

// rootRelativePrefix is the only href shape §4.2.1 considers: a
// leading "/", i.e. a root-relative path.
const rootRelativePrefix = "/"

// ExtractChildren parses html and returns the new Links discovered on
// the parent's page: only root-relative anchors, resolved against
// parent.Website, deduplicated by resolved absolute URL, and filtered
// through isVisited / scheme checks (§4.2.1). Each surviving Link
// inherits Name/Code/Website from parent, depth+1, attempt=0.
func ExtractChildren(parent pipeline.Link, html io.Reader, isVisited func(absoluteURL string) bool) ([]pipeline.Link, error) {
	doc, err := goquery.NewDocumentFromReader(html)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(parent.Website)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var children []pipeline.Link

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.HasPrefix(href, rootRelativePrefix) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()

		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}

		if !isAbsoluteHTTP(abs) {
			return
		}
		if isVisited != nil && isVisited(abs) {
			return
		}

		children = append(children, pipeline.Link{
			URL:     abs,
			Website: parent.Website,
			Name:    parent.Name,
			Code:    parent.Code,
			Depth:   parent.Depth + 1,
			Attempt: 0,
			Type:    pipeline.LinkTypeUnknown,
		})
	})

	return children, nil
}

func isAbsoluteHTTP(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
