package scraper

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is a workbook referenced by the index page
type Link struct {
	URL      string
	FileName string
}

// ExtractWorkbookLinks returns every anchor whose path ends in one of
// extensions, resolved against base, in document order. Links pointing
// at the same file name are kept once.
func ExtractWorkbookLinks(page io.Reader, base *url.URL, extensions []string) ([]Link, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	seen := make(map[string]bool)
	var links []Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""

		name := path.Base(abs.Path)
		if !hasExtension(name, extensions) || seen[name] {
			return
		}
		seen[name] = true
		links = append(links, Link{URL: abs.String(), FileName: name})
	})

	return links, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
