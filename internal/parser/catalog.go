// Package parser extracts structured data from rendered page HTML.
package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	listingLinkSelector = "a.m-link-ticket"
)

// ListingLinks collects the detail-page links from a catalog page. The order
// follows document order; a page without listings yields an empty slice.
func ListingLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog page: %w", err)
	}

	var links []string
	doc.Find(listingLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href != "" {
			links = append(links, href)
		}
	})

	return links, nil
}
