package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/olekdev/autoria-scraper/internal/parser"
)

const (
	listingMarker   = ".ticket-item"
	nextPageControl = "a.page-link.js-next"
)

// ErrCatalogLoad ends the session: a catalog page that cannot be loaded
// leaves no way to recover its link set.
var ErrCatalogLoad = errors.New("catalog page failed to load")

// crawlCatalog drives the pagination loop. Each page's batch of listings is
// fully attempted before the next page is fetched; a non-visible "next"
// control terminates the crawl normally.
func (s *session) crawlCatalog(ctx context.Context, page Page) error {
	current := s.cfg.StartURL
	pageNum := 1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.logger.Info("processing catalog page", "page", pageNum, "url", current)

		links, err := s.collectListingLinks(page, current)
		if err != nil {
			return err
		}

		s.logger.Info("found listings on page", "page", pageNum, "count", len(links))

		s.scrapeBatch(ctx, links)

		// The "next" control can stay in the markup on the final page;
		// only a visible one means there is more to crawl.
		if !page.IsVisible(nextPageControl) {
			s.logger.Info("reached the last page", "pages", pageNum)
			return nil
		}

		href, ok := page.Attr(nextPageControl, "href")
		if !ok || href == "" {
			s.logger.Info("next page control has no target, stopping", "pages", pageNum)
			return nil
		}

		current = href
		pageNum++
		s.logger.Debug("navigating to the next page", "url", current)
	}
}

func (s *session) collectListingLinks(page Page, url string) ([]string, error) {
	if err := page.Goto(url, s.cfg.CatalogTimeout); err != nil {
		return nil, fmt.Errorf("%w: navigating %s: %v", ErrCatalogLoad, url, err)
	}

	if err := page.WaitAttached(listingMarker, s.cfg.CatalogTimeout); err != nil {
		return nil, fmt.Errorf("%w: listing markers never appeared on %s: %v", ErrCatalogLoad, url, err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCatalogLoad, url, err)
	}

	links, err := parser.ListingLinks(html)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCatalogLoad, url, err)
	}

	return links, nil
}
