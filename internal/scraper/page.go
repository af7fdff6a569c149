package scraper

import "time"

// Page is the slice of browser behaviour the crawl consumes. The adapter in
// internal/browser implements it against playwright; tests substitute fakes.
// Text and Attr report a missing element as ok=false, which is a routine
// outcome for optional fields, not an error.
type Page interface {
	Goto(url string, timeout time.Duration) error
	Content() (string, error)
	Text(selector string) (string, bool)
	Attr(selector, name string) (string, bool)
	IsVisible(selector string) bool
	WaitAttached(selector string, timeout time.Duration) error
	WaitVisible(selector string, timeout time.Duration) error
	Click(selector string, timeout time.Duration) error
	Close() error
}

// Browser opens isolated pages that share one browsing context, so every
// concurrent scrape unit presents the same client identity to the site.
type Browser interface {
	NewPage() (Page, error)
	Close() error
}
