package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// queryTimeout bounds locator reads on already loaded pages. Optional
// elements that are not in the DOM resolve through Count, not this timeout.
const queryTimeout = 5 * time.Second

// Page adapts a playwright page to the crawler's browsing surface.
// Element queries report absence as a false second return, never an error.
type Page struct {
	page playwright.Page
}

func (p *Page) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *Page) Content() (string, error) {
	return p.page.Content()
}

func (p *Page) Text(selector string) (string, bool) {
	loc := p.page.Locator(selector).First()

	count, err := loc.Count()
	if err != nil || count == 0 {
		return "", false
	}

	text, err := loc.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(float64(queryTimeout.Milliseconds())),
	})
	if err != nil {
		return "", false
	}
	return text, true
}

func (p *Page) Attr(selector, name string) (string, bool) {
	loc := p.page.Locator(selector).First()

	count, err := loc.Count()
	if err != nil || count == 0 {
		return "", false
	}

	value, err := loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(float64(queryTimeout.Milliseconds())),
	})
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (p *Page) IsVisible(selector string) bool {
	visible, err := p.page.Locator(selector).First().IsVisible()
	return err == nil && visible
}

func (p *Page) WaitAttached(selector string, timeout time.Duration) error {
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *Page) WaitVisible(selector string, timeout time.Duration) error {
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *Page) Click(selector string, timeout time.Duration) error {
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *Page) Close() error {
	return p.page.Close()
}
