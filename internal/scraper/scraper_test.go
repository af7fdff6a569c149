package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/olekdev/autoria-scraper/internal/config"
	"github.com/olekdev/autoria-scraper/internal/database"
	"github.com/olekdev/autoria-scraper/internal/ratelimit"
)

// fixture is the canned behaviour of one URL on the fake site.
type fixture struct {
	texts     map[string]string
	attrs     map[string]map[string]string
	visible   map[string]bool
	content   string
	gotoErr   error
	gotoDelay time.Duration
	attachErr error
}

// fakeSite implements Browser. It tracks how many pages are open at once so
// tests can observe the concurrency high-water mark.
type fakeSite struct {
	mu        sync.Mutex
	fixtures  map[string]*fixture
	openPages int
	highWater int
	closed    bool
}

func newFakeSite() *fakeSite {
	return &fakeSite{fixtures: make(map[string]*fixture)}
}

func (s *fakeSite) NewPage() (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.openPages++
	if s.openPages > s.highWater {
		s.highWater = s.openPages
	}
	return &fakePage{site: s}, nil
}

func (s *fakeSite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type fakePage struct {
	site *fakeSite
	fx   *fixture
}

func (p *fakePage) Goto(url string, _ time.Duration) error {
	p.site.mu.Lock()
	fx := p.site.fixtures[url]
	p.site.mu.Unlock()

	if fx == nil {
		return fmt.Errorf("no such page: %s", url)
	}
	if fx.gotoDelay > 0 {
		time.Sleep(fx.gotoDelay)
	}
	if fx.gotoErr != nil {
		return fx.gotoErr
	}

	p.fx = fx
	return nil
}

func (p *fakePage) Content() (string, error) {
	if p.fx == nil {
		return "", errors.New("no page loaded")
	}
	return p.fx.content, nil
}

func (p *fakePage) Text(selector string) (string, bool) {
	if p.fx == nil {
		return "", false
	}
	text, ok := p.fx.texts[selector]
	return text, ok
}

func (p *fakePage) Attr(selector, name string) (string, bool) {
	if p.fx == nil {
		return "", false
	}
	attrs, ok := p.fx.attrs[selector]
	if !ok {
		return "", false
	}
	value, ok := attrs[name]
	return value, ok
}

func (p *fakePage) IsVisible(selector string) bool {
	return p.fx != nil && p.fx.visible[selector]
}

func (p *fakePage) WaitAttached(string, time.Duration) error {
	if p.fx == nil {
		return errors.New("no page loaded")
	}
	return p.fx.attachErr
}

func (p *fakePage) WaitVisible(selector string, _ time.Duration) error {
	if p.fx == nil || !p.fx.visible[selector] {
		return fmt.Errorf("timeout waiting for %s", selector)
	}
	return nil
}

func (p *fakePage) Click(selector string, _ time.Duration) error {
	if p.fx == nil || !p.fx.visible[selector] {
		return fmt.Errorf("element not clickable: %s", selector)
	}
	return nil
}

func (p *fakePage) Close() error {
	p.site.mu.Lock()
	defer p.site.mu.Unlock()
	p.site.openPages--
	return nil
}

// fakeSink collects listings; one URL can be configured to fail.
type fakeSink struct {
	mu      sync.Mutex
	saved   []*database.Listing
	failURL string
}

func (s *fakeSink) Save(_ context.Context, l *database.Listing) error {
	if l.URL == s.failURL {
		return errors.New("upsert failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, l)
	return nil
}

func (s *fakeSink) byURL(url string) *database.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.saved {
		if l.URL == url {
			return l
		}
	}
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func testConfig(limit int) config.ScraperConfig {
	return config.ScraperConfig{
		StartURL:           "https://auto.ria.com/uk/car/used/",
		ConcurrentLimit:    limit,
		MinDelay:           time.Millisecond,
		MaxDelay:           2 * time.Millisecond,
		CatalogTimeout:     time.Second,
		NavigationTimeout:  time.Second,
		InteractionTimeout: time.Second,
	}
}

func newTestSession(site *fakeSite, sink Sink, limit int) *session {
	return &session{
		cfg:     testConfig(limit),
		sink:    sink,
		browser: site,
		pacer:   ratelimit.NewPacer(time.Millisecond, 2*time.Millisecond),
		logger:  slog.Default(),
	}
}

// catalogFixture renders a catalog page with the given listing links and an
// optional visible "next" control.
func catalogFixture(listingURLs []string, nextHref string) *fixture {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, u := range listingURLs {
		b.WriteString(`<section class="ticket-item"><a class="m-link-ticket" href="` + u + `"></a></section>`)
	}
	if nextHref != "" {
		b.WriteString(`<a class="page-link js-next" href="` + nextHref + `"></a>`)
	}
	b.WriteString("</body></html>")

	fx := &fixture{
		content: b.String(),
		visible: map[string]bool{},
		attrs:   map[string]map[string]string{},
	}
	if nextHref != "" {
		fx.visible[nextPageControl] = true
		fx.attrs[nextPageControl] = map[string]string{"href": nextHref}
	}
	return fx
}

// listingFixture renders a complete detail page with a revealable phone.
func listingFixture(id string) *fixture {
	return &fixture{
		texts: map[string]string{
			listingIDSelector:  id,
			titleSelector:      "BMW 520 2018",
			priceSelector:      "15 500 $",
			odometerSelector:   "95 тис. км",
			sellerNameSelector: "Олександр",
			vinSelector:        "WBAJA51090B305823",
			plateSelector:      "АА 1234 ВХ",
			photoCountSelector: "Фото 1 з 19",
			phonePopup:         "(063) 213 44 11",
		},
		attrs: map[string]map[string]string{
			imageSelector: {"src": "https://cdn.riastatic.com/photos/1.jpg"},
		},
		visible: map[string]bool{
			vinSelector:     true,
			plateSelector:   true,
			showPhoneButton: true,
			phonePopup:      true,
		},
	}
}
