package scraper

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/olekdev/autoria-scraper/internal/database"
	"github.com/olekdev/autoria-scraper/internal/normalize"
)

const (
	listingIDSelector  = "#advertStatisticID .titleS"
	titleSelector      = "#basicInfoTitle"
	priceSelector      = "#basicInfoPrice .titleL"
	odometerSelector   = "#basicInfoTableMainInfo0 span"
	sellerNameSelector = "#sellerInfoUserName .titleM"
	vinSelector        = "#badgesVin span.badge"
	plateSelector      = "div.car-number span.common-text"
	imageSelector      = "div.carousel__viewport img"
	photoCountSelector = `#photoSlider .carousel__liveregion[aria-live="polite"]`

	showPhoneButton = "#sellerInfo div.button-main button[data-action='showBottomPopUp']"
	phonePopup      = "#autoPhonePopUpResponse div.button-main span.common-text"
)

var listingIDPattern = regexp.MustCompile(`_(\d+)\.html`)

// errNoListingID marks a listing whose identifier could not be derived from
// the page or the URL; the listing is skipped, the batch continues.
var errNoListingID = errors.New("listing id not found")

// scrapeBatch fans the page's links out to detail-scrape units, at most
// ConcurrentLimit in flight, and returns once every unit has settled.
func (s *session) scrapeBatch(ctx context.Context, links []string) {
	if len(links) == 0 {
		return
	}

	semaphore := make(chan struct{}, s.cfg.ConcurrentLimit)
	var wg sync.WaitGroup

	for _, link := range links {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			s.scrapeListing(ctx, link)
		}(link)
	}

	wg.Wait()
}

// scrapeListing is one isolated unit of work. Nothing it does can fail the
// batch: every error is logged and absorbed at this boundary, and the tab
// and concurrency slot are released on every exit path.
func (s *session) scrapeListing(ctx context.Context, link string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("listing unit panicked", "url", link, "panic", r)
		}
	}()

	if err := s.pacer.Wait(ctx); err != nil {
		return
	}

	page, err := s.browser.NewPage()
	if err != nil {
		s.logger.Error("failed to open listing tab", "url", link, "error", err)
		return
	}
	defer page.Close()

	s.logger.Debug("scraping listing", "url", link)

	if err := page.Goto(link, s.cfg.NavigationTimeout); err != nil {
		s.logger.Error("failed to load listing", "url", link, "error", err)
		return
	}

	listing, err := s.extractListing(page, link)
	if err != nil {
		s.logger.Warn("skipping listing", "url", link, "reason", err)
		return
	}

	listing.PhoneNumber = s.revealPhone(page, link)

	if err := s.sink.Save(ctx, listing); err != nil {
		s.logger.Error("failed to persist listing", "url", link, "error", err)
		return
	}

	s.logger.Info("saved listing", "url", link)
}

// extractListing reads the fixed field set from a loaded detail page. Each
// field is read independently: a missing element degrades to a null value
// in the stored row. Only a missing listing identifier aborts.
func (s *session) extractListing(page Page, link string) (*database.Listing, error) {
	id, _ := page.Text(listingIDSelector)
	id = strings.TrimSpace(id)
	if id == "" {
		if m := listingIDPattern.FindStringSubmatch(link); m != nil {
			id = m[1]
		}
	}
	if id == "" {
		return nil, errNoListingID
	}

	listing := &database.Listing{
		URL:        link,
		SellerName: "Unknown",
	}

	if text, ok := page.Text(titleSelector); ok {
		if title := strings.TrimSpace(text); title != "" {
			listing.Title = &title
		}
	}

	if text, ok := page.Text(priceSelector); ok {
		if v, ok := normalize.Price(text); ok {
			listing.PriceUSD = &v
		}
	}

	if text, ok := page.Text(odometerSelector); ok {
		if v, ok := normalize.Odometer(text); ok {
			listing.OdometerKm = &v
		}
	}

	if text, ok := page.Text(sellerNameSelector); ok {
		if name := strings.TrimSpace(text); name != "" {
			listing.SellerName = name
		}
	}

	if page.IsVisible(vinSelector) {
		if text, ok := page.Text(vinSelector); ok {
			if vin := strings.TrimSpace(text); vin != "" {
				listing.VIN = &vin
			}
		}
	}

	if page.IsVisible(plateSelector) {
		if text, ok := page.Text(plateSelector); ok {
			if plate := strings.TrimSpace(text); plate != "" {
				listing.PlateNumber = &plate
			}
		}
	}

	if src, ok := page.Attr(imageSelector, "src"); ok {
		listing.ImageURL = &src
	}

	if text, ok := page.Text(photoCountSelector); ok {
		if v, ok := normalize.PhotoCount(text); ok {
			listing.PhotoCount = &v
		}
	}

	return listing, nil
}

// revealPhone clicks the "show phone" control and reads the revealed
// number. Best effort: any failure yields a nil phone, never an error.
func (s *session) revealPhone(page Page, link string) *int64 {
	if err := page.Click(showPhoneButton, s.cfg.InteractionTimeout); err != nil {
		s.logger.Warn("could not click show-phone button", "url", link, "error", err)
		return nil
	}

	if err := page.WaitVisible(phonePopup, s.cfg.InteractionTimeout); err != nil {
		s.logger.Warn("phone popup never appeared", "url", link, "error", err)
		return nil
	}

	text, ok := page.Text(phonePopup)
	if !ok {
		return nil
	}

	v, ok := normalize.Phone(text)
	if !ok {
		return nil
	}
	return &v
}
