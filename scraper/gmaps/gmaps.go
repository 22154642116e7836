package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"flowerstore-directory/config"
	"flowerstore-directory/models"
	"flowerstore-directory/utils"
)

const searchURLPrefix = "https://www.google.com/maps/search/"

// Scraper collects place cards from a Maps search results feed.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	seen   *utils.KeySet
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		seen:   utils.NewKeySet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// SearchURL builds the results-feed URL for a free-text query.
func SearchURL(query string) string {
	return searchURLPrefix + url.PathEscape(strings.TrimSpace(query))
}

// Scrape loads the results feed, scrolls it, extracts cards and fills in
// missing phone numbers from the place pages.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.ScrapedPlace, error) {
	s.logger.Info("[gmaps] Starting scrape, query %q, %d scroll rounds",
		s.cfg.ScrapeQuery, s.cfg.ScrollRounds)

	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[gmaps] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "zh-TW"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	places, err := s.scrapeFeed(browserCtx)
	if err != nil {
		return nil, fmt.Errorf("scrape results feed: %w", err)
	}
	if len(places) == 0 {
		s.logger.Warn("[gmaps] Results feed returned 0 cards")
		return nil, nil
	}

	s.enrichPhones(browserCtx, places)

	s.logger.Info("[gmaps] Scrape complete, total places: %d", len(places))
	return places, nil
}

// feedCard mirrors the object built by the extraction script.
type feedCard struct {
	Href     string `json:"href"`
	Name     string `json:"name"`
	Rating   string `json:"rating"`
	Reviews  string `json:"reviews"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	ImageSrc string `json:"image"`
}

const extractCardsJS = `
(function() {
	var results = [];
	var anchors = document.querySelectorAll('a.hfpxzc');
	for (var i = 0; i < anchors.length; i++) {
		var a = anchors[i];
		var card = a.closest('div[role="article"]') || a.parentElement;
		if (!card) continue;

		var text = function(sel) {
			var el = card.querySelector(sel);
			return el ? el.innerText.trim() : '';
		};
		var img = card.querySelector('img');

		// The address sits in the second W4Efsd line, after the category.
		var address = '';
		var lines = card.querySelectorAll('.W4Efsd .W4Efsd');
		if (lines.length > 0) {
			var parts = lines[0].innerText.split('·');
			address = parts.length > 1 ? parts[parts.length - 1].trim() : '';
		}

		results.push({
			href:    a.href || '',
			name:    text('.qBF1Pd') || a.getAttribute('aria-label') || '',
			rating:  text('.MW4etd'),
			reviews: text('.UY7F9'),
			address: address,
			phone:   text('.UsdlK'),
			image:   img ? img.src : ''
		});
	}
	return results;
})()
`

const scrollFeedJS = `
(function() {
	var feed = document.querySelector('div[role="feed"]');
	if (!feed) return false;
	feed.scrollTo(0, feed.scrollHeight);
	return true;
})()
`

// scrapeFeed opens the search, scrolls the feed and extracts all cards.
func (s *Scraper) scrapeFeed(browserCtx context.Context) ([]*models.ScrapedPlace, error) {
	var places []*models.ScrapedPlace

	err := s.retry.Do(browserCtx, "results-feed", func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 120*time.Second)
		defer cancelTimeout()

		if err := chromedp.Run(ctx,
			chromedp.Navigate(SearchURL(s.cfg.ScrapeQuery)),
			chromedp.WaitVisible(`div[role="feed"]`, chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("chromedp open feed: %w", err)
		}

		for round := 1; round <= s.cfg.ScrollRounds; round++ {
			var scrolled bool
			if err := chromedp.Run(ctx,
				chromedp.Evaluate(scrollFeedJS, &scrolled),
				chromedp.Sleep(time.Duration(s.cfg.RateLimitMs)*time.Millisecond),
			); err != nil {
				return fmt.Errorf("chromedp scroll round %d: %w", round, err)
			}
			if !scrolled {
				break
			}
			s.logger.Debug("[gmaps] Scroll round %d/%d", round, s.cfg.ScrollRounds)
		}

		var cards []feedCard
		if err := chromedp.Run(ctx, chromedp.Evaluate(extractCardsJS, &cards)); err != nil {
			return fmt.Errorf("chromedp extract cards: %w", err)
		}

		s.logger.Debug("[gmaps] Found %d cards", len(cards))
		places = s.collect(cards, time.Now())
		return nil
	})

	return places, err
}

// collect converts extracted cards to places, skipping cards without a
// link and places already seen.
func (s *Scraper) collect(cards []feedCard, at time.Time) []*models.ScrapedPlace {
	var out []*models.ScrapedPlace
	for _, c := range cards {
		href := strings.TrimSpace(c.Href)
		if href == "" {
			continue
		}
		if !s.seen.Add(placeKey(href)) {
			s.logger.Debug("[gmaps] Skipping duplicate: %s", c.Name)
			continue
		}
		out = append(out, &models.ScrapedPlace{
			Href:      href,
			Name:      strings.TrimSpace(c.Name),
			Rating:    strings.TrimSpace(c.Rating),
			Reviews:   strings.Trim(strings.TrimSpace(c.Reviews), "()"),
			Address:   strings.TrimSpace(c.Address),
			Phone:     strings.TrimSpace(c.Phone),
			ImageSrc:  strings.TrimSpace(c.ImageSrc),
			ScrapedAt: at,
		})
	}
	return out
}

// placeKey strips the query string so the same place reached through
// different searches dedupes.
func placeKey(href string) string {
	if i := strings.IndexByte(href, '?'); i >= 0 {
		return href[:i]
	}
	return href
}

const detailPhoneJS = `
(function() {
	var btn = document.querySelector('button[data-item-id^="phone:"]');
	if (!btn) return '';
	var label = btn.getAttribute('aria-label') || btn.innerText || '';
	var m = label.match(/[0-9][0-9\s\-()]{6,}/);
	return m ? m[0].trim() : '';
})()
`

const detailAddressJS = `
(function() {
	var btn = document.querySelector('button[data-item-id="address"]');
	if (!btn) return '';
	var label = btn.getAttribute('aria-label') || btn.innerText || '';
	var idx = label.indexOf(':');
	return (idx >= 0 ? label.substring(idx + 1) : label).trim();
})()
`

// enrichPhones visits the place page of cards missing a phone or address.
func (s *Scraper) enrichPhones(browserCtx context.Context, places []*models.ScrapedPlace) {
	for _, place := range places {
		p := place
		if p.Phone != "" && p.Address != "" {
			continue
		}

		s.pool.Submit(browserCtx, func(ctx context.Context) {
			phone, address, err := s.scrapeDetailPage(ctx, p.Href)
			if err != nil {
				s.logger.Warn("[gmaps] Place page failed for %s: %v", p.Name, err)
				return
			}
			if p.Phone == "" {
				p.Phone = phone
			}
			if p.Address == "" {
				p.Address = address
			}
			s.logger.Debug("[gmaps] Enriched: %s", p.Name)
		})
	}
	s.pool.Wait()
}

// scrapeDetailPage reads the phone and address buttons from a place page.
func (s *Scraper) scrapeDetailPage(browserCtx context.Context, href string) (phone, address string, err error) {
	err = s.retry.Do(browserCtx, "place-page", func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(ctx,
			chromedp.Navigate(href),
			chromedp.WaitVisible(`h1`, chromedp.ByQuery),
			chromedp.Evaluate(detailPhoneJS, &phone),
			chromedp.Evaluate(detailAddressJS, &address),
		)
	})
	return phone, address, err
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
