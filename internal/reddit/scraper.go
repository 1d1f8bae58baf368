package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"reddit-stocks-analyzer/internal/logger"
	"reddit-stocks-analyzer/internal/types"
)

// Scraper fetches subreddit listings by scraping old.reddit.com. It is the
// fallback path when the JSON API is unreachable; it only sees titles and
// listing metadata, not post bodies.
type Scraper struct {
	baseURL   string
	userAgent string
	subreddit string
	timeout   time.Duration
}

// NewScraper creates the HTML fallback scraper.
func NewScraper(params Params) *Scraper {
	return &Scraper{
		baseURL:   "https://old.reddit.com",
		userAgent: params.UserAgent,
		subreddit: params.Subreddit,
		timeout:   30 * time.Second,
	}
}

// FetchPosts scrapes the listing page for the requested sort.
func (s *Scraper) FetchPosts(ctx context.Context, opts types.FetchOptions) ([]Post, error) {
	posts := []Post{}

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(s.baseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", s.userAgent)
	})

	c.OnHTML("div.thing", func(e *colly.HTMLElement) {
		if len(posts) >= opts.Limit {
			return
		}

		title := strings.TrimSpace(e.ChildText("a.title"))
		fullname := e.Attr("data-fullname")
		if title == "" || !strings.HasPrefix(fullname, "t3_") {
			return
		}

		var createdUTC float64
		if ms, err := strconv.ParseInt(e.Attr("data-timestamp"), 10, 64); err == nil {
			createdUTC = float64(ms) / 1000
		}

		score := 0
		if n, err := strconv.Atoi(strings.TrimSpace(e.ChildText("div.score.unvoted"))); err == nil {
			score = n
		}

		posts = append(posts, Post{
			ID:         strings.TrimPrefix(fullname, "t3_"),
			Title:      title,
			CreatedUTC: createdUTC,
			Score:      score,
			Permalink:  e.Attr("data-permalink"),
			Author:     e.Attr("data-author"),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Listing scrape error", err, "url", r.Request.URL.String())
	})

	listingURL := fmt.Sprintf("%s/r/%s/%s/?limit=%d", s.baseURL, s.subreddit, opts.Sort, opts.Limit)
	if opts.Sort == "top" {
		listingURL += "&t=" + opts.TimeFilter
	}

	if err := c.Visit(listingURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", listingURL, err)
	}
	c.Wait()

	return posts, nil
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
