package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reddit-stocks-analyzer/internal/types"
)

const listingHTML = `<html><body>
<div id="siteTable">
  <div class="thing" data-fullname="t3_abc" data-permalink="/r/pennystocks/comments/abc/x/"
       data-author="someone" data-timestamp="1704205800000">
    <div class="score unvoted">42</div>
    <a class="title">$GME to the moon</a>
  </div>
  <div class="thing" data-fullname="t3_def" data-permalink="/r/pennystocks/comments/def/y/"
       data-author="other" data-timestamp="1704205900000">
    <div class="score unvoted">&bull;</div>
    <a class="title">market chat</a>
  </div>
  <div class="thing promoted" data-fullname="t1_comment">
    <a class="title">not a post</a>
  </div>
</div>
</body></html>`

func TestScraperParsesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/pennystocks/top/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	s := &Scraper{
		baseURL:   srv.URL,
		userAgent: "test-agent",
		subreddit: "pennystocks",
		timeout:   5 * time.Second,
	}

	posts, err := s.FetchPosts(context.Background(), types.FetchOptions{
		Limit: 25, Sort: "top", TimeFilter: "month",
	})
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts (t1 fullname skipped), got %d", len(posts))
	}

	p := posts[0]
	if p.ID != "abc" || p.Title != "$GME to the moon" || p.Author != "someone" {
		t.Errorf("unexpected post: %+v", p)
	}
	if p.Score != 42 {
		t.Errorf("score = %d, want 42", p.Score)
	}
	if p.CreatedUTC != 1704205800 {
		t.Errorf("created_utc = %v", p.CreatedUTC)
	}
	if p.Permalink != "/r/pennystocks/comments/abc/x/" {
		t.Errorf("permalink = %s", p.Permalink)
	}

	// Hidden score renders as a bullet; it parses to zero, not an error.
	if posts[1].Score != 0 {
		t.Errorf("hidden score should be 0, got %d", posts[1].Score)
	}
}

func TestScraperRespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingHTML)
	}))
	defer srv.Close()

	s := &Scraper{baseURL: srv.URL, userAgent: "ua", subreddit: "pennystocks", timeout: 5 * time.Second}
	posts, err := s.FetchPosts(context.Background(), types.FetchOptions{Limit: 1, Sort: "hot"})
	if err != nil {
		t.Fatalf("FetchPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected limit to cap posts at 1, got %d", len(posts))
	}
}
