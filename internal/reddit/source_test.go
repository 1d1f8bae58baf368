package reddit

import (
	"context"
	"errors"
	"testing"

	"reddit-stocks-analyzer/internal/types"
)

type fakeFetcher struct {
	posts []Post
	err   error
	calls int
}

func (f *fakeFetcher) FetchPosts(ctx context.Context, opts types.FetchOptions) ([]Post, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

// fakeExtractor returns canned tickers per input text, recording calls.
type fakeExtractor struct {
	byText map[string][]string
	texts  []string
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) []string {
	f.texts = append(f.texts, text)
	return f.byText[text]
}

func testSource(fetcher postFetcher, extractor tickerExtractor) *Source {
	return &Source{client: fetcher, extractor: extractor, subreddit: "pennystocks"}
}

func TestInvalidSortRejectedBeforeFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := testSource(fetcher, &fakeExtractor{})

	_, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "controversial"})
	if err == nil {
		t.Fatal("expected error for invalid sort")
	}
	if fetcher.calls != 0 {
		t.Errorf("expected no fetch on invalid sort, got %d calls", fetcher.calls)
	}
}

func TestFetchMentionsBuildsOnePerTicker(t *testing.T) {
	fetcher := &fakeFetcher{posts: []Post{{
		ID:         "abc",
		Title:      "$AAA and $BBB look strong",
		CreatedUTC: 1704205800,
		Score:      42,
		Permalink:  "/r/pennystocks/comments/abc/x/",
		Author:     "someone",
	}}}
	extractor := &fakeExtractor{byText: map[string][]string{
		"$AAA and $BBB look strong": {"AAA", "BBB"},
	}}
	s := testSource(fetcher, extractor)

	mentions, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "hot", TitleOnly: true})
	if err != nil {
		t.Fatalf("FetchMentions: %v", err)
	}
	if len(mentions) != 2 {
		t.Fatalf("expected 2 mentions, got %d", len(mentions))
	}

	m := mentions[0]
	if m.Ticker != "AAA" || m.PostID != "abc" || m.PostScore != 42 {
		t.Errorf("unexpected mention: %+v", m)
	}
	if m.PostURL != "https://reddit.com/r/pennystocks/comments/abc/x/" {
		t.Errorf("unexpected URL: %s", m.PostURL)
	}
	if m.PostDate.Unix() != 1704205800 {
		t.Errorf("unexpected date: %v", m.PostDate)
	}
}

func TestPostsWithoutTickersSkipped(t *testing.T) {
	fetcher := &fakeFetcher{posts: []Post{{ID: "abc", Title: "no symbols here", CreatedUTC: 1}}}
	s := testSource(fetcher, &fakeExtractor{})

	mentions, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "new", TitleOnly: true})
	if err != nil {
		t.Fatalf("FetchMentions: %v", err)
	}
	if len(mentions) != 0 {
		t.Errorf("expected no mentions, got %d", len(mentions))
	}
}

func TestDeletedAuthorSentinel(t *testing.T) {
	for _, author := range []string{"", "[deleted]"} {
		fetcher := &fakeFetcher{posts: []Post{{ID: "abc", Title: "$XYZ", CreatedUTC: 1, Author: author}}}
		extractor := &fakeExtractor{byText: map[string][]string{"$XYZ": {"XYZ"}}}
		s := testSource(fetcher, extractor)

		mentions, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "hot", TitleOnly: true})
		if err != nil {
			t.Fatal(err)
		}
		if mentions[0].Author != "deleted" {
			t.Errorf("author %q: expected sentinel, got %q", author, mentions[0].Author)
		}
	}
}

func TestTitleOnlyControlsBodyUse(t *testing.T) {
	post := Post{ID: "abc", Title: "title part", SelfText: "body part", CreatedUTC: 1}
	fetcher := &fakeFetcher{posts: []Post{post}}

	extractor := &fakeExtractor{}
	s := testSource(fetcher, extractor)
	if _, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "hot", TitleOnly: true}); err != nil {
		t.Fatal(err)
	}
	if len(extractor.texts) != 1 || extractor.texts[0] != "title part" {
		t.Errorf("title-only text = %v", extractor.texts)
	}

	extractor = &fakeExtractor{}
	s = testSource(fetcher, extractor)
	if _, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "hot", TitleOnly: false}); err != nil {
		t.Fatal(err)
	}
	if len(extractor.texts) != 1 || extractor.texts[0] != "title part body part" {
		t.Errorf("full-text = %v", extractor.texts)
	}
}

func TestFallbackOnAPIFailure(t *testing.T) {
	primary := &fakeFetcher{err: errors.New("api down")}
	fallback := &fakeFetcher{posts: []Post{{ID: "abc", Title: "$XYZ", CreatedUTC: 1, Author: "a"}}}
	extractor := &fakeExtractor{byText: map[string][]string{"$XYZ": {"XYZ"}}}
	s := &Source{client: primary, fallback: fallback, extractor: extractor, subreddit: "pennystocks"}

	mentions, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "hot", TitleOnly: true})
	if err != nil {
		t.Fatalf("FetchMentions: %v", err)
	}
	if len(mentions) != 1 {
		t.Errorf("expected fallback mention, got %d", len(mentions))
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestNoFallbackPropagatesError(t *testing.T) {
	primary := &fakeFetcher{err: errors.New("api down")}
	s := testSource(primary, &fakeExtractor{})

	if _, err := s.FetchMentions(context.Background(), types.FetchOptions{Limit: 10, Sort: "hot"}); err == nil {
		t.Error("expected error when API fails and no fallback is configured")
	}
}
