package reddit

import (
	"context"
	"fmt"
	"time"

	"reddit-stocks-analyzer/internal/interfaces"
	"reddit-stocks-analyzer/internal/logger"
	"reddit-stocks-analyzer/internal/types"
)

var _ interfaces.MentionSource = (*Source)(nil)

var validSorts = map[string]bool{"hot": true, "new": true, "top": true, "rising": true}

// deletedAuthor is the sentinel recorded when a post's author is gone.
const deletedAuthor = "deleted"

type postFetcher interface {
	FetchPosts(ctx context.Context, opts types.FetchOptions) ([]Post, error)
}

type tickerExtractor interface {
	Extract(ctx context.Context, text string) []string
}

// Source turns subreddit posts into validated ticker mentions.
type Source struct {
	client    postFetcher
	fallback  postFetcher
	extractor tickerExtractor
	subreddit string
}

// NewSource creates a mention source. fallback may be nil to disable the
// HTML scrape path.
func NewSource(client *Client, fallback *Scraper, extractor tickerExtractor) *Source {
	s := &Source{
		client:    client,
		extractor: extractor,
		subreddit: client.params.Subreddit,
	}
	if fallback != nil {
		s.fallback = fallback
	}
	return s
}

// FetchMentions fetches posts and extracts one mention per validated ticker
// per post. An invalid sort mode is a configuration error returned before
// any network call.
func (s *Source) FetchMentions(ctx context.Context, opts types.FetchOptions) ([]types.Mention, error) {
	if !validSorts[opts.Sort] {
		return nil, fmt.Errorf("invalid sort option: %s", opts.Sort)
	}

	logger.Info(ctx, "Fetching posts",
		"subreddit", s.subreddit, "limit", opts.Limit,
		"sort", opts.Sort, "time_filter", opts.TimeFilter, "title_only", opts.TitleOnly)

	posts, err := s.client.FetchPosts(ctx, opts)
	if err != nil && s.fallback != nil {
		logger.Warn(ctx, "API fetch failed, falling back to HTML scrape", "error", err)
		posts, err = s.fallback.FetchPosts(ctx, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch posts from r/%s: %w", s.subreddit, err)
	}

	var mentions []types.Mention
	postsWithTickers := map[string]bool{}

	for _, post := range posts {
		text := post.Title
		if !opts.TitleOnly {
			if body := bodyText(post); body != "" {
				text = text + " " + body
			}
		}

		tickers := s.extractor.Extract(ctx, text)
		if len(tickers) == 0 {
			continue
		}
		postsWithTickers[post.ID] = true

		postDate := time.Unix(int64(post.CreatedUTC), 0).UTC()
		author := post.Author
		if author == "" || author == "[deleted]" {
			author = deletedAuthor
		}

		for _, t := range tickers {
			mentions = append(mentions, types.Mention{
				Ticker:    t,
				PostID:    post.ID,
				PostTitle: post.Title,
				PostDate:  postDate,
				PostScore: post.Score,
				PostURL:   "https://reddit.com" + post.Permalink,
				Author:    author,
			})
		}
	}

	logger.Info(ctx, "Mention extraction completed",
		"mentions", len(mentions), "posts_with_tickers", len(postsWithTickers), "posts", len(posts))
	return mentions, nil
}
