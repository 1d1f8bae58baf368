// Package reddit produces ticker mentions from subreddit posts. The
// primary path is the Reddit JSON API; an HTML scrape of old.reddit.com
// serves as a fallback when the API is unreachable.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reddit-stocks-analyzer/internal/types"
)

// Params configures the Reddit client. Credentials are optional: without
// them the public .json endpoints are used.
type Params struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Subreddit    string
}

// Post is a raw forum post as returned by the listing endpoints.
type Post struct {
	ID           string
	Title        string
	SelfText     string
	SelfTextHTML string
	CreatedUTC   float64 // epoch seconds
	Score        int
	Permalink    string
	Author       string
}

// Client fetches subreddit listings from the Reddit API.
type Client struct {
	baseURL    string
	oauthURL   string
	httpClient *http.Client
	params     Params

	token       string
	tokenExpiry time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIBaseURLs overrides the endpoint hosts, used by tests.
func WithAPIBaseURLs(base, oauth string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
		c.oauthURL = oauth
	}
}

// NewClient creates a Reddit API client with a 30s request timeout.
func NewClient(params Params, opts ...ClientOption) *Client {
	if params.UserAgent == "" {
		params.UserAgent = "RedditStockAnalyzer"
	}
	c := &Client{
		baseURL:  "https://www.reddit.com",
		oauthURL: "https://oauth.reddit.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		params: params,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				ID           string  `json:"id"`
				Title        string  `json:"title"`
				SelfText     string  `json:"selftext"`
				SelfTextHTML string  `json:"selftext_html"`
				CreatedUTC   float64 `json:"created_utc"`
				Score        int     `json:"score"`
				Permalink    string  `json:"permalink"`
				Author       string  `json:"author"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// FetchPosts retrieves a subreddit listing sorted per opts.
func (c *Client) FetchPosts(ctx context.Context, opts types.FetchOptions) ([]Post, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", opts.Limit))
	q.Set("raw_json", "1")
	if opts.Sort == "top" {
		q.Set("t", opts.TimeFilter)
	}

	base := c.baseURL
	path := fmt.Sprintf("/r/%s/%s.json", c.params.Subreddit, opts.Sort)

	var authHeader string
	if c.params.ClientID != "" && c.params.ClientSecret != "" {
		token, err := c.ensureToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		base = c.oauthURL
		path = fmt.Sprintf("/r/%s/%s", c.params.Subreddit, opts.Sort)
		authHeader = "Bearer " + token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.params.UserAgent)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		posts = append(posts, Post{
			ID:           d.ID,
			Title:        d.Title,
			SelfText:     d.SelfText,
			SelfTextHTML: d.SelfTextHTML,
			CreatedUTC:   d.CreatedUTC,
			Score:        d.Score,
			Permalink:    d.Permalink,
			Author:       d.Author,
		})
	}
	return posts, nil
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.params.ClientID, c.params.ClientSecret)
	req.Header.Set("User-Agent", c.params.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.token, nil
}
