package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/source"
)

const DefaultBaseURL = "https://www.reddit.com"

// Client is the adapter for Reddit's public listing API. A target is a
// subreddit name; fetching pulls its current hot posts.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = "creator-dashboard/1.0"
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

var _ source.Adapter = (*Client)(nil)

func (c *Client) ID() string {
	return model.SourceReddit
}

func (c *Client) FetchTarget(ctx context.Context, target string, opts source.FetchOptions) ([]model.Content, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 25
	}

	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.BaseURL, target, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Reddit rejects requests without a descriptive User-Agent
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit api returned status %d for r/%s", resp.StatusCode, target)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, err
	}

	var contents []model.Content
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		post := child.Data
		if post.Author == "" || post.Author == "[deleted]" {
			continue
		}
		contents = append(contents, mapPost(post))
	}
	return contents, nil
}

func mapPost(post apiPost) model.Content {
	var mediaURLs []string
	if u := pickMediaURL(post); u != "" {
		mediaURLs = []string{u}
	}

	url := post.URL
	if post.Permalink != "" {
		url = "https://www.reddit.com" + post.Permalink
	}

	return model.Content{
		Source:         model.SourceReddit,
		SourceID:       post.ID,
		SourceUsername: post.Author,
		SourceName:     "r/" + post.Subreddit,
		ContentType:    model.ContentTypePost,
		Title:          post.Title,
		Text:           post.SelfText,
		MediaURLs:      mediaURLs,
		Categories:     deriveCategories(post),
		URL:            url,
		Engagement: model.Engagement{
			Likes:           post.Ups,
			Comments:        post.NumComments,
			Shares:          post.NumCrossposts,
			TotalEngagement: post.Ups + post.NumComments + post.NumCrossposts,
		},
		ContentCreatedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
	}
}

// pickMediaURL prefers the native video, then the first preview image.
func pickMediaURL(post apiPost) string {
	if post.IsVideo && post.Media.RedditVideo.FallbackURL != "" {
		return post.Media.RedditVideo.FallbackURL
	}
	if len(post.Preview.Images) > 0 {
		// Reddit HTML-escapes ampersands inside preview URLs
		return strings.ReplaceAll(post.Preview.Images[0].Source.URL, "&amp;", "&")
	}
	return ""
}

var titleStopwords = map[string]bool{
	"about": true, "after": true, "again": true, "being": true, "could": true,
	"every": true, "first": true, "other": true, "should": true, "their": true,
	"there": true, "these": true, "thing": true, "think": true, "this": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"with": true, "would": true, "your": true,
}

// deriveCategories builds the category tags from the post flair plus the top
// three longest significant title words.
func deriveCategories(post apiPost) []string {
	var categories []string
	seen := make(map[string]bool)

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		categories = append(categories, tag)
	}

	if post.LinkFlairText != "" {
		add(post.LinkFlairText)
	}

	words := significantTitleWords(post.Title, 3)
	for _, w := range words {
		add(w)
	}

	return categories
}

func significantTitleWords(title string, n int) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var candidates []string
	seen := make(map[string]bool)
	for _, w := range fields {
		if len(w) < 4 || titleStopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		candidates = append(candidates, w)
	}

	// Longest first; stable so equal-length words keep title order
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}
