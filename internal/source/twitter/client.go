package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/source"
)

const DefaultBaseURL = "https://api.twitter.com/2"

// Client is the adapter for the Twitter (X) API v2. A target is a user
// handle; fetching resolves the handle to an ID and pulls its recent tweets.
type Client struct {
	BaseURL     string
	BearerToken string
	HTTPClient  *http.Client
}

func NewClient(bearerToken string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		BearerToken: bearerToken,
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

var _ source.Adapter = (*Client)(nil)

func (c *Client) ID() string {
	return model.SourceTwitter
}

func (c *Client) FetchTarget(ctx context.Context, target string, opts source.FetchOptions) ([]model.Content, error) {
	user, err := c.lookupUser(ctx, target)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Account deleted or suspended: nothing to ingest for this target
		return nil, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 25
	}

	timeline, err := c.fetchTimeline(ctx, user.ID, limit)
	if err != nil {
		return nil, err
	}

	mediaByKey := make(map[string]apiMedia)
	if timeline.Includes != nil {
		for _, m := range timeline.Includes.Media {
			mediaByKey[m.MediaKey] = m
		}
	}

	contents := make([]model.Content, 0, len(timeline.Data))
	for _, tweet := range timeline.Data {
		contents = append(contents, mapTweet(tweet, user, mediaByKey))
	}
	return contents, nil
}

func (c *Client) lookupUser(ctx context.Context, username string) (*apiUser, error) {
	endpoint := fmt.Sprintf("%s/users/by/username/%s", c.BaseURL, url.PathEscape(username))

	var res userLookupResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) fetchTimeline(ctx context.Context, userID string, limit int) (*timelineResponse, error) {
	params := url.Values{}
	params.Set("max_results", fmt.Sprintf("%d", limit))
	params.Set("tweet.fields", "created_at,public_metrics,entities,attachments")
	params.Set("expansions", "attachments.media_keys")
	params.Set("media.fields", "url,preview_image_url,type,variants")
	endpoint := fmt.Sprintf("%s/users/%s/tweets?%s", c.BaseURL, userID, params.Encode())

	var res timelineResponse
	if err := c.getJSON(ctx, endpoint, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.BearerToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twitter api returned status %d for %s", resp.StatusCode, endpoint)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// mapTweet converts one tweet to the canonical content shape. Media prefers a
// native video URL, then the first photo; categories come from hashtags.
func mapTweet(tweet apiTweet, author *apiUser, mediaByKey map[string]apiMedia) model.Content {
	createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}

	var mediaURLs []string
	if u := pickMediaURL(tweet.Attachments.MediaKeys, mediaByKey); u != "" {
		mediaURLs = []string{u}
	}

	var categories []string
	for _, h := range tweet.Entities.Hashtags {
		categories = append(categories, h.Tag)
	}

	metrics := tweet.PublicMetrics
	shares := metrics.RetweetCount + metrics.QuoteCount

	return model.Content{
		Source:         model.SourceTwitter,
		SourceID:       tweet.ID,
		SourceUsername: author.Username,
		SourceName:     author.Name,
		ContentType:    model.ContentTypeTweet,
		Text:           tweet.Text,
		MediaURLs:      mediaURLs,
		Categories:     categories,
		URL:            fmt.Sprintf("https://twitter.com/%s/status/%s", author.Username, tweet.ID),
		Engagement: model.Engagement{
			Likes:           metrics.LikeCount,
			Comments:        metrics.ReplyCount,
			Shares:          shares,
			TotalEngagement: metrics.LikeCount + metrics.ReplyCount + shares,
		},
		ContentCreatedAt: createdAt,
	}
}

func pickMediaURL(mediaKeys []string, mediaByKey map[string]apiMedia) string {
	var firstImage string
	for _, key := range mediaKeys {
		media, ok := mediaByKey[key]
		if !ok {
			continue
		}
		switch media.Type {
		case "video", "animated_gif":
			for _, v := range media.Variants {
				if v.ContentType == "video/mp4" && v.URL != "" {
					return v.URL
				}
			}
			if media.PreviewURL != "" && firstImage == "" {
				firstImage = media.PreviewURL
			}
		case "photo":
			if media.URL != "" && firstImage == "" {
				firstImage = media.URL
			}
		}
	}
	return firstImage
}
