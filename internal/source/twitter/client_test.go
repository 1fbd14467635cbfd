package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userFixture = `{"data": {"id": "9000", "name": "Gopher Fan", "username": "gopherfan"}}`

const timelineFixture = `{
  "data": [
    {
      "id": "111",
      "text": "Shipping a new release today #golang #opensource",
      "created_at": "2026-08-30T10:00:00.000Z",
      "public_metrics": {"like_count": 50, "reply_count": 7, "retweet_count": 12, "quote_count": 3},
      "entities": {"hashtags": [{"tag": "golang"}, {"tag": "opensource"}]},
      "attachments": {"media_keys": ["m1", "m2"]}
    },
    {
      "id": "222",
      "text": "Plain text tweet",
      "created_at": "2026-08-29T08:30:00.000Z",
      "public_metrics": {"like_count": 5, "reply_count": 1, "retweet_count": 0, "quote_count": 0}
    }
  ],
  "includes": {
    "media": [
      {"media_key": "m1", "type": "photo", "url": "https://pbs.twimg.com/photo.jpg"},
      {
        "media_key": "m2",
        "type": "video",
        "preview_image_url": "https://pbs.twimg.com/preview.jpg",
        "variants": [
          {"url": "https://video.twimg.com/clip.m3u8", "content_type": "application/x-mpegURL"},
          {"url": "https://video.twimg.com/clip.mp4", "content_type": "video/mp4"}
        ]
      }
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-token")
	c.BaseURL = srv.URL
	return c
}

func timelineHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch {
		case strings.HasPrefix(r.URL.Path, "/users/by/username/"):
			w.Write([]byte(userFixture))
		case strings.HasPrefix(r.URL.Path, "/users/9000/tweets"):
			w.Write([]byte(timelineFixture))
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestFetchTargetMapsTweets(t *testing.T) {
	c := newTestClient(t, timelineHandler(t))

	contents, err := c.FetchTarget(context.Background(), "gopherfan", source.FetchOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, contents, 2)

	tweet := contents[0]
	assert.Equal(t, model.SourceTwitter, tweet.Source)
	assert.Equal(t, "111", tweet.SourceID)
	assert.Equal(t, "gopherfan", tweet.SourceUsername)
	assert.Equal(t, "Gopher Fan", tweet.SourceName)
	assert.Equal(t, model.ContentTypeTweet, tweet.ContentType)
	assert.Equal(t, "https://twitter.com/gopherfan/status/111", tweet.URL)
	assert.Equal(t, []string{"golang", "opensource"}, tweet.Categories)

	// The mp4 video variant wins over the attached photo
	require.Len(t, tweet.MediaURLs, 1)
	assert.Equal(t, "https://video.twimg.com/clip.mp4", tweet.MediaURLs[0])

	// Shares fold retweets and quotes together
	assert.Equal(t, 50, tweet.Engagement.Likes)
	assert.Equal(t, 7, tweet.Engagement.Comments)
	assert.Equal(t, 15, tweet.Engagement.Shares)
	assert.Equal(t, 72, tweet.Engagement.TotalEngagement)

	assert.Equal(t, 2026, tweet.ContentCreatedAt.Year())

	plain := contents[1]
	assert.Empty(t, plain.MediaURLs)
	assert.Empty(t, plain.Categories)
}

func TestPickMediaURLPrefersVideo(t *testing.T) {
	media := map[string]apiMedia{
		"m1": {MediaKey: "m1", Type: "photo", URL: "https://pbs.twimg.com/photo.jpg"},
		"m2": {
			MediaKey: "m2",
			Type:     "video",
			Variants: []struct {
				URL         string `json:"url"`
				ContentType string `json:"content_type"`
			}{
				{URL: "https://video.twimg.com/clip.m3u8", ContentType: "application/x-mpegURL"},
				{URL: "https://video.twimg.com/clip.mp4", ContentType: "video/mp4"},
			},
		},
	}

	// The mp4 variant wins over the photo regardless of key order
	assert.Equal(t, "https://video.twimg.com/clip.mp4", pickMediaURL([]string{"m1", "m2"}, media))
	assert.Equal(t, "https://video.twimg.com/clip.mp4", pickMediaURL([]string{"m2", "m1"}, media))

	// Without a video the first photo is used
	assert.Equal(t, "https://pbs.twimg.com/photo.jpg", pickMediaURL([]string{"m1"}, media))

	// Unknown keys are ignored
	assert.Equal(t, "", pickMediaURL([]string{"missing"}, media))
}

func TestFetchTargetDeletedAccount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Twitter returns 200 with an error body and no data for unknown users
		w.Write([]byte(`{"errors": [{"title": "Not Found Error"}]}`))
	})

	contents, err := c.FetchTarget(context.Background(), "ghost", source.FetchOptions{})
	require.NoError(t, err)
	assert.Nil(t, contents)
}

func TestFetchTargetErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.FetchTarget(context.Background(), "gopherfan", source.FetchOptions{})
	assert.Error(t, err)
}
