package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `{
  "data": {
    "children": [
      {
        "kind": "t3",
        "data": {
          "id": "abc123",
          "title": "Understanding goroutine scheduling internals",
          "selftext": "A deep dive into the runtime.",
          "author": "gopherfan",
          "subreddit": "golang",
          "link_flair_text": "Discussion",
          "ups": 420,
          "num_comments": 57,
          "num_crossposts": 3,
          "url": "https://example.com/external",
          "permalink": "/r/golang/comments/abc123/understanding/",
          "created_utc": 1756700000,
          "is_video": false,
          "preview": {
            "images": [
              {"source": {"url": "https://preview.redd.it/img.png?width=640&amp;s=abc"}}
            ]
          }
        }
      },
      {
        "kind": "t3",
        "data": {
          "id": "vid456",
          "title": "Demo clip",
          "author": "clipper",
          "subreddit": "golang",
          "ups": 10,
          "num_comments": 2,
          "created_utc": 1756700100,
          "is_video": true,
          "media": {
            "reddit_video": {"fallback_url": "https://v.redd.it/clip/DASH_720.mp4"}
          }
        }
      },
      {
        "kind": "t3",
        "data": {
          "id": "gone",
          "title": "Removed post",
          "author": "[deleted]",
          "subreddit": "golang",
          "created_utc": 1756700200
        }
      },
      {
        "kind": "t1",
        "data": {
          "id": "comment1",
          "author": "someone",
          "created_utc": 1756700300
        }
      }
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-agent/1.0")
	c.BaseURL = srv.URL
	return c
}

func TestFetchTargetMapsPosts(t *testing.T) {
	var gotPath, gotAgent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(listingFixture))
	})

	contents, err := c.FetchTarget(context.Background(), "golang", source.FetchOptions{Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, "/r/golang/hot.json", gotPath)
	assert.Equal(t, "test-agent/1.0", gotAgent)

	// Deleted authors and non-post kinds are skipped
	require.Len(t, contents, 2)

	post := contents[0]
	assert.Equal(t, model.SourceReddit, post.Source)
	assert.Equal(t, "abc123", post.SourceID)
	assert.Equal(t, "gopherfan", post.SourceUsername)
	assert.Equal(t, "r/golang", post.SourceName)
	assert.Equal(t, model.ContentTypePost, post.ContentType)
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/abc123/understanding/", post.URL)
	assert.Equal(t, 420, post.Engagement.Likes)
	assert.Equal(t, 57, post.Engagement.Comments)
	assert.Equal(t, 3, post.Engagement.Shares)
	assert.Equal(t, 480, post.Engagement.TotalEngagement)
	assert.Equal(t, time.Unix(1756700000, 0).UTC(), post.ContentCreatedAt)

	// Preview URL ampersands are unescaped
	require.Len(t, post.MediaURLs, 1)
	assert.Equal(t, "https://preview.redd.it/img.png?width=640&s=abc", post.MediaURLs[0])

	// Flair first, then the longest significant title words
	assert.Equal(t, []string{"discussion", "understanding", "scheduling", "goroutine"}, post.Categories)

	video := contents[1]
	require.Len(t, video.MediaURLs, 1)
	assert.Equal(t, "https://v.redd.it/clip/DASH_720.mp4", video.MediaURLs[0])
}

func TestFetchTargetErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchTarget(context.Background(), "golang", source.FetchOptions{})
	assert.Error(t, err)
}

func TestSignificantTitleWords(t *testing.T) {
	words := significantTitleWords("This is what I think about building distributed systems in Go!", 3)
	assert.Equal(t, []string{"distributed", "building", "systems"}, words)

	// Short and stopword-only titles yield nothing
	assert.Empty(t, significantTitleWords("is it ok?", 3))
	assert.Empty(t, significantTitleWords("this with what", 3))
}

func TestDeriveCategoriesDedupes(t *testing.T) {
	post := apiPost{
		Title:         "Testing testing frameworks",
		LinkFlairText: "Testing",
	}
	categories := deriveCategories(post)
	assert.Equal(t, []string{"testing", "frameworks"}, categories)
}
