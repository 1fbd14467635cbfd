package reddit

// Reddit listing JSON shapes, only the fields the normalizer reads.

type listingResponse struct {
	Data struct {
		Children []struct {
			Kind string  `json:"kind"`
			Data apiPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type apiPost struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	SelfText      string  `json:"selftext"`
	Author        string  `json:"author"`
	Subreddit     string  `json:"subreddit"`
	LinkFlairText string  `json:"link_flair_text"`
	Ups           int     `json:"ups"`
	NumComments   int     `json:"num_comments"`
	NumCrossposts int     `json:"num_crossposts"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	CreatedUTC    float64 `json:"created_utc"`
	IsVideo       bool    `json:"is_video"`
	Media         struct {
		RedditVideo struct {
			FallbackURL string `json:"fallback_url"`
		} `json:"reddit_video"`
	} `json:"media"`
	Preview struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}
