package twitter

// Twitter API v2 response shapes, only the fields the normalizer reads.

type userLookupResponse struct {
	Data *apiUser `json:"data"`
}

type apiUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type timelineResponse struct {
	Data     []apiTweet   `json:"data"`
	Includes *apiIncludes `json:"includes"`
}

type apiIncludes struct {
	Media []apiMedia `json:"media"`
}

type apiMedia struct {
	MediaKey   string `json:"media_key"`
	Type       string `json:"type"` // "photo", "video", "animated_gif"
	URL        string `json:"url"`
	PreviewURL string `json:"preview_image_url"`
	Variants   []struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
	} `json:"variants"`
}

type apiTweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		LikeCount    int `json:"like_count"`
		ReplyCount   int `json:"reply_count"`
		RetweetCount int `json:"retweet_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
	Entities struct {
		Hashtags []struct {
			Tag string `json:"tag"`
		} `json:"hashtags"`
	} `json:"entities"`
	Attachments struct {
		MediaKeys []string `json:"media_keys"`
	} `json:"attachments"`
}
