package service

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"anoa.com/creatordashboard/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

const contentIndexName = "content"

type SearchService interface {
	IndexContent(content *model.Content) error
	DeleteContent(id string) error
	// SearchContentIDs returns matching content IDs for a query, honoring the
	// source and category filters and the requested sort. The caller hydrates
	// the records from the store.
	SearchContentIDs(query string, sources, categories []string, sortBy string, limit, offset int) ([]string, int64, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"source", "categories", "is_inappropriate"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index(contentIndexName).UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update content filterable attributes: %v", err)
	}

	sortableAttrs := []string{"content_created_at", "total_engagement"}
	_, err = s.client.Index(contentIndexName).UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update content sortable attributes: %v", err)
	}
}

type meiliContentDoc struct {
	ID               string   `json:"id"`
	Source           string   `json:"source"`
	SourceUsername   string   `json:"source_username"`
	SourceName       string   `json:"source_name"`
	Title            string   `json:"title"`
	Text             string   `json:"text"`
	Categories       []string `json:"categories"`
	IsInappropriate  bool     `json:"is_inappropriate"`
	ContentCreatedAt int64    `json:"content_created_at"`
	TotalEngagement  int      `json:"total_engagement"`
}

func (s *meiliSearchService) IndexContent(content *model.Content) error {
	doc := meiliContentDoc{
		ID:               content.ID.String(),
		Source:           content.Source,
		SourceUsername:   content.SourceUsername,
		SourceName:       content.SourceName,
		Title:            content.Title,
		Text:             content.Text,
		Categories:       content.Categories,
		IsInappropriate:  content.IsInappropriate,
		ContentCreatedAt: content.ContentCreatedAt.Unix(),
		TotalEngagement:  content.Engagement.TotalEngagement,
	}

	_, err := s.client.Index(contentIndexName).AddDocuments([]meiliContentDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchService) DeleteContent(id string) error {
	_, err := s.client.Index(contentIndexName).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchContentIDs(query string, sources, categories []string, sortBy string, limit, offset int) ([]string, int64, error) {
	filter := "is_inappropriate = false"
	if len(sources) > 0 {
		filter += " AND source IN " + filterList(sources)
	}
	if len(categories) > 0 {
		filter += " AND categories IN " + filterList(categories)
	}

	req := &meilisearch.SearchRequest{
		Filter: filter,
		Limit:  int64(limit),
		Offset: int64(offset),
	}
	switch sortBy {
	case "recent":
		req.Sort = []string{"content_created_at:desc"}
	case "popular":
		req.Sort = []string{"total_engagement:desc"}
	}

	res, err := s.client.Index(contentIndexName).Search(query, req)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if id, ok := hitID(hit); ok {
			ids = append(ids, id)
		}
	}

	return ids, res.EstimatedTotalHits, nil
}

// filterList renders values as a quoted Meilisearch filter list.
func filterList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// hitID extracts the document id from a raw search hit.
func hitID(hit meilisearch.Hit) (string, bool) {
	raw, ok := hit["id"]
	if !ok {
		return "", false
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", false
	}
	return id, true
}

func strPtr(s string) *string {
	return &s
}
