package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
)

// defaultFeedSources is used when the user never picked content sources.
var defaultFeedSources = []string{model.SourceTwitter, model.SourceReddit}

type FeedService interface {
	// GetUserFeed returns the personalized feed. Missing source/category
	// filters fall back to the user's saved preferences, then to the platform
	// defaults. Inappropriate content never appears.
	GetUserFeed(ctx context.Context, userID uuid.UUID, filter dto.FeedFilter) (*dto.PaginatedContentResponse, error)
	SearchContent(ctx context.Context, userID uuid.UUID, query string, filter dto.FeedFilter) (*dto.PaginatedContentResponse, error)
	GetContent(ctx context.Context, userID, contentID uuid.UUID) (*dto.ContentItem, error)

	// SaveContent bookmarks content into a folder. Saving the same content
	// again updates folder/tags/notes; credits are only awarded the first time.
	SaveContent(ctx context.Context, userID uuid.UUID, input dto.SaveContentInput) (*model.SavedContent, error)
	UnsaveContent(ctx context.Context, userID, contentID uuid.UUID) error
	GetSavedContent(ctx context.Context, userID uuid.UUID, folder string, page, limit int) (*dto.PaginatedSavedResponse, error)

	ReportContent(ctx context.Context, userID uuid.UUID, input dto.ReportContentInput) (*model.Report, error)

	// ShareContent issues a signed share link for the content and credits the
	// sharer.
	ShareContent(ctx context.Context, userID, contentID uuid.UUID) (*dto.ShareResponse, error)
	// ResolveShareToken validates a share token and returns the shared content.
	ResolveShareToken(ctx context.Context, token string) (*model.Content, error)
}

type feedService struct {
	contentRepo   repository.ContentRepository
	savedRepo     repository.SavedContentRepository
	reportRepo    repository.ReportRepository
	userRepo      repository.UserRepository
	creditService CreditService
	searchService SearchService
	shareTokens   *ShareTokenIssuer
	publicBaseURL string
}

func NewFeedService(
	contentRepo repository.ContentRepository,
	savedRepo repository.SavedContentRepository,
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	creditService CreditService,
	searchService SearchService,
	shareTokens *ShareTokenIssuer,
	publicBaseURL string,
) FeedService {
	return &feedService{
		contentRepo:   contentRepo,
		savedRepo:     savedRepo,
		reportRepo:    reportRepo,
		userRepo:      userRepo,
		creditService: creditService,
		searchService: searchService,
		shareTokens:   shareTokens,
		publicBaseURL: publicBaseURL,
	}
}

// resolveQuery merges the request filter with the user's stored preferences.
func (s *feedService) resolveQuery(ctx context.Context, userID uuid.UUID, filter dto.FeedFilter) repository.ContentQuery {
	q := repository.ContentQuery{
		Sources:    filter.Sources,
		Categories: filter.Categories,
		SortBy:     filter.SortBy,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}

	if len(q.Sources) == 0 || len(q.Categories) == 0 {
		user, err := s.userRepo.FindByID(ctx, userID.String())
		if err == nil && user.Profile != nil {
			if len(q.Sources) == 0 {
				q.Sources = user.Profile.ContentSources
			}
			if len(q.Categories) == 0 {
				q.Categories = user.Profile.ContentCategories
			}
		}
	}
	if len(q.Sources) == 0 {
		q.Sources = defaultFeedSources
	}
	return q
}

func (s *feedService) annotate(ctx context.Context, userID uuid.UUID, items []model.Content) ([]dto.ContentItem, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	savedSet, err := s.savedRepo.SavedSet(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	annotated := make([]dto.ContentItem, len(items))
	for i, item := range items {
		annotated[i] = dto.ContentItem{Content: item, IsSaved: savedSet[item.ID]}
	}
	return annotated, nil
}

func (s *feedService) GetUserFeed(ctx context.Context, userID uuid.UUID, filter dto.FeedFilter) (*dto.PaginatedContentResponse, error) {
	q := s.resolveQuery(ctx, userID, filter)

	items, total, err := s.contentRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	annotated, err := s.annotate(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	return &dto.PaginatedContentResponse{
		Data: annotated,
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *feedService) SearchContent(ctx context.Context, userID uuid.UUID, query string, filter dto.FeedFilter) (*dto.PaginatedContentResponse, error) {
	q := repository.ContentQuery{
		Sources:    filter.Sources,
		Categories: filter.Categories,
		SortBy:     filter.SortBy,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	page, limit := normalizePage(filter.Page, filter.Limit)

	var items []model.Content
	var total int64
	var err error

	if s.searchService != nil {
		items, total, err = s.searchViaIndex(ctx, query, q, page, limit)
	} else {
		items, total, err = s.contentRepo.Search(ctx, query, q)
	}
	if err != nil {
		return nil, err
	}

	annotated, err := s.annotate(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedContentResponse{
		Data: annotated,
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *feedService) searchViaIndex(ctx context.Context, query string, q repository.ContentQuery, page, limit int) ([]model.Content, int64, error) {
	ids, total, err := s.searchService.SearchContentIDs(query, q.Sources, q.Categories, q.SortBy, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.Content, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		content, err := s.contentRepo.FindByID(ctx, id)
		if err != nil {
			// The index can briefly reference rows that no longer exist
			continue
		}
		items = append(items, *content)
	}
	return items, total, nil
}

func (s *feedService) GetContent(ctx context.Context, userID, contentID uuid.UUID) (*dto.ContentItem, error) {
	content, err := s.contentRepo.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	savedSet, err := s.savedRepo.SavedSet(ctx, userID, []uuid.UUID{contentID})
	if err != nil {
		return nil, err
	}

	return &dto.ContentItem{Content: *content, IsSaved: savedSet[contentID]}, nil
}

func (s *feedService) SaveContent(ctx context.Context, userID uuid.UUID, input dto.SaveContentInput) (*model.SavedContent, error) {
	if _, err := s.contentRepo.FindByID(ctx, input.ContentID); err != nil {
		return nil, err
	}

	existing, err := s.savedRepo.SavedSet(ctx, userID, []uuid.UUID{input.ContentID})
	if err != nil {
		return nil, err
	}
	alreadySaved := existing[input.ContentID]

	folder := input.Folder
	if folder == "" {
		folder = "General"
	}

	saved := &model.SavedContent{
		UserID:    userID,
		ContentID: input.ContentID,
		Folder:    folder,
		Tags:      input.Tags,
		Notes:     input.Notes,
	}
	if err := s.savedRepo.Upsert(ctx, saved); err != nil {
		return nil, err
	}

	if !alreadySaved {
		s.award(ctx, userID, input.ContentID, "save")
	}
	return saved, nil
}

func (s *feedService) UnsaveContent(ctx context.Context, userID, contentID uuid.UUID) error {
	deleted, err := s.savedRepo.Delete(ctx, userID, contentID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.ErrNotFound
	}
	return nil
}

func (s *feedService) GetSavedContent(ctx context.Context, userID uuid.UUID, folder string, page, limit int) (*dto.PaginatedSavedResponse, error) {
	page, limit = normalizePage(page, limit)

	saved, total, err := s.savedRepo.ListByUser(ctx, userID, folder, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedSavedResponse{
		Data: saved,
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *feedService) ReportContent(ctx context.Context, userID uuid.UUID, input dto.ReportContentInput) (*model.Report, error) {
	if _, err := s.contentRepo.FindByID(ctx, input.ContentID); err != nil {
		return nil, err
	}

	report := &model.Report{
		ReporterID:  userID,
		ContentID:   input.ContentID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      model.ReportStatusPending,
		ActionTaken: model.ReportActionNone,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *feedService) ShareContent(ctx context.Context, userID, contentID uuid.UUID) (*dto.ShareResponse, error) {
	if _, err := s.contentRepo.FindByID(ctx, contentID); err != nil {
		return nil, err
	}

	sharedAt := time.Now().UTC()
	token := s.shareTokens.Issue(userID, contentID, sharedAt)

	s.award(ctx, userID, contentID, "share")

	return &dto.ShareResponse{
		ShareURL:  fmt.Sprintf("%s/shared/%s", s.publicBaseURL, token),
		Token:     token,
		ContentID: contentID,
		SharedAt:  sharedAt,
	}, nil
}

func (s *feedService) ResolveShareToken(ctx context.Context, token string) (*model.Content, error) {
	claims, err := s.shareTokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.contentRepo.FindByID(ctx, claims.ContentID)
}

// award is best-effort: a credit failure never fails the interaction itself.
func (s *feedService) award(ctx context.Context, userID, contentID uuid.UUID, interactionType string) {
	if s.creditService == nil {
		return
	}
	if err := s.creditService.AwardContentInteraction(ctx, userID, contentID, interactionType); err != nil {
		log.Printf("Failed to award %s credits to user %s: %v", interactionType, userID, err)
	}
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return page, limit
}
