package service

import (
	"context"
	"log"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/pkg/apperror"
	"github.com/google/uuid"
)

type AdminService interface {
	ListUsers(ctx context.Context, filter repository.UserListFilter) (*dto.PaginatedUserResponse, error)
	// UpdateUser changes a user's role and/or account status.
	UpdateUser(ctx context.Context, userID uuid.UUID, input dto.UpdateUserInput) (*model.User, error)
	ListReports(ctx context.Context, status string, page, limit int) (*dto.PaginatedReportResponse, error)
	// ReviewReport records a moderation decision. An accepted report with a
	// removed or flagged action hides the content from feed and search, and
	// the reporter is notified of the outcome.
	ReviewReport(ctx context.Context, reportID uint, reviewerID uuid.UUID, input dto.ReviewReportInput) (*model.Report, error)
}

type adminService struct {
	userRepo            repository.UserRepository
	reportRepo          repository.ReportRepository
	contentRepo         repository.ContentRepository
	searchService       SearchService
	notificationService NotificationService
}

func NewAdminService(
	userRepo repository.UserRepository,
	reportRepo repository.ReportRepository,
	contentRepo repository.ContentRepository,
	searchService SearchService,
	notificationService NotificationService,
) AdminService {
	return &adminService{
		userRepo:            userRepo,
		reportRepo:          reportRepo,
		contentRepo:         contentRepo,
		searchService:       searchService,
		notificationService: notificationService,
	}
}

func (s *adminService) ListUsers(ctx context.Context, filter repository.UserListFilter) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	return &dto.PaginatedUserResponse{
		Data: users,
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID uuid.UUID, input dto.UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	if input.Role != "" {
		role, err := s.userRepo.FindRoleByName(ctx, input.Role)
		if err != nil {
			return nil, apperror.New(400, "unknown role: "+input.Role, apperror.ErrInvalidInput)
		}
		user.RoleID = &role.ID
		user.Role = *role
	}
	if input.AccountStatus != "" {
		user.AccountStatus = input.AccountStatus
	}

	if err := s.userRepo.Update(ctx, user, nil); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminService) ListReports(ctx context.Context, status string, page, limit int) (*dto.PaginatedReportResponse, error) {
	page, limit = normalizePage(page, limit)

	reports, total, err := s.reportRepo.ListByStatus(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedReportResponse{
		Data: reports,
		Meta: dto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *adminService) ReviewReport(ctx context.Context, reportID uint, reviewerID uuid.UUID, input dto.ReviewReportInput) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != model.ReportStatusPending {
		return nil, apperror.New(409, "report already reviewed", apperror.ErrDuplicateResource)
	}

	now := time.Now()
	report.Status = input.Status
	report.ReviewerID = &reviewerID
	report.ReviewedAt = &now
	if input.ActionTaken != "" {
		report.ActionTaken = input.ActionTaken
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	if report.Status == model.ReportStatusAccepted &&
		(report.ActionTaken == model.ReportActionRemoved || report.ActionTaken == model.ReportActionFlagged) {
		if err := s.contentRepo.SetInappropriate(ctx, report.ContentID, true); err != nil {
			return nil, err
		}
		if s.searchService != nil {
			if err := s.searchService.DeleteContent(report.ContentID.String()); err != nil {
				log.Printf("Failed to deindex content %s: %v", report.ContentID, err)
			}
		}
	}

	s.notifyReporter(ctx, report)
	return report, nil
}

// notifyReporter tells the reporting user how their report was resolved.
// Best-effort only.
func (s *adminService) notifyReporter(ctx context.Context, report *model.Report) {
	if s.notificationService == nil {
		return
	}

	var message string
	switch report.Status {
	case model.ReportStatusAccepted:
		message = "Thanks for your report. We reviewed the content and took action."
	case model.ReportStatusRejected:
		message = "We reviewed the content you reported and found no violation."
	default:
		message = "Your report has been reviewed."
	}

	contentID := report.ContentID
	notification := &model.Notification{
		UserID:            report.ReporterID,
		Type:              model.NotificationTypeModeration,
		Title:             "Report reviewed",
		Message:           message,
		Priority:          model.NotificationPriorityNormal,
		RelatedEntityID:   &contentID,
		RelatedEntityType: "content",
	}
	if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to notify reporter %s: %v", report.ReporterID, err)
	}
}
