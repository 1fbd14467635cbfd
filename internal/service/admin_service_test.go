package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	svc      AdminService
	users    *fakeUserRepo
	reports  *fakeReportRepo
	content  *fakeContentRepo
	notifier *fakeNotificationService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:    newFakeUserRepo(),
		reports:  &fakeReportRepo{},
		content:  newFakeContentRepo(),
		notifier: &fakeNotificationService{},
	}
	f.svc = NewAdminService(f.users, f.reports, f.content, nil, f.notifier)
	return f
}

func (f *adminFixture) pendingReport(t *testing.T, contentID uuid.UUID) *model.Report {
	t.Helper()
	report := &model.Report{
		ReporterID:  uuid.New(),
		ContentID:   contentID,
		Reason:      "spam",
		Status:      model.ReportStatusPending,
		ActionTaken: model.ReportActionNone,
	}
	require.NoError(t, f.reports.Create(context.Background(), report))
	return report
}

func TestUpdateUserStatus(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	userID := uuid.New()
	f.users.addUser(model.User{ID: userID, Username: "target", AccountStatus: model.AccountStatusActive})

	user, err := f.svc.UpdateUser(ctx, userID, dto.UpdateUserInput{AccountStatus: model.AccountStatusSuspended})
	require.NoError(t, err)
	assert.Equal(t, model.AccountStatusSuspended, user.AccountStatus)

	stored, err := f.users.FindByID(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, model.AccountStatusSuspended, stored.AccountStatus)
}

func TestReviewReportAcceptedRemovesContent(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	contentID := f.content.add(feedContent(model.SourceReddit, time.Hour))
	report := f.pendingReport(t, contentID)
	reviewerID := uuid.New()

	reviewed, err := f.svc.ReviewReport(ctx, report.ID, reviewerID, dto.ReviewReportInput{
		Status:      model.ReportStatusAccepted,
		ActionTaken: model.ReportActionRemoved,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusAccepted, reviewed.Status)
	require.NotNil(t, reviewed.ReviewerID)
	assert.Equal(t, reviewerID, *reviewed.ReviewerID)
	assert.NotNil(t, reviewed.ReviewedAt)

	content, err := f.content.FindByID(ctx, contentID)
	require.NoError(t, err)
	assert.True(t, content.IsInappropriate)

	// Reporter gets told about the outcome
	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, report.ReporterID, f.notifier.notifications[0].UserID)
	assert.Equal(t, model.NotificationTypeModeration, f.notifier.notifications[0].Type)
}

func TestReviewReportRejectedLeavesContent(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	contentID := f.content.add(feedContent(model.SourceReddit, time.Hour))
	report := f.pendingReport(t, contentID)

	_, err := f.svc.ReviewReport(ctx, report.ID, uuid.New(), dto.ReviewReportInput{
		Status: model.ReportStatusRejected,
	})
	require.NoError(t, err)

	content, err := f.content.FindByID(ctx, contentID)
	require.NoError(t, err)
	assert.False(t, content.IsInappropriate)
}

func TestReviewReportTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()

	contentID := f.content.add(feedContent(model.SourceReddit, time.Hour))
	report := f.pendingReport(t, contentID)

	_, err := f.svc.ReviewReport(ctx, report.ID, uuid.New(), dto.ReviewReportInput{
		Status: model.ReportStatusReviewed,
	})
	require.NoError(t, err)

	_, err = f.svc.ReviewReport(ctx, report.ID, uuid.New(), dto.ReviewReportInput{
		Status: model.ReportStatusAccepted,
	})
	assert.Error(t, err)
}
