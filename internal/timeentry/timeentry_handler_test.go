package timeentry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-timetrack/internal/timeentry"
	timeentryerrors "go-timetrack/internal/timeentry/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	startFn             func(ctx context.Context, companyID, userID string, req timeentry.StartTimeEntryRequest) (timeentry.TimeEntryResponse, error)
	stopFn              func(ctx context.Context, companyID, userID string, req timeentry.StopTimeEntryRequest) (timeentry.TimeEntryResponse, error)
	getAllFn            func(ctx context.Context, companyID string, req timeentry.GetTimeEntriesFilterRequest) ([]timeentry.TimeEntryResponse, error)
	bulkApproveRejectFn func(ctx context.Context, companyID, approverID string, req timeentry.BulkApproveRejectRequest) (int64, error)
}

func (f *fakeService) Start(ctx context.Context, companyID, userID string, req timeentry.StartTimeEntryRequest) (timeentry.TimeEntryResponse, error) {
	return f.startFn(ctx, companyID, userID, req)
}
func (f *fakeService) Stop(ctx context.Context, companyID, userID string, req timeentry.StopTimeEntryRequest) (timeentry.TimeEntryResponse, error) {
	return f.stopFn(ctx, companyID, userID, req)
}
func (f *fakeService) StartBreak(ctx context.Context, companyID, userID string) (timeentry.TimeEntryResponse, error) {
	return timeentry.TimeEntryResponse{}, nil
}
func (f *fakeService) StopBreak(ctx context.Context, companyID, userID string) (timeentry.TimeEntryResponse, error) {
	return timeentry.TimeEntryResponse{}, nil
}
func (f *fakeService) GetAll(ctx context.Context, companyID string, req timeentry.GetTimeEntriesFilterRequest) ([]timeentry.TimeEntryResponse, error) {
	return f.getAllFn(ctx, companyID, req)
}
func (f *fakeService) GetByID(ctx context.Context, companyID, id string) (timeentry.TimeEntryResponse, error) {
	return timeentry.TimeEntryResponse{}, nil
}
func (f *fakeService) Update(ctx context.Context, companyID, id string, req timeentry.UpdateTimeEntryRequest) (timeentry.TimeEntryResponse, error) {
	return timeentry.TimeEntryResponse{}, nil
}
func (f *fakeService) Delete(ctx context.Context, companyID, id string) error { return nil }
func (f *fakeService) BulkApproveReject(ctx context.Context, companyID, approverID string, req timeentry.BulkApproveRejectRequest) (int64, error) {
	return f.bulkApproveRejectFn(ctx, companyID, approverID, req)
}

func TestHandler_StartAndGetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	userID := uuid.New().String()
	projectID := uuid.New().String()

	svc := &fakeService{
		startFn: func(ctx context.Context, cid, uid string, req timeentry.StartTimeEntryRequest) (timeentry.TimeEntryResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, userID, uid)
			assert.Equal(t, projectID, req.ProjectID)
			return timeentry.TimeEntryResponse{ID: uuid.New().String(), CompanyID: cid, UserID: uid}, nil
		},
		getAllFn: func(ctx context.Context, cid string, req timeentry.GetTimeEntriesFilterRequest) ([]timeentry.TimeEntryResponse, error) {
			return []timeentry.TimeEntryResponse{{ID: uuid.New().String()}, {ID: uuid.New().String()}, {ID: uuid.New().String()}}, nil
		},
	}

	h := timeentry.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("user_id", userID)
	c.Request = httptest.NewRequest(http.MethodPost, "/time-entries/start", strings.NewReader(`{"project_id":"`+projectID+`"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Start(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Set("company_id", companyID)
	c2.Request = httptest.NewRequest(http.MethodGet, "/time-entries?page=1&page_size=2", nil)
	h.GetAll(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "\"meta\"")
}

func TestHandler_Start_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := timeentry.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("user_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/time-entries/start", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Start(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_Stop_ConflictFromService(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		stopFn: func(ctx context.Context, cid, uid string, req timeentry.StopTimeEntryRequest) (timeentry.TimeEntryResponse, error) {
			return timeentry.TimeEntryResponse{}, timeentryerrors.ErrNoActiveEntry
		},
	}
	h := timeentry.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("user_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/time-entries/stop", nil)
	h.Stop(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
