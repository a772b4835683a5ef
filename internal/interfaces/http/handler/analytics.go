package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	analyticsapp "github.com/workforce/backend/internal/application/analytics"
	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/interfaces/http/middleware"
)

// AnalyticsHandler handles dashboard data HTTP requests. Every read
// resolves the caller's scope before touching the datasets.
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.AnalyticsService
	accessService    *identityapp.AccessService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analyticsapp.AnalyticsService, accessService *identityapp.AccessService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		accessService:    accessService,
	}
}

// UploadAttendance godoc
//
//	@Summary	Upload attendance rows
//	@Tags		analytics
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"xlsx workbook"
//	@Success	201		{object}	dto.Response{data=BatchResponse}
//	@Security	BearerAuth
//	@Router		/analytics/attendance/upload [post]
func (h *AnalyticsHandler) UploadAttendance(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer file.Close()

	batch, err := h.analyticsService.UploadAttendance(c.Request.Context(), analyticsapp.UploadInput{
		FileName:   header.Filename,
		UploadedBy: middleware.GetJWTUserEmail(c),
	}, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batchResponseFrom(*batch))
}

// UploadActivity godoc
//
//	@Summary	Upload collaboration activity rows
//	@Tags		analytics
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"xlsx workbook"
//	@Success	201		{object}	dto.Response{data=BatchResponse}
//	@Security	BearerAuth
//	@Router		/analytics/activity/upload [post]
func (h *AnalyticsHandler) UploadActivity(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer file.Close()

	batch, err := h.analyticsService.UploadActivity(c.Request.Context(), analyticsapp.UploadInput{
		FileName:   header.Filename,
		UploadedBy: middleware.GetJWTUserEmail(c),
	}, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batchResponseFrom(*batch))
}

// AttendanceBatches godoc
//
//	@Summary	List accepted attendance uploads
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]BatchResponse}
//	@Security	BearerAuth
//	@Router		/analytics/attendance/batches [get]
func (h *AnalyticsHandler) AttendanceBatches(c *gin.Context) {
	h.Success(c, batchResponsesFrom(h.analyticsService.AttendanceBatches(c.Request.Context())))
}

// ActivityBatches godoc
//
//	@Summary	List accepted activity uploads
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]BatchResponse}
//	@Security	BearerAuth
//	@Router		/analytics/activity/batches [get]
func (h *AnalyticsHandler) ActivityBatches(c *gin.Context) {
	h.Success(c, batchResponsesFrom(h.analyticsService.ActivityBatches(c.Request.Context())))
}

// AttendanceOverview godoc
//
//	@Summary	Attendance KPIs filtered to the caller's scope
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=AttendanceOverviewResponse}
//	@Security	BearerAuth
//	@Router		/analytics/attendance/overview [get]
func (h *AnalyticsHandler) AttendanceOverview(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}

	overview := h.analyticsService.AttendanceOverview(c.Request.Context(), scope)
	h.Success(c, AttendanceOverviewResponse{
		Summary:     overview.Summary,
		Departments: overview.Departments,
		Rows:        overview.Rows,
	})
}

// ActivityOverview godoc
//
//	@Summary	Collaboration KPIs filtered to the caller's scope
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=ActivityOverviewResponse}
//	@Security	BearerAuth
//	@Router		/analytics/activity/overview [get]
func (h *AnalyticsHandler) ActivityOverview(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}

	overview := h.analyticsService.ActivityOverview(c.Request.Context(), scope)
	h.Success(c, ActivityOverviewResponse{
		Summary: overview.Summary,
		Rows:    overview.Rows,
	})
}

// ExportAttendance godoc
//
//	@Summary	Export scoped attendance rows as a workbook
//	@Tags		analytics
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success	200	{file}	binary
//	@Security	BearerAuth
//	@Router		/analytics/attendance/export [get]
func (h *AnalyticsHandler) ExportAttendance(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}

	buf, err := h.analyticsService.ExportAttendance(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fileName := fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// resolveScope loads the caller's effective scope, writing the error
// response itself when that fails.
func (h *AnalyticsHandler) resolveScope(c *gin.Context) (scope identity.EffectiveScope, ok bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return scope, false
	}

	scope, err = h.accessService.ScopeFor(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return scope, false
	}
	return scope, true
}
