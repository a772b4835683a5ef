package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	hierarchyapp "github.com/workforce/backend/internal/application/hierarchy"
	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/interfaces/http/middleware"
)

// HierarchyHandler handles employee hierarchy HTTP requests
type HierarchyHandler struct {
	BaseHandler
	hierarchyService *hierarchyapp.HierarchyService
	accessService    *identityapp.AccessService
}

// NewHierarchyHandler creates a new hierarchy handler
func NewHierarchyHandler(hierarchyService *hierarchyapp.HierarchyService, accessService *identityapp.AccessService) *HierarchyHandler {
	return &HierarchyHandler{
		hierarchyService: hierarchyService,
		accessService:    accessService,
	}
}

// UploadEmployeeList godoc
//
//	@Summary	Upload an employee list snapshot
//	@Tags		hierarchy
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"xlsx workbook"
//	@Success	201		{object}	dto.Response{data=EmployeeListUploadResponse}
//	@Security	BearerAuth
//	@Router		/hierarchy/employees/upload [post]
func (h *HierarchyHandler) UploadEmployeeList(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer file.Close()

	result, err := h.hierarchyService.UploadEmployeeList(c.Request.Context(), hierarchyapp.UploadInput{
		FileName:   header.Filename,
		UploadedBy: middleware.GetJWTUserEmail(c),
	}, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, EmployeeListUploadResponse{
		Snapshot:  snapshotResponseFrom(result.Snapshot),
		Employees: result.Employees,
		Indexed:   result.Indexed,
	})
}

// ListSnapshots godoc
//
//	@Summary	List uploaded employee list snapshots
//	@Tags		hierarchy
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]SnapshotResponse}
//	@Security	BearerAuth
//	@Router		/hierarchy/snapshots [get]
func (h *HierarchyHandler) ListSnapshots(c *gin.Context) {
	infos, err := h.hierarchyService.ListSnapshots(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]SnapshotResponse, len(infos))
	for i, info := range infos {
		responses[i] = snapshotResponseFrom(info)
	}
	h.Success(c, responses)
}

// DeleteSnapshot godoc
//
//	@Summary	Delete an employee list snapshot
//	@Tags		hierarchy
//	@Param		id	path	string	true	"Snapshot ID"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/hierarchy/snapshots/{id} [delete]
func (h *HierarchyHandler) DeleteSnapshot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid snapshot ID")
		return
	}

	if err := h.hierarchyService.DeleteSnapshot(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListEmployees godoc
//
//	@Summary	List employees from the latest snapshot
//	@Tags		hierarchy
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]EmployeeResponse}
//	@Security	BearerAuth
//	@Router		/hierarchy/employees [get]
func (h *HierarchyHandler) ListEmployees(c *gin.Context) {
	infos, err := h.hierarchyService.ListEmployees(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]EmployeeResponse, len(infos))
	for i, info := range infos {
		responses[i] = employeeResponseFrom(info)
	}
	h.Success(c, responses)
}

// GetEmployee godoc
//
//	@Summary	Look up an employee by email
//	@Tags		hierarchy
//	@Produce	json
//	@Param		email	path		string	true	"Employee email"
//	@Success	200		{object}	dto.Response{data=EmployeeResponse}
//	@Security	BearerAuth
//	@Router		/hierarchy/employees/{email} [get]
func (h *HierarchyHandler) GetEmployee(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		h.BadRequest(c, "Missing employee email")
		return
	}

	info, err := h.hierarchyService.LookupEmployee(c.Request.Context(), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employeeResponseFrom(*info))
}

// ScopeOptions godoc
//
//	@Summary	Companies, functions, and departments offered in scope pickers
//	@Tags		hierarchy
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=hierarchy.ScopeOptions}
//	@Security	BearerAuth
//	@Router		/hierarchy/scope-options [get]
//
// The feed is narrowed to the caller's effective scope, so restricted
// users only see their own slice of the cascades. Admins get the full
// feed for allow-list editing.
func (h *HierarchyHandler) ScopeOptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	scope, err := h.accessService.ScopeFor(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	options, err := h.hierarchyService.ScopeOptionsFor(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, options)
}
