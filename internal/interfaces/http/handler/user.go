package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/interfaces/http/middleware"
)

// UserHandler handles account management HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
//
//	@Summary	Create an account
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateUserRequest	true	"Account definition"
//	@Success	201		{object}	dto.Response{data=UserResponse}
//	@Security	BearerAuth
//	@Router		/identity/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := identityapp.CreateUserInput{
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		Password:      req.Password,
		RoleName:      req.RoleName,
		EmployeeEmail: req.EmployeeEmail,
		ScopeLevel:    req.ScopeLevel,
	}
	if req.AllowLists != nil {
		lists := req.AllowLists.toDomain()
		input.AllowLists = &lists
	}

	info, err := h.userService.CreateUser(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, userResponseFrom(*info))
}

// List godoc
//
//	@Summary	List accounts
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]UserResponse}
//	@Security	BearerAuth
//	@Router		/identity/users [get]
func (h *UserHandler) List(c *gin.Context) {
	infos, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]UserResponse, len(infos))
	for i, info := range infos {
		responses[i] = userResponseFrom(info)
	}
	h.Success(c, responses)
}

// GetByID godoc
//
//	@Summary	Get an account
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	dto.Response{data=UserResponse}
//	@Security	BearerAuth
//	@Router		/identity/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	info, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, userResponseFrom(*info))
}

// Update godoc
//
//	@Summary	Update an account
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"User ID"
//	@Param		request	body		UpdateUserRequest	true	"Fields to change"
//	@Success	200		{object}	dto.Response{data=UserResponse}
//	@Security	BearerAuth
//	@Router		/identity/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := identityapp.UpdateUserInput{
		DisplayName:   req.DisplayName,
		Password:      req.Password,
		RoleName:      req.RoleName,
		Active:        req.Active,
		EmployeeEmail: req.EmployeeEmail,
		ScopeLevel:    req.ScopeLevel,
	}
	if req.AllowLists != nil {
		lists := req.AllowLists.toDomain()
		input.AllowLists = &lists
	}

	info, err := h.userService.UpdateUser(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, userResponseFrom(*info))
}

// Delete godoc
//
//	@Summary	Delete an account
//	@Tags		users
//	@Param		id	path	string	true	"User ID"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/identity/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// BulkUpload godoc
//
//	@Summary	Bulk-create accounts from a spreadsheet
//	@Tags		users
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"xlsx workbook"
//	@Success	200		{object}	dto.Response{data=BulkUploadResponse}
//	@Security	BearerAuth
//	@Router		/identity/users/bulk [post]
func (h *UserHandler) BulkUpload(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer file.Close()

	result, err := h.userService.BulkUpload(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, bulkUploadResponseFrom(result))
}
