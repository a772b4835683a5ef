package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/workforce/backend/internal/application/identity"
	"github.com/workforce/backend/internal/domain/identity"
	"github.com/workforce/backend/internal/interfaces/http/middleware"
)

// RoleHandler handles role management HTTP requests
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create godoc
//
//	@Summary	Create a role
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateRoleRequest	true	"Role definition"
//	@Success	201		{object}	dto.Response{data=RoleResponse}
//	@Security	BearerAuth
//	@Router		/identity/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	info, err := h.roleService.CreateRole(c.Request.Context(), identityapp.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		ScopeLevel:  req.ScopeLevel,
		AllowLists:  req.AllowLists.toDomain(),
		Permissions: permissionMapFrom(req.Permissions),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, roleResponseFrom(*info))
}

// List godoc
//
//	@Summary	List roles with holder counts
//	@Tags		roles
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]RoleResponse}
//	@Security	BearerAuth
//	@Router		/identity/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	infos, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]RoleResponse, len(infos))
	for i, info := range infos {
		responses[i] = roleResponseFrom(info)
	}
	h.Success(c, responses)
}

// GetByID godoc
//
//	@Summary	Get a role
//	@Tags		roles
//	@Produce	json
//	@Param		id	path		string	true	"Role ID"
//	@Success	200	{object}	dto.Response{data=RoleResponse}
//	@Security	BearerAuth
//	@Router		/identity/roles/{id} [get]
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	info, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, roleResponseFrom(*info))
}

// Update godoc
//
//	@Summary	Update a role
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Role ID"
//	@Param		request	body		UpdateRoleRequest	true	"Fields to change"
//	@Success	200		{object}	dto.Response{data=RoleResponse}
//	@Security	BearerAuth
//	@Router		/identity/roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := identityapp.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		ScopeLevel:  req.ScopeLevel,
	}
	if req.AllowLists != nil {
		lists := req.AllowLists.toDomain()
		input.AllowLists = &lists
	}
	if req.Permissions != nil {
		perms := permissionMapFrom(*req.Permissions)
		input.Permissions = &perms
	}

	info, err := h.roleService.UpdateRole(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, roleResponseFrom(*info))
}

// Delete godoc
//
//	@Summary	Delete a role
//	@Tags		roles
//	@Param		id	path	string	true	"Role ID"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/identity/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Modules godoc
//
//	@Summary	List toggleable modules and their features
//	@Tags		roles
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=[]ModuleCatalogResponse}
//	@Security	BearerAuth
//	@Router		/identity/modules [get]
func (h *RoleHandler) Modules(c *gin.Context) {
	modules := identity.KnownModules()
	responses := make([]ModuleCatalogResponse, len(modules))
	for i, module := range modules {
		features := identity.ModuleFeatures(module)
		names := make([]string, len(features))
		for j, f := range features {
			names[j] = string(f)
		}
		responses[i] = ModuleCatalogResponse{
			Module:   string(module),
			Features: names,
		}
	}
	h.Success(c, responses)
}
