package handler

import (
	"net/http"

	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleHandler manages role permission documents.
type RoleHandler struct {
	roleSvc ports.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleSvc ports.RoleService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

// List handles GET /roles.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleSvc.ListRoles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roles)
}

// Get handles GET /roles/:role.
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roleSvc.GetRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, role)
}

// Create handles POST /roles.
func (h *RoleHandler) Create(c *gin.Context) {
	h.upsert(c, http.StatusCreated)
}

// SetPermissions handles POST /roles/permissions.
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	h.upsert(c, http.StatusOK)
}

func (h *RoleHandler) upsert(c *gin.Context, status int) {
	var req dto.SetPermissionsRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.roleSvc.SetPermissions(c.Request.Context(), req.Role, req.Permissions)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(status, role)
}
