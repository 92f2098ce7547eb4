package handler

import (
	"fmt"

	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler manages staff accounts.
type UserHandler struct {
	userSvc ports.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userSvc ports.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.userSvc.Create(c.Request.Context(), ports.CreateUserRequest{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, u)
}

// ToggleStatus handles PATCH /users/:id/status.
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}

	u, err := h.userSvc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.UserStatusResponse{
		Message: fmt.Sprintf("User %s is now %s", u.Username, u.Status),
		User:    u,
	})
}
