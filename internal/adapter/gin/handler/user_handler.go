package handler

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	userv1 "user-directory/api/userdirectory/v1"
	"user-directory/internal/adapter/convert"
	"user-directory/internal/usecase/user"
	pkgerrors "user-directory/pkg/errors"
	"user-directory/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message,omitempty"`
	IDs     []int64 `json:"ids,omitempty"`
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req userv1.UserForm
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{UserForm: convert.FormFromWire(req)})
	if err != nil {
		log.Warn("Gin CreateUser failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userv1.CreateUserResponse{
		User:    convert.UserToWire(resp.User),
		Message: resp.Message,
	})
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userv1.GetUserResponse{User: convert.UserToWire(resp.User)})
}

// UpdateUser handles PUT /v1/users/:id. The ID comes from the path; every
// form field must be present.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req userv1.UserForm
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{ID: id, UserForm: convert.FormFromWire(req)})
	if err != nil {
		log.Warn("Gin UpdateUser failed", zap.Int64("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userv1.UpdateUserResponse{
		User:    convert.UserToWire(resp.User),
		Message: resp.Message,
	})
}

// DeleteUser handles DELETE /v1/users/:id. Deleting an unknown ID is not an
// error; the response reports deleted=false.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userv1.DeleteUserResponse{
		ID:      resp.ID,
		Deleted: resp.Deleted,
		Message: resp.Message,
	})
}

// ListUsers handles GET /v1/users?sort=lastName&order=desc&query=...
// sort and order may repeat; the n-th order applies to the n-th sort field.
func (h *UserHandler) ListUsers(c *gin.Context) {
	fields := c.QueryArray("sort")
	orders := c.QueryArray("order")

	if len(orders) > len(fields) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_sort",
			Message: "order given without a matching sort field",
		})
		return
	}

	keys := make([]userv1.SortKey, len(fields))
	for i, f := range fields {
		keys[i].Field = f
		if i < len(orders) {
			keys[i].Order = orders[i]
		}
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		Query: c.Query("query"),
		Sort:  convert.SortFromWire(keys),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, convert.ListToWire(resp))
}

// ReplaceUsers handles PUT /v1/users
func (h *UserHandler) ReplaceUsers(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req userv1.ReplaceUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid replace users request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.ReplaceUsers(c.Request.Context(), user.ReplaceUsersRequest{
		Users:  convert.UsersFromWire(req.Users),
		Strict: req.Strict,
	})
	if err != nil {
		log.Warn("Gin ReplaceUsers failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, convert.ReplaceToWire(resp))
}

// ResetUsers handles DELETE /v1/users
func (h *UserHandler) ResetUsers(c *gin.Context) {
	resp, err := h.uc.ResetUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userv1.ResetUsersResponse{Message: resp.Message})
}

func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	code := pkgerrors.HTTPStatusOf(err)

	var exists *pkgerrors.AlreadyExistsError
	switch {
	case pkgerrors.IsValidation(err):
		c.JSON(code, ErrorResponse{Error: "validation_error", Message: err.Error()})
	case pkgerrors.IsNotFound(err):
		c.JSON(code, ErrorResponse{Error: "not_found", Message: err.Error()})
	case stderrors.As(err, &exists):
		c.JSON(code, ErrorResponse{Error: "already_exists", Message: err.Error(), IDs: exists.IDs})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
