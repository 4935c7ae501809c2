package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/httpresp"
	"github.com/salonspace/booking-api/internal/middleware"
	"github.com/salonspace/booking-api/internal/models"
)

type UserHandler struct {
	repo domain.Repository
}

func NewUserHandler(repo domain.Repository) *UserHandler {
	return &UserHandler{repo: repo}
}

// --------- Requests ---------

// Pointer fields distinguish "not sent" from "sent empty"; absent
// fields stay untouched.
type UpdateMeRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// --------- Self ---------

func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	user, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	c.JSON(http.StatusOK, userOut(user))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not process password.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.repo.UpdateUser(c.Request.Context(), user); err != nil {
		if httperr.IsBusiness(err, "duplicate_identity") {
			httperr.BadRequest(c, "duplicate_identity", "Username or email already taken.")
			return
		}
		httperr.Internal(c, "failed_to_update_user", "Could not update profile.")
		return
	}

	c.JSON(http.StatusOK, userOut(user))
}

// --------- Admin ---------

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.repo.ListUsers(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not list users.")
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userOut(&users[i]))
	}
	httpresp.List(c, out)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not load user.")
		return
	}

	c.JSON(http.StatusOK, userOut(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	if err := h.repo.DeleteUser(c.Request.Context(), uint(id)); err != nil {
		if httperr.IsBusiness(err, "user_not_found") {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		if httperr.IsBusiness(err, "user_has_appointments") {
			httperr.Conflict(c, "user_has_appointments", "User still has appointments.")
			return
		}
		httperr.Internal(c, "failed_to_delete_user", "Could not delete user.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User deleted"})
}

func userOut(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}
}
