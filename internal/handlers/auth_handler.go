package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salonspace/booking-api/internal/audit"
	"github.com/salonspace/booking-api/internal/config"
	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/httperr"
	"github.com/salonspace/booking-api/internal/models"
	"github.com/salonspace/booking-api/internal/validators"
)

type AuthHandler struct {
	repo   domain.Repository
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(repo domain.Repository, cfg *config.Config, auditDispatcher *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{repo: repo, config: cfg, audit: auditDispatcher}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	role, err := domain.RequestedRole(req.Role)
	if err != nil {
		httperr.BadRequest(c, "invalid_role", "Role must be client or master.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.config.StrictEmailCheck && !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process password.")
		return
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(role),
	}

	if err := h.repo.CreateUser(c.Request.Context(), &user); err != nil {
		if httperr.IsBusiness(err, "duplicate_identity") {
			httperr.BadRequest(c, "duplicate_identity", "Username or email already registered.")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Could not create user.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"role": user.Role},
	})

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// Login accepts an OAuth2-style form: the username field carries the
// email address.
func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("username")))
	password := c.PostForm("password")

	if email == "" || password == "" {
		httperr.BadRequest(c, "invalid_request", "Username and password are required.")
		return
	}

	user, err := h.repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "Incorrect email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not log in.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Incorrect email or password.")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
