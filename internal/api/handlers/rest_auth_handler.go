package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/auth"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/i18n"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/services"
)

// RestAuthHandler issues user and administrator tokens.
type RestAuthHandler struct {
	cfg         *config.Config
	userService services.IUserService
}

func NewRestAuthHandler(cfg *config.Config, userService services.IUserService) *RestAuthHandler {
	return &RestAuthHandler{cfg: cfg, userService: userService}
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// respondAuthError answers with the auth error code and its localized message.
// Errors without an auth code go through the regular mapping.
func respondAuthError(c *gin.Context, err error) {
	code := i18n.AuthCodeOf(err)
	if code == "" {
		respondError(c, err)
		return
	}
	status := httpStatus(apperr.CodeOf(err))
	c.JSON(status, gin.H{"code": code, "error": i18n.AuthErrorMessage(requestLanguage(c), code)})
}

// SignUp handles POST /v1/auth/signup
func (h *RestAuthHandler) SignUp(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, user)
}

// SignIn handles POST /v1/auth/signin
func (h *RestAuthHandler) SignIn(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	h.issue(c, http.StatusOK, user)
}

func (h *RestAuthHandler) issue(c *gin.Context, status int, user *models.User) {
	token, err := auth.GenerateJWT(user.ID, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		log.Printf("ERROR signing token for user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(requestLanguage(c), "error.generic")})
		return
	}
	c.JSON(status, authResponse{Token: token, User: user})
}

// AdminLogin handles POST /v1/admin/login
func (h *RestAuthHandler) AdminLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !auth.CheckAdminCredentials(req.Email, req.Password, h.cfg.AdminEmail, h.cfg.AdminPasswordHash) {
		log.Printf("WARN: failed admin login for %q from %s", req.Email, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"code": i18n.AuthWrongPassword, "error": i18n.AuthErrorMessage(requestLanguage(c), i18n.AuthWrongPassword)})
		return
	}
	token, err := auth.GenerateAdminJWT(h.cfg.AdminEmail, h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		log.Printf("ERROR signing admin token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(requestLanguage(c), "error.generic")})
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token})
}
