package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chimgan/sales/internal/i18n"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/preferences"
	"github.com/chimgan/sales/internal/services"
)

// RestUserHandler serves the signed-in user's profile.
type RestUserHandler struct {
	userService services.IUserService
}

// NewRestUserHandler creates a new RestUserHandler.
func NewRestUserHandler(userService services.IUserService) *RestUserHandler {
	return &RestUserHandler{userService: userService}
}

// profileResponse is the profile plus the effective display preferences.
type profileResponse struct {
	User        *models.User      `json:"user"`
	Preferences preferences.Prefs `json:"preferences"`
}

// GetMe handles GET /v1/me. The client may pass its locally stored values
// (lang, view_mode, per_page); the profile's values win where set.
func (h *RestUserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	prefs := preferences.WithDefaults(preferences.Resolve(preferences.FromUser(user), localPrefs(c)), requestLanguage(c))
	c.JSON(http.StatusOK, profileResponse{User: user, Preferences: prefs})
}

// UpdateMe handles PUT /v1/me
func (h *RestUserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var upd services.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdatePreferences handles PUT /v1/me/preferences. The body carries the
// client's local values; fields left out keep the profile's values.
func (h *RestUserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var prefs preferences.Prefs
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.UpdatePreferences(c.Request.Context(), userID, prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{User: user, Preferences: preferences.WithDefaults(preferences.FromUser(user), requestLanguage(c))})
}

func localPrefs(c *gin.Context) preferences.Prefs {
	var p preferences.Prefs
	if l, ok := i18n.Parse(c.Query("lang")); ok {
		p.Language = string(l)
	}
	if v := models.ViewMode(c.Query("view_mode")); v.IsValid() {
		p.HomeViewMode = v
	}
	if n, err := strconv.Atoi(c.Query("per_page")); err == nil && models.IsValidItemsPerPage(n) {
		p.HomeItemsPerPage = n
	}
	return p
}
