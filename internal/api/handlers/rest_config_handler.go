package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chimgan/sales/internal/catalog"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/services"
)

// RestConfigHandler serves the public settings and reference data the client
// needs before rendering the catalog.
type RestConfigHandler struct {
	configService   services.IConfigService
	categoryService services.ICategoryService
}

// NewRestConfigHandler creates a new RestConfigHandler.
func NewRestConfigHandler(configService services.IConfigService, categoryService services.ICategoryService) *RestConfigHandler {
	return &RestConfigHandler{configService: configService, categoryService: categoryService}
}

// GetPublicConfig handles GET /v1/config
func (h *RestConfigHandler) GetPublicConfig(c *gin.Context) {
	publicConfig, err := h.configService.GetAllPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	publicConfig["districts"] = catalog.Districts
	publicConfig["itemsPerPageOptions"] = models.ItemsPerPageOptions
	c.JSON(http.StatusOK, publicConfig)
}

// ListCategories handles GET /v1/categories
func (h *RestConfigHandler) ListCategories(c *gin.Context) {
	list, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ListTags handles GET /v1/tags
func (h *RestConfigHandler) ListTags(c *gin.Context) {
	list, err := h.categoryService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
