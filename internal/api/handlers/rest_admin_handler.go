package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/services"
)

// RestAdminHandler serves the management panels. All routes require an admin token.
type RestAdminHandler struct {
	itemService      services.IItemService
	categoryService  services.ICategoryService
	inquiryService   services.IInquiryService
	userService      services.IUserService
	analyticsService services.IAnalyticsService
	configService    services.IConfigService
	templateService  services.IEmailTemplateService
}

func NewRestAdminHandler(
	itemService services.IItemService,
	categoryService services.ICategoryService,
	inquiryService services.IInquiryService,
	userService services.IUserService,
	analyticsService services.IAnalyticsService,
	configService services.IConfigService,
	templateService services.IEmailTemplateService,
) *RestAdminHandler {
	return &RestAdminHandler{
		itemService:      itemService,
		categoryService:  categoryService,
		inquiryService:   inquiryService,
		userService:      userService,
		analyticsService: analyticsService,
		configService:    configService,
		templateService:  templateService,
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// --- Items ---

func (h *RestAdminHandler) ListItems(c *gin.Context) {
	items, err := h.itemService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *RestAdminHandler) CreateItem(c *gin.Context) {
	var in services.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	item, err := h.itemService.CreateItemAsAdmin(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem takes a partial document keyed by stored field names.
func (h *RestAdminHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	item, err := h.itemService.UpdateItem(c.Request.Context(), id, updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *RestAdminHandler) SetItemStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.itemService.SetStatus(c.Request.Context(), id, models.ItemStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RestAdminHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Categories & tags ---

func (h *RestAdminHandler) CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *RestAdminHandler) RenameCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.categoryService.RenameCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *RestAdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RestAdminHandler) CreateTag(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	tag, err := h.categoryService.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *RestAdminHandler) RenameTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	tag, err := h.categoryService.RenameTag(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *RestAdminHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteTag(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Inquiries ---

func (h *RestAdminHandler) ListInquiries(c *gin.Context) {
	list, err := h.inquiryService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *RestAdminHandler) SetInquiryStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.inquiryService.UpdateStatus(c.Request.Context(), id, models.InquiryStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Users ---

// ListUsers handles GET /v1/admin/users?search=
func (h *RestAdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (h *RestAdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var upd services.AdminUserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.AdminUpdate(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// --- Analytics & settings ---

func (h *RestAdminHandler) Analytics(c *gin.Context) {
	summary, err := h.analyticsService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// UpdateSettings handles PUT /v1/admin/settings. Only known keys are accepted.
func (h *RestAdminHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		DailyUserAdLimit *int `json:"dailyUserAdLimit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.DailyUserAdLimit == nil {
		badRequest(c, "no settings provided")
		return
	}
	if *req.DailyUserAdLimit < 0 {
		badRequest(c, "dailyUserAdLimit must not be negative")
		return
	}
	if err := h.configService.SetConfigValue(c.Request.Context(), models.SettingDailyUserAdLimit, *req.DailyUserAdLimit, true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{models.SettingDailyUserAdLimit: *req.DailyUserAdLimit})
}

// --- E-mail templates ---

func (h *RestAdminHandler) GetTemplate(c *gin.Context) {
	tmpl, err := h.templateService.GetTemplate(c.Request.Context(), c.Param("template"), c.Param("locale"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *RestAdminHandler) SaveTemplate(c *gin.Context) {
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Subject == "" || req.Body == "" {
		badRequest(c, "subject and body are required")
		return
	}
	tmpl := &models.EmailTemplate{
		TemplateID: c.Param("template"),
		Locale:     c.Param("locale"),
		Subject:    req.Subject,
		Body:       req.Body,
	}
	if err := h.templateService.SaveTemplate(c.Request.Context(), tmpl); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}
