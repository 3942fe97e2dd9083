package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/catalog"
	"github.com/chimgan/sales/internal/images"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/services"
	"github.com/chimgan/sales/internal/utils"
)

const defaultPerPage = 20

// ImageUploader stores a batch of images and returns their public URLs.
type ImageUploader interface {
	UploadAll(ctx context.Context, files []images.File) ([]string, error)
}

// RestItemHandler serves the public catalog and the signed-in user's own items.
type RestItemHandler struct {
	itemService     services.IItemService
	inquiryService  services.IInquiryService
	userService     services.IUserService
	uploader        ImageUploader
	maxUploadMemory int64
}

func NewRestItemHandler(itemService services.IItemService, inquiryService services.IInquiryService, userService services.IUserService, uploader ImageUploader) *RestItemHandler {
	return &RestItemHandler{
		itemService:     itemService,
		inquiryService:  inquiryService,
		userService:     userService,
		uploader:        uploader,
		maxUploadMemory: 32 << 20,
	}
}

// ListItems handles GET /v1/items?q=&category=&district=&page=&per_page=
func (h *RestItemHandler) ListItems(c *gin.Context) {
	pager := catalog.NewPager(defaultPerPage)
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		pager.SetSize(perPage)
	}
	pager.SetFilter(catalog.Filter{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		District: c.Query("district"),
	})
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pager.SetPage(page)

	items, err := h.itemService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pager.Render(items))
}

// GetItem handles GET /v1/items/:id and counts the view.
func (h *RestItemHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.itemService.ViewItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemDetail(item))
}

// itemDetail adds the formatted prices shown on the item page.
type itemDetail struct {
	*models.Item
	PriceLabel    string `json:"price_label"`
	DiscountLabel string `json:"discount_price_label,omitempty"`
}

func newItemDetail(item *models.Item) itemDetail {
	d := itemDetail{Item: item, PriceLabel: utils.FormatPrice(item.Price, item.Currency)}
	if item.DiscountPrice != nil {
		d.DiscountLabel = utils.FormatPrice(*item.DiscountPrice, item.Currency)
	}
	return d
}

// CreateInquiry handles POST /v1/items/:id/inquiries. Guests may ask too.
func (h *RestItemHandler) CreateInquiry(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.InquiryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	var requester *models.User
	if userID, signedIn := optionalUser(c); signedIn {
		user, err := h.userService.FindByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		requester = user
	}

	inquiry, err := h.inquiryService.CreateInquiry(c.Request.Context(), itemID, requester, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inquiry)
}

// ListMyItems handles GET /v1/me/items.
func (h *RestItemHandler) ListMyItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	items, err := h.itemService.ListByUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	quota, err := h.itemService.Quota(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "quota": quota})
}

// CreateMyItem handles POST /v1/me/items.
func (h *RestItemHandler) CreateMyItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in services.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	item, err := h.itemService.CreateItem(c.Request.Context(), user, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UploadImages handles POST /v1/uploads (multipart, field "files").
func (h *RestItemHandler) UploadImages(c *gin.Context) {
	if _, ok := currentUserOrAdmin(c); !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "multipart form expected")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		badRequest(c, "no files")
		return
	}

	files := make([]images.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respondError(c, apperr.Internal("failed to read upload", err))
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, h.maxUploadMemory+1))
		f.Close()
		if err != nil {
			respondError(c, apperr.Internal("failed to read upload", err))
			return
		}
		files = append(files, images.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data})
	}

	urls, err := h.uploader.UploadAll(c.Request.Context(), files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"urls": urls})
}
