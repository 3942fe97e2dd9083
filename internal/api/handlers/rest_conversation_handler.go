package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chimgan/sales/internal/conversations"
	"github.com/chimgan/sales/internal/services"
)

// RestConversationHandler is the request/response view of a user's conversations.
// Clients that want live updates use the websocket endpoint instead.
type RestConversationHandler struct {
	inquiryService services.IInquiryService
	userService    services.IUserService
}

func NewRestConversationHandler(inquiryService services.IInquiryService, userService services.IUserService) *RestConversationHandler {
	return &RestConversationHandler{inquiryService: inquiryService, userService: userService}
}

// List handles GET /v1/conversations
func (h *RestConversationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.inquiryService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":         conversations.Rows(list, userID),
		"unread_count": conversations.UnreadCount(list, userID),
	})
}

// Messages handles GET /v1/conversations/:id/messages
func (h *RestConversationHandler) Messages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	inquiryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.inquiryService.FindForParticipant(ctx, inquiryID, userID); err != nil {
		respondError(c, err)
		return
	}
	msgs, err := h.inquiryService.ListMessages(ctx, inquiryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": msgs})
}

// Send handles POST /v1/conversations/:id/messages
func (h *RestConversationHandler) Send(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	inquiryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()
	user, err := h.userService.FindByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	msg, err := h.inquiryService.SendMessage(ctx, inquiryID, userID, user.PublicName(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkRead handles POST /v1/conversations/:id/read
func (h *RestConversationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	inquiryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inquiryService.MarkRead(c.Request.Context(), inquiryID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Hide handles POST /v1/conversations/:id/hide
func (h *RestConversationHandler) Hide(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	inquiryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inquiryService.Hide(c.Request.Context(), inquiryID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
