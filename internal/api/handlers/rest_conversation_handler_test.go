package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chimgan/sales/internal/api/handlers"
	"github.com/chimgan/sales/internal/api/middleware"
	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/utils"
)

func setupConversationRouter() (*gin.Engine, *MockInquiryService, *MockUserService) {
	inquiries, users := new(MockInquiryService), new(MockUserService)
	h := handlers.NewRestConversationHandler(inquiries, users)
	r := newEngine()
	g := r.Group("/v1/conversations", middleware.AuthMiddleware(testSecret))
	g.GET("", h.List)
	g.GET("/:id/messages", h.Messages)
	g.POST("/:id/messages", h.Send)
	g.POST("/:id/read", h.MarkRead)
	g.POST("/:id/hide", h.Hide)
	return r, inquiries, users
}

func TestRestConversationHandler_List(t *testing.T) {
	r, inquiries, _ := setupConversationRouter()
	me := utils.NewSixID()
	list := []models.Inquiry{
		{Base: models.NewBase(), UnreadFor: []utils.SixID{me}, OwnerID: &me, UserName: "Buyer", CreatedAt: time.Now()},
		{Base: models.NewBase(), CreatedAt: time.Now().Add(-time.Hour)},
	}
	inquiries.On("ListForUser", mock.Anything, me).Return(list, nil)

	w := do(r, http.MethodGet, "/v1/conversations", userToken(t, me), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Len(t, body["data"], 2)
	assert.EqualValues(t, 1, body["unread_count"])
	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Buyer", first["partner_name"])
	assert.Equal(t, true, first["unread"])

	// admin tokens carry no user id
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/conversations", adminToken(t), nil).Code)
}

func TestRestConversationHandler_Messages(t *testing.T) {
	r, inquiries, _ := setupConversationRouter()
	me, stranger := utils.NewSixID(), utils.NewSixID()
	inq := &models.Inquiry{Base: models.NewBase()}
	msgs := []models.Message{{Base: models.NewBase(), InquiryID: inq.ID, Text: "hello"}}
	inquiries.On("FindForParticipant", mock.Anything, inq.ID, me).Return(inq, nil)
	inquiries.On("FindForParticipant", mock.Anything, inq.ID, stranger).Return(nil, apperr.ErrNotParticipant)
	inquiries.On("ListMessages", mock.Anything, inq.ID).Return(msgs, nil)

	w := do(r, http.MethodGet, "/v1/conversations/"+inq.ID.String()+"/messages", userToken(t, me), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = do(r, http.MethodGet, "/v1/conversations/"+inq.ID.String()+"/messages", userToken(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	inquiries.AssertNumberOfCalls(t, "ListMessages", 1)
}

func TestRestConversationHandler_Send(t *testing.T) {
	r, inquiries, users := setupConversationRouter()
	me := &models.User{Base: models.NewBase(), Email: "seller@example.com"}
	inqID := utils.NewSixID()
	users.On("FindByID", mock.Anything, me.ID).Return(me, nil)
	inquiries.On("SendMessage", mock.Anything, inqID, me.ID, "seller@example.com", "Yes, still for sale").
		Return(&models.Message{Base: models.NewBase(), Text: "Yes, still for sale"}, nil)
	inquiries.On("SendMessage", mock.Anything, inqID, me.ID, "seller@example.com", "  ").Return(nil, apperr.ErrEmptyMessage)

	w := do(r, http.MethodPost, "/v1/conversations/"+inqID.String()+"/messages", userToken(t, me.ID), map[string]string{"text": "Yes, still for sale"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/v1/conversations/"+inqID.String()+"/messages", userToken(t, me.ID), map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestConversationHandler_ReadAndHide(t *testing.T) {
	r, inquiries, _ := setupConversationRouter()
	me, inqID := utils.NewSixID(), utils.NewSixID()
	inquiries.On("MarkRead", mock.Anything, inqID, me).Return(nil)
	inquiries.On("Hide", mock.Anything, inqID, me).Return(nil)

	token := userToken(t, me)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/v1/conversations/"+inqID.String()+"/read", token, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/v1/conversations/"+inqID.String()+"/hide", token, nil).Code)
	inquiries.AssertExpectations(t)
}
