package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/utils"
)

type inquiryFixture struct {
	items     IItemService
	users     IUserService
	inquiries IInquiryService
	publisher *recordingPublisher
	queue     *recordingQueue
	owner     *models.User
	buyer     *models.User
	item      *models.Item
}

func newInquiryFixture(t *testing.T, name string) *inquiryFixture {
	database := setupDB(t, name)
	cfg := testConfig()
	ctx := context.Background()
	f := &inquiryFixture{publisher: &recordingPublisher{}, queue: &recordingQueue{}}
	f.items = NewItemService(database, cfg, nil)
	f.users = NewUserService(database, cfg)
	f.inquiries = NewInquiryService(database, f.items, f.users, f.publisher, f.queue)

	var err error
	f.owner, err = f.users.SignUp(ctx, "owner@example.com", "secret1", "Olga")
	require.NoError(t, err)
	f.buyer, err = f.users.SignUp(ctx, "buyer@example.com", "secret2", "Ivan")
	require.NoError(t, err)
	f.item, err = f.items.CreateItem(ctx, f.owner, ItemInput{Title: "Bike", Category: "sport", Location: "Tece", Price: 100})
	require.NoError(t, err)
	return f
}

func TestInquiryService_CreateValidation(t *testing.T) {
	svc := NewInquiryService(nil, nil, nil, nil, nil)
	ctx := context.Background()
	id := utils.NewSixID()

	_, err := svc.CreateInquiry(ctx, id, nil, InquiryInput{Email: "a@b.c", Comment: "hi"})
	assert.ErrorIs(t, err, apperr.ErrRequiredFields)
	_, err = svc.CreateInquiry(ctx, id, nil, InquiryInput{Name: "A", Email: "a@b.c", Comment: "   "})
	assert.ErrorIs(t, err, apperr.ErrRequiredFields)
	_, err = svc.CreateInquiry(ctx, id, nil, InquiryInput{Name: "A", Comment: "hi"})
	assert.ErrorIs(t, err, apperr.ErrContactRequired)
}

func TestInquiryService_UnknownItem(t *testing.T) {
	f := newInquiryFixture(t, "testdb_inquiry_unknown_item")
	_, err := f.inquiries.CreateInquiry(context.Background(), utils.NewSixID(), nil, InquiryInput{Name: "A", Phone: "1", Comment: "hi"})
	assert.ErrorIs(t, err, apperr.ErrItemNotFound)
}

// An inquiry starts unread for the owner; the owner's reply flips it to the requester.
func TestInquiryService_EndToEnd(t *testing.T) {
	f := newInquiryFixture(t, "testdb_inquiry_e2e")
	ctx := context.Background()

	inq, err := f.inquiries.CreateInquiry(ctx, f.item.ID, f.buyer, InquiryInput{Name: "Ivan", Email: "buyer@example.com", Comment: "Is it available?"})
	require.NoError(t, err)
	assert.Equal(t, models.InquiryStatusNew, inq.Status)
	assert.Equal(t, "Bike", inq.ItemTitle)
	assert.Equal(t, "Olga", inq.OwnerName)
	assert.ElementsMatch(t, []utils.SixID{f.owner.ID, f.buyer.ID}, inq.Participants)
	assert.Equal(t, []utils.SixID{f.owner.ID}, inq.UnreadFor)
	assert.Empty(t, inq.HiddenFor)
	assert.Equal(t, []utils.SixID{inq.ID}, f.queue.ids)
	assert.Equal(t, 1, f.publisher.count())

	buyer, err := f.users.FindByID(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Contains(t, buyer.Inquiries, inq.ID)

	msgs, err := f.inquiries.ListMessages(ctx, inq.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Is it available?", msgs[0].Text)
	assert.Equal(t, f.buyer.ID, msgs[0].SenderID)

	ownerList, err := f.inquiries.ListForUser(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, ownerList, 1)
	assert.Equal(t, "Is it available?", ownerList[0].LastMessageText)

	require.NoError(t, f.inquiries.MarkRead(ctx, inq.ID, f.owner.ID))
	_, err = f.inquiries.SendMessage(ctx, inq.ID, f.owner.ID, "Olga", "  Yes!  ")
	require.NoError(t, err)

	got, err := f.inquiries.FindByID(ctx, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, []utils.SixID{f.buyer.ID}, got.UnreadFor)
	assert.Equal(t, models.InquiryStatusContacted, got.Status)
	assert.Equal(t, "Yes!", got.LastMessageText)
	assert.False(t, got.LastMessageAt.IsZero())

	msgs, err = f.inquiries.ListMessages(ctx, inq.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Yes!", msgs[1].Text)
}

func TestInquiryService_GuestInquiry(t *testing.T) {
	f := newInquiryFixture(t, "testdb_inquiry_guest")
	ctx := context.Background()

	inq, err := f.inquiries.CreateInquiry(ctx, f.item.ID, nil, InquiryInput{Name: "Guest", Phone: "+90 555", Comment: "Price?"})
	require.NoError(t, err)
	assert.Nil(t, inq.UserID)
	assert.Equal(t, []utils.SixID{f.owner.ID}, inq.Participants)

	msgs, err := f.inquiries.ListMessages(ctx, inq.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsGuest())

	require.NoError(t, f.inquiries.MarkRead(ctx, inq.ID, f.owner.ID))
	_, err = f.inquiries.SendMessage(ctx, inq.ID, f.owner.ID, "Olga", "5000")
	require.NoError(t, err)
	got, err := f.inquiries.FindByID(ctx, inq.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UnreadFor)
}

func TestInquiryService_ParticipantRules(t *testing.T) {
	f := newInquiryFixture(t, "testdb_inquiry_participants")
	ctx := context.Background()
	inq, err := f.inquiries.CreateInquiry(ctx, f.item.ID, f.buyer, InquiryInput{Name: "Ivan", Phone: "1", Comment: "hi"})
	require.NoError(t, err)

	stranger := utils.NewSixID()
	_, err = f.inquiries.SendMessage(ctx, inq.ID, stranger, "X", "hello")
	assert.ErrorIs(t, err, apperr.ErrNotParticipant)
	assert.ErrorIs(t, f.inquiries.Hide(ctx, inq.ID, stranger), apperr.ErrNotParticipant)

	_, err = f.inquiries.SendMessage(ctx, inq.ID, f.buyer.ID, "Ivan", "   ")
	assert.ErrorIs(t, err, apperr.ErrEmptyMessage)

	require.NoError(t, f.inquiries.Hide(ctx, inq.ID, f.buyer.ID))
	require.NoError(t, f.inquiries.Hide(ctx, inq.ID, f.buyer.ID))
	got, err := f.inquiries.FindByID(ctx, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, []utils.SixID{f.buyer.ID}, got.HiddenFor)

	buyerList, err := f.inquiries.ListForUser(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, buyerList)
	ownerList, err := f.inquiries.ListForUser(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, ownerList, 1)
}

func TestInquiryService_AdminStatus(t *testing.T) {
	f := newInquiryFixture(t, "testdb_inquiry_status")
	ctx := context.Background()
	inq, err := f.inquiries.CreateInquiry(ctx, f.item.ID, nil, InquiryInput{Name: "G", Email: "g@example.com", Comment: "hi"})
	require.NoError(t, err)

	require.NoError(t, f.inquiries.UpdateStatus(ctx, inq.ID, models.InquiryStatusClosed))
	assert.ErrorIs(t, f.inquiries.UpdateStatus(ctx, inq.ID, "archived"), apperr.ErrInvalidStatus)
	assert.ErrorIs(t, f.inquiries.UpdateStatus(ctx, utils.NewSixID(), models.InquiryStatusNew), apperr.ErrInquiryNotFound)

	all, err := f.inquiries.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.InquiryStatusClosed, all[0].Status)
}
