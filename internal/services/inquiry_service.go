package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/conversations"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/realtime"
	"github.com/chimgan/sales/internal/utils"
)

// InquiryInput is the contact form a requester submits from the item page.
type InquiryInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Comment string `json:"comment"`
}

// NotificationQueue schedules the owner notification of a new inquiry.
type NotificationQueue interface {
	EnqueueInquiryNotification(ctx context.Context, inquiryID utils.SixID) error
}

type IInquiryService interface {
	CreateInquiry(ctx context.Context, itemID utils.SixID, requester *models.User, in InquiryInput) (*models.Inquiry, error)
	FindByID(ctx context.Context, inquiryID utils.SixID) (*models.Inquiry, error)
	FindForParticipant(ctx context.Context, inquiryID, userID utils.SixID) (*models.Inquiry, error)
	SendMessage(ctx context.Context, inquiryID, senderID utils.SixID, senderName, text string) (*models.Message, error)
	MarkRead(ctx context.Context, inquiryID, userID utils.SixID) error
	Hide(ctx context.Context, inquiryID, userID utils.SixID) error
	ListMessages(ctx context.Context, inquiryID utils.SixID) ([]models.Message, error)
	ListByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Inquiry, error)
	ListByRequester(ctx context.Context, userID utils.SixID) ([]models.Inquiry, error)
	ListForUser(ctx context.Context, userID utils.SixID) ([]models.Inquiry, error)
	ListAll(ctx context.Context) ([]models.Inquiry, error)
	UpdateStatus(ctx context.Context, inquiryID utils.SixID, status models.InquiryStatus) error
}

type inquiryService struct {
	db        *mongo.Database
	items     IItemService
	users     IUserService
	publisher realtime.Publisher
	queue     NotificationQueue
	now       func() time.Time
}

// NewInquiryService builds the inquiry store. queue may be nil, in which case no
// owner notification is scheduled.
func NewInquiryService(database *mongo.Database, items IItemService, users IUserService, publisher realtime.Publisher, queue NotificationQueue) IInquiryService {
	return &inquiryService{
		db:        database,
		items:     items,
		users:     users,
		publisher: publisher,
		queue:     queue,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *inquiryService) inquiries() *mongo.Collection {
	return s.db.Collection(db.InquiriesCollection)
}

func (s *inquiryService) messages() *mongo.Collection {
	return s.db.Collection(db.MessagesCollection)
}

// CreateInquiry opens a conversation about an item. requester is nil for guests.
func (s *inquiryService) CreateInquiry(ctx context.Context, itemID utils.SixID, requester *models.User, in InquiryInput) (*models.Inquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Name == "" || in.Comment == "" {
		return nil, apperr.ErrRequiredFields
	}
	if in.Email == "" && in.Phone == "" {
		return nil, apperr.ErrContactRequired
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var requesterID *utils.SixID
	senderID := models.GuestSenderID
	if requester != nil && !requester.ID.IsZero() {
		id := requester.ID
		requesterID = &id
		senderID = id
	}

	now := s.now()
	inq := &models.Inquiry{
		ItemID:       item.ID,
		ItemTitle:    item.Title,
		OwnerID:      item.CreatedBy,
		OwnerName:    item.CreatorName,
		UserID:       requesterID,
		UserName:     in.Name,
		UserEmail:    in.Email,
		UserPhone:    in.Phone,
		Comment:      in.Comment,
		Status:       models.InquiryStatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
		Participants: conversations.ParticipantsOf(item.CreatedBy, requesterID),
		HiddenFor:    []utils.SixID{},
		UnreadFor:    []utils.SixID{},
	}
	if item.CreatedBy != nil && !item.CreatedBy.IsZero() {
		inq.UnreadFor = append(inq.UnreadFor, *item.CreatedBy)
	}
	if err := db.InsertOne(ctx, s.inquiries(), inq); err != nil {
		return nil, apperr.Internal("failed to create inquiry", fmt.Errorf("insert inquiry for item %s: %w", itemID, err))
	}

	msg := &models.Message{
		InquiryID:  inq.ID,
		SenderID:   senderID,
		SenderName: in.Name,
		Text:       in.Comment,
		CreatedAt:  now,
	}
	if err := db.InsertOne(ctx, s.messages(), msg); err != nil {
		return nil, apperr.Internal("failed to create inquiry", fmt.Errorf("insert first message of %s: %w", inq.ID, err))
	}
	_, err = s.inquiries().UpdateOne(ctx, bson.M{"_id": inq.ID}, bson.M{"$set": bson.M{
		"last_message_at":   msg.CreatedAt,
		"last_message_text": msg.Text,
	}})
	if err != nil {
		return nil, apperr.Internal("failed to create inquiry", fmt.Errorf("set last message of %s: %w", inq.ID, err))
	}
	inq.LastMessageAt = msg.CreatedAt
	inq.LastMessageText = msg.Text

	if requesterID != nil && s.users != nil {
		if err := s.users.AddInquiry(ctx, *requesterID, inq.ID); err != nil {
			log.Printf("WARN: failed to record inquiry %s on user %s: %v", inq.ID, *requesterID, err)
		}
	}
	s.notify(ctx, inq)
	if s.queue != nil {
		if err := s.queue.EnqueueInquiryNotification(ctx, inq.ID); err != nil {
			log.Printf("WARN: failed to enqueue notification for inquiry %s: %v", inq.ID, err)
		}
	}
	return inq, nil
}

func (s *inquiryService) FindByID(ctx context.Context, inquiryID utils.SixID) (*models.Inquiry, error) {
	var inq models.Inquiry
	if err := s.inquiries().FindOne(ctx, bson.M{"_id": inquiryID}).Decode(&inq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrInquiryNotFound
		}
		return nil, apperr.Internal("failed to load inquiry", fmt.Errorf("find inquiry %s: %w", inquiryID, err))
	}
	return &inq, nil
}

// FindForParticipant loads the inquiry only if userID takes part in it.
func (s *inquiryService) FindForParticipant(ctx context.Context, inquiryID, userID utils.SixID) (*models.Inquiry, error) {
	inq, err := s.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	normalized := conversations.Normalize([]models.Inquiry{*inq})
	if userID.IsZero() || !utils.ContainsSixID(normalized[0].Participants, userID) {
		return nil, apperr.ErrNotParticipant
	}
	return &normalized[0], nil
}

// SendMessage appends a message and marks the conversation unread for every
// other participant.
func (s *inquiryService) SendMessage(ctx context.Context, inquiryID, senderID utils.SixID, senderName, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.ErrEmptyMessage
	}
	inq, err := s.FindForParticipant(ctx, inquiryID, senderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	msg := &models.Message{
		InquiryID:  inq.ID,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  now,
	}
	if err := db.InsertOne(ctx, s.messages(), msg); err != nil {
		return nil, apperr.Internal("failed to send message", fmt.Errorf("insert message into %s: %w", inq.ID, err))
	}

	update := bson.M{"$set": bson.M{
		"last_message_at":   now,
		"last_message_text": text,
		"updated_at":        now,
		"status":            models.InquiryStatusContacted,
	}}
	if others := otherParticipants(inq.Participants, senderID); len(others) > 0 {
		update["$addToSet"] = bson.M{"unread_for": bson.M{"$each": others}}
	}
	if _, err := s.inquiries().UpdateOne(ctx, bson.M{"_id": inq.ID}, update); err != nil {
		return nil, apperr.Internal("failed to send message", fmt.Errorf("update inquiry %s after message: %w", inq.ID, err))
	}
	s.notify(ctx, inq)
	return msg, nil
}

func otherParticipants(participants []utils.SixID, sender utils.SixID) []utils.SixID {
	others := []utils.SixID{}
	for _, p := range participants {
		if p.IsZero() || p == sender || utils.ContainsSixID(others, p) {
			continue
		}
		others = append(others, p)
	}
	return others
}

// MarkRead removes userID from the inquiry's unread set.
func (s *inquiryService) MarkRead(ctx context.Context, inquiryID, userID utils.SixID) error {
	return s.updateSet(ctx, inquiryID, userID, bson.M{"$pull": bson.M{"unread_for": userID}})
}

// Hide removes the inquiry from userID's list for good.
func (s *inquiryService) Hide(ctx context.Context, inquiryID, userID utils.SixID) error {
	return s.updateSet(ctx, inquiryID, userID, bson.M{"$addToSet": bson.M{"hidden_for": userID}})
}

func (s *inquiryService) updateSet(ctx context.Context, inquiryID, userID utils.SixID, update bson.M) error {
	inq, err := s.FindForParticipant(ctx, inquiryID, userID)
	if err != nil {
		return err
	}
	if _, err := s.inquiries().UpdateOne(ctx, bson.M{"_id": inquiryID}, update); err != nil {
		return apperr.Internal("failed to update inquiry", fmt.Errorf("update inquiry %s for %s: %w", inquiryID, userID, err))
	}
	s.notify(ctx, inq)
	return nil
}

// ListMessages returns a thread oldest first.
func (s *inquiryService) ListMessages(ctx context.Context, inquiryID utils.SixID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.messages().Find(ctx, bson.M{"inquiry_id": inquiryID}, opts)
	if err != nil {
		return nil, apperr.Internal("failed to load messages", err)
	}
	msgs := []models.Message{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, apperr.Internal("failed to load messages", err)
	}
	return msgs, nil
}

func (s *inquiryService) ListByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Inquiry, error) {
	return s.find(ctx, bson.M{"owner_id": ownerID})
}

func (s *inquiryService) ListByRequester(ctx context.Context, userID utils.SixID) ([]models.Inquiry, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

// ListForUser is the one-shot form of the conversation list a live engine keeps.
func (s *inquiryService) ListForUser(ctx context.Context, userID utils.SixID) ([]models.Inquiry, error) {
	owned, err := s.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	requested, err := s.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return conversations.Merge(conversations.Normalize(owned), conversations.Normalize(requested), userID), nil
}

// ListAll returns every inquiry, newest first.
func (s *inquiryService) ListAll(ctx context.Context) ([]models.Inquiry, error) {
	return s.find(ctx, bson.M{})
}

func (s *inquiryService) find(ctx context.Context, filter bson.M) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.inquiries().Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal("failed to load inquiries", err)
	}
	list := []models.Inquiry{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, apperr.Internal("failed to load inquiries", err)
	}
	return list, nil
}

func (s *inquiryService) UpdateStatus(ctx context.Context, inquiryID utils.SixID, status models.InquiryStatus) error {
	if !status.IsValid() {
		return apperr.ErrInvalidStatus
	}
	var inq models.Inquiry
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.inquiries().FindOneAndUpdate(ctx, bson.M{"_id": inquiryID},
		bson.M{"$set": bson.M{"status": status, "updated_at": s.now()}}, opts).Decode(&inq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.ErrInquiryNotFound
		}
		return apperr.Internal("failed to update inquiry", fmt.Errorf("set status of inquiry %s: %w", inquiryID, err))
	}
	s.notify(ctx, &inq)
	return nil
}

func (s *inquiryService) notify(ctx context.Context, inq *models.Inquiry) {
	if s.publisher == nil {
		return
	}
	ev := realtime.ChangeEvent{InquiryID: inq.ID, OwnerID: inq.OwnerID, UserID: inq.UserID}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("WARN: failed to publish change of inquiry %s: %v", inq.ID, err)
	}
}
