package models

import (
	"time"

	"github.com/chimgan/sales/internal/utils"
)

// InquiryStatus is the lifecycle state of a conversation.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) IsValid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusContacted, InquiryStatusClosed:
		return true
	}
	return false
}

// Inquiry is a buyer-seller conversation anchored to one item.
type Inquiry struct {
	Base            `bson:",inline"`
	ItemID          utils.SixID   `bson:"item_id" json:"item_id"`
	ItemTitle       string        `bson:"item_title,omitempty" json:"item_title,omitempty"`
	OwnerID         *utils.SixID  `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	OwnerName       string        `bson:"owner_name,omitempty" json:"owner_name,omitempty"`
	UserID          *utils.SixID  `bson:"user_id,omitempty" json:"user_id,omitempty"` // nil for guests
	UserName        string        `bson:"user_name" json:"user_name"`
	UserEmail       string        `bson:"user_email,omitempty" json:"user_email,omitempty"`
	UserPhone       string        `bson:"user_phone,omitempty" json:"user_phone,omitempty"`
	Comment         string        `bson:"comment" json:"comment"`
	Status          InquiryStatus `bson:"status" json:"status"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	LastMessageText string        `bson:"last_message_text,omitempty" json:"last_message_text,omitempty"`
	LastMessageAt   time.Time     `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	Participants    []utils.SixID `bson:"participants" json:"participants"`
	HiddenFor       []utils.SixID `bson:"hidden_for" json:"hidden_for"`
	UnreadFor       []utils.SixID `bson:"unread_for" json:"unread_for"`
}

// GuestSenderID marks messages sent without an account.
var GuestSenderID = utils.SixID{}

// Message is one entry of a conversation thread. Messages are append-only.
type Message struct {
	Base       `bson:",inline"`
	InquiryID  utils.SixID `bson:"inquiry_id" json:"inquiry_id"`
	SenderID   utils.SixID `bson:"sender_id" json:"sender_id"`
	SenderName string      `bson:"sender_name" json:"sender_name"`
	Text       string      `bson:"text" json:"text"`
	CreatedAt  time.Time   `bson:"created_at" json:"created_at"`
}

// IsGuest reports whether the message was sent by an unauthenticated requester.
func (m *Message) IsGuest() bool {
	return m.SenderID == GuestSenderID
}
