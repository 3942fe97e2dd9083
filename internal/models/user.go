package models

import (
	"time"

	"github.com/chimgan/sales/internal/utils"
)

// ViewMode is the catalog layout preference.
type ViewMode string

const (
	ViewModeGrid ViewMode = "grid"
	ViewModeList ViewMode = "list"
)

func (v ViewMode) IsValid() bool {
	return v == ViewModeGrid || v == ViewModeList
}

// ItemsPerPageOptions are the page sizes a user may pick.
var ItemsPerPageOptions = []int{10, 20, 50, 100}

// IsValidItemsPerPage reports whether n is one of ItemsPerPageOptions.
func IsValidItemsPerPage(n int) bool {
	for _, o := range ItemsPerPageOptions {
		if o == n {
			return true
		}
	}
	return false
}

// User is a marketplace account and its profile document.
type User struct {
	Base               `bson:",inline"`
	Email              string        `bson:"email" json:"email"`
	DisplayName        string        `bson:"display_name" json:"display_name"`
	PasswordHash       string        `bson:"password" json:"-"`
	PhotoURL           string        `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	PhoneNumber        string        `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	TelegramUsername   string        `bson:"telegram_username,omitempty" json:"telegram_username,omitempty"`
	WhatsappNumber     string        `bson:"whatsapp_number,omitempty" json:"whatsapp_number,omitempty"`
	Inquiries          []utils.SixID `bson:"inquiries" json:"inquiries"`
	Language           string        `bson:"language,omitempty" json:"language,omitempty"`
	BlockedFromPosting bool          `bson:"blocked_from_posting" json:"blocked_from_posting"`
	HomeViewMode       ViewMode      `bson:"home_view_mode,omitempty" json:"home_view_mode,omitempty"`
	HomeItemsPerPage   int           `bson:"home_items_per_page,omitempty" json:"home_items_per_page,omitempty"`
	HideWelcomeBanner  *bool         `bson:"hide_welcome_banner,omitempty" json:"hide_welcome_banner,omitempty"`
	CreatedAt          time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `bson:"updated_at" json:"updated_at"`
}

// PublicName is the name shown to other users.
func (u *User) PublicName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}
