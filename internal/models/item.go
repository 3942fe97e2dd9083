package models

import (
	"time"

	"github.com/chimgan/sales/internal/utils"
)

// ItemStatus is the lifecycle state of a listing.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusOnSale   ItemStatus = "on_sale"
	ItemStatusReserved ItemStatus = "reserved"
	ItemStatusSold     ItemStatus = "sold"
)

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusOnSale, ItemStatusReserved, ItemStatusSold:
		return true
	}
	return false
}

// Item is a listing posted for sale.
type Item struct {
	Base          `bson:",inline"`
	Title         string         `bson:"title" json:"title"`
	Description   string         `bson:"description" json:"description"`
	Price         float64        `bson:"price" json:"price"`
	DiscountPrice *float64       `bson:"discount_price,omitempty" json:"discount_price,omitempty"`
	Currency      utils.Currency `bson:"currency" json:"currency"`
	Images        []string       `bson:"images" json:"images"`
	Status        ItemStatus     `bson:"status" json:"status"`
	Category      string         `bson:"category" json:"category"` // category slug
	Tags          []string       `bson:"tags" json:"tags"`         // tag slugs
	Views         int64          `bson:"views" json:"views"`
	Location      string         `bson:"location,omitempty" json:"location,omitempty"`
	CreatedBy     *utils.SixID   `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatorName   string         `bson:"creator_name,omitempty" json:"creator_name,omitempty"`
	CreatedAt     time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `bson:"updated_at" json:"updated_at"`
}

// EffectivePrice is the discounted price when one is set.
func (i *Item) EffectivePrice() float64 {
	if i.DiscountPrice != nil {
		return *i.DiscountPrice
	}
	return i.Price
}

// ValidatePricing checks price >= 0 and, when set, 0 < discount < price.
func ValidatePricing(price float64, discount *float64) (priceOK, discountOK bool) {
	priceOK = price >= 0
	discountOK = discount == nil || (*discount > 0 && *discount < price)
	return priceOK, discountOK
}
