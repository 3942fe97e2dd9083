package models

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// ViewedItem is an entry of the most-viewed ranking.
type ViewedItem struct {
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// Analytics is the admin dashboard summary.
type Analytics struct {
	TotalItems     int64           `json:"total_items"`
	OnSaleItems    int64           `json:"on_sale_items"`
	ReservedItems  int64           `json:"reserved_items"`
	SoldItems      int64           `json:"sold_items"`
	TotalInquiries int64           `json:"total_inquiries"`
	NewInquiries   int64           `json:"new_inquiries"`
	TotalViews     int64           `json:"total_views"`
	ByCategory     []CategoryCount `json:"by_category"`
	TopViewed      []ViewedItem    `json:"top_viewed"`
}
