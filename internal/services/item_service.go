package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/catalog"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/utils"
)

// ItemInput is the data of a new item. Either District (a known district of the
// region) or a free-text Location may be given.
type ItemInput struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	DiscountPrice *float64          `json:"discount_price,omitempty"`
	Currency      utils.Currency    `json:"currency"`
	Images        []string          `json:"images"`
	Category      string            `json:"category"`
	Tags          []string          `json:"tags"`
	District      string            `json:"district"`
	Location      string            `json:"location"`
	Status        models.ItemStatus `json:"status"`
}

// PostingQuota is a user's standing against the daily ad limit. Limit 0 means unlimited.
type PostingQuota struct {
	Today int64 `json:"today"`
	Limit int   `json:"limit"`
}

// Reached reports whether no more items may be posted today.
func (q PostingQuota) Reached() bool {
	return q.Limit > 0 && q.Today >= int64(q.Limit)
}

type IItemService interface {
	CreateItem(ctx context.Context, creator *models.User, in ItemInput) (*models.Item, error)
	CreateItemAsAdmin(ctx context.Context, in ItemInput) (*models.Item, error)
	FindByID(ctx context.Context, itemID utils.SixID) (*models.Item, error)
	ViewItem(ctx context.Context, itemID utils.SixID) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID utils.SixID, updates map[string]interface{}) (*models.Item, error)
	SetStatus(ctx context.Context, itemID utils.SixID, status models.ItemStatus) error
	DeleteItem(ctx context.Context, itemID utils.SixID) error
	ListAll(ctx context.Context) ([]models.Item, error)
	ListByUser(ctx context.Context, userID utils.SixID) ([]models.Item, error)
	Quota(ctx context.Context, userID utils.SixID) (PostingQuota, error)
}

type itemService struct {
	db       *mongo.Database
	cfg      *config.Config
	settings IConfigService
	now      func() time.Time
}

func NewItemService(database *mongo.Database, cfg *config.Config, settings IConfigService) IItemService {
	return &itemService{db: database, cfg: cfg, settings: settings, now: func() time.Time { return time.Now().UTC() }}
}

func (s *itemService) coll() *mongo.Collection {
	return s.db.Collection(db.ItemsCollection)
}

// CreateItem posts an item on behalf of a user. Blocked users and users over
// the daily limit are refused before anything is written.
func (s *itemService) CreateItem(ctx context.Context, creator *models.User, in ItemInput) (*models.Item, error) {
	if creator == nil {
		return nil, apperr.Unauthorized("sign in required")
	}
	if creator.BlockedFromPosting {
		return nil, apperr.ErrBlockedFromPosting
	}
	if err := s.validate(&in, true); err != nil {
		return nil, err
	}

	quota, err := s.Quota(ctx, creator.ID)
	if err != nil {
		return nil, err
	}
	if quota.Reached() {
		return nil, apperr.ErrDailyLimitReached
	}

	item := s.newItem(in)
	item.Status = models.ItemStatusOnSale
	creatorID := creator.ID
	item.CreatedBy = &creatorID
	item.CreatorName = creator.PublicName()

	if err := db.InsertOne(ctx, s.coll(), item); err != nil {
		return nil, apperr.Internal("failed to save item", fmt.Errorf("insert item for user %s: %w", creator.ID, err))
	}
	return item, nil
}

// CreateItemAsAdmin skips the posting rules and keeps the requested status.
func (s *itemService) CreateItemAsAdmin(ctx context.Context, in ItemInput) (*models.Item, error) {
	if err := s.validate(&in, false); err != nil {
		return nil, err
	}
	item := s.newItem(in)
	if err := db.InsertOne(ctx, s.coll(), item); err != nil {
		return nil, apperr.Internal("failed to save item", err)
	}
	return item, nil
}

func (s *itemService) newItem(in ItemInput) *models.Item {
	now := s.now()
	status := in.Status
	if status == "" {
		status = models.ItemStatusOnSale
	}
	return &models.Item{
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Currency:      in.Currency,
		Images:        nonNilStrings(in.Images),
		Status:        status,
		Category:      in.Category,
		Tags:          nonNilStrings(in.Tags),
		Views:         0,
		Location:      in.Location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// validate normalizes in and checks it. requireLocation applies the rules of the
// user posting form.
func (s *itemService) validate(in *ItemInput, requireLocation bool) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" || in.Category == "" {
		return apperr.ErrRequiredFields
	}

	if in.District != "" {
		if !catalog.IsDistrict(in.District) {
			return apperr.InvalidArg("unknown district")
		}
		in.Location = catalog.FormatLocation(s.cfg.RegionName, in.District)
	} else if requireLocation && in.Location == "" {
		return apperr.ErrRequiredFields
	}

	priceOK, discountOK := models.ValidatePricing(in.Price, in.DiscountPrice)
	if !priceOK {
		return apperr.ErrInvalidPrice
	}
	if !discountOK {
		return apperr.ErrInvalidDiscount
	}

	if in.Currency == "" {
		in.Currency = utils.Currency(s.cfg.DefaultCurrency)
	}
	if !in.Currency.IsValid() {
		return apperr.ErrInvalidCurrency
	}
	if in.Status != "" && !in.Status.IsValid() {
		return apperr.ErrInvalidStatus
	}
	return nil
}

func (s *itemService) FindByID(ctx context.Context, itemID utils.SixID) (*models.Item, error) {
	var item models.Item
	if err := s.coll().FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrItemNotFound
		}
		return nil, apperr.Internal("failed to load item", fmt.Errorf("find item %s: %w", itemID, err))
	}
	return &item, nil
}

// ViewItem returns the item after counting one more view.
func (s *itemService) ViewItem(ctx context.Context, itemID utils.SixID) (*models.Item, error) {
	var item models.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll().FindOneAndUpdate(ctx, bson.M{"_id": itemID}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrItemNotFound
		}
		return nil, apperr.Internal("failed to load item", fmt.Errorf("view item %s: %w", itemID, err))
	}
	return &item, nil
}

// UpdateItem applies an admin edit. updates holds BSON field names; only the
// listed fields may change. A nil discount_price removes the discount.
func (s *itemService) UpdateItem(ctx context.Context, itemID utils.SixID, updates map[string]interface{}) (*models.Item, error) {
	set := bson.M{}
	unset := bson.M{}
	for key, value := range updates {
		switch key {
		case "title", "description", "category", "location":
			str, ok := value.(string)
			if !ok {
				return nil, apperr.InvalidArg(fmt.Sprintf("%s must be a string", key))
			}
			str = strings.TrimSpace(str)
			if str == "" && (key == "title" || key == "category") {
				return nil, apperr.ErrRequiredFields
			}
			set[key] = str
		case "price":
			price, ok := toFloat(value)
			if !ok {
				return nil, apperr.ErrInvalidPrice
			}
			set[key] = price
		case "discount_price":
			if value == nil {
				unset[key] = ""
				continue
			}
			discount, ok := toFloat(value)
			if !ok {
				return nil, apperr.ErrInvalidDiscount
			}
			set[key] = discount
		case "currency":
			str, _ := value.(string)
			if !utils.Currency(str).IsValid() {
				return nil, apperr.ErrInvalidCurrency
			}
			set[key] = str
		case "status":
			str, _ := value.(string)
			if !models.ItemStatus(str).IsValid() {
				return nil, apperr.ErrInvalidStatus
			}
			set[key] = str
		case "images", "tags":
			list, ok := toStrings(value)
			if !ok {
				return nil, apperr.InvalidArg(fmt.Sprintf("%s must be a list of strings", key))
			}
			set[key] = list
		default:
			return nil, apperr.InvalidArg(fmt.Sprintf("field '%s' cannot be updated", key))
		}
	}
	if len(set) == 0 && len(unset) == 0 {
		return nil, apperr.InvalidArg("no valid fields provided for update")
	}

	_, priceChanged := set["price"]
	_, discountChanged := set["discount_price"]
	if priceChanged || discountChanged {
		current, err := s.FindByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		price := current.Price
		if p, ok := set["price"].(float64); ok {
			price = p
		}
		discount := current.DiscountPrice
		if _, removed := unset["discount_price"]; removed {
			discount = nil
		}
		if d, ok := set["discount_price"].(float64); ok {
			discount = &d
		}
		priceOK, discountOK := models.ValidatePricing(price, discount)
		if !priceOK {
			return nil, apperr.ErrInvalidPrice
		}
		if !discountOK {
			return nil, apperr.ErrInvalidDiscount
		}
	}

	set["updated_at"] = s.now()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var item models.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.coll().FindOneAndUpdate(ctx, bson.M{"_id": itemID}, update, opts).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrItemNotFound
		}
		return nil, apperr.Internal("failed to update item", fmt.Errorf("update item %s: %w", itemID, err))
	}
	return &item, nil
}

func (s *itemService) SetStatus(ctx context.Context, itemID utils.SixID, status models.ItemStatus) error {
	if !status.IsValid() {
		return apperr.ErrInvalidStatus
	}
	res, err := s.coll().UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{"$set": bson.M{"status": status, "updated_at": s.now()}})
	if err != nil {
		return apperr.Internal("failed to update item", fmt.Errorf("set status of item %s: %w", itemID, err))
	}
	if res.MatchedCount == 0 {
		return apperr.ErrItemNotFound
	}
	return nil
}

// DeleteItem removes the item for good. Only admins reach this.
func (s *itemService) DeleteItem(ctx context.Context, itemID utils.SixID) error {
	res, err := s.coll().DeleteOne(ctx, bson.M{"_id": itemID})
	if err != nil {
		return apperr.Internal("failed to delete item", fmt.Errorf("delete item %s: %w", itemID, err))
	}
	if res.DeletedCount == 0 {
		return apperr.ErrItemNotFound
	}
	return nil
}

// ListAll returns every item, newest first.
func (s *itemService) ListAll(ctx context.Context) ([]models.Item, error) {
	return s.find(ctx, bson.M{})
}

// ListByUser returns the items a user posted, newest first.
func (s *itemService) ListByUser(ctx context.Context, userID utils.SixID) ([]models.Item, error) {
	return s.find(ctx, bson.M{"created_by": userID})
}

func (s *itemService) find(ctx context.Context, filter bson.M) ([]models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal("failed to load items", err)
	}
	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Internal("failed to load items", err)
	}
	return items, nil
}

// Quota counts the items userID created since the start of the current UTC day.
func (s *itemService) Quota(ctx context.Context, userID utils.SixID) (PostingQuota, error) {
	limit := s.cfg.DailyUserAdLimit
	if s.settings != nil {
		limit = s.settings.GetInt(models.SettingDailyUserAdLimit, limit)
	}
	dayStart := s.now().Truncate(24 * time.Hour)
	n, err := s.coll().CountDocuments(ctx, bson.M{"created_by": userID, "created_at": bson.M{"$gte": dayStart}})
	if err != nil {
		return PostingQuota{}, apperr.Internal("failed to count items", fmt.Errorf("count items of %s: %w", userID, err))
	}
	return PostingQuota{Today: n, Limit: limit}, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toStrings(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
