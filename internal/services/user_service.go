package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/auth"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/preferences"
	"github.com/chimgan/sales/internal/utils"
)

// ProfileUpdate holds the profile fields a user may edit. Nil fields are left as they are.
type ProfileUpdate struct {
	DisplayName      *string `json:"display_name,omitempty"`
	PhotoURL         *string `json:"photo_url,omitempty"`
	PhoneNumber      *string `json:"phone_number,omitempty"`
	TelegramUsername *string `json:"telegram_username,omitempty"`
	WhatsappNumber   *string `json:"whatsapp_number,omitempty"`
}

// AdminUserUpdate holds the fields an administrator may edit on any account.
type AdminUserUpdate struct {
	DisplayName        *string `json:"display_name,omitempty"`
	PhoneNumber        *string `json:"phone_number,omitempty"`
	Language           *string `json:"language,omitempty"`
	BlockedFromPosting *bool   `json:"blocked_from_posting,omitempty"`
}

type IUserService interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, userID utils.SixID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID utils.SixID, upd ProfileUpdate) (*models.User, error)
	UpdatePreferences(ctx context.Context, userID utils.SixID, prefs preferences.Prefs) (*models.User, error)
	AddInquiry(ctx context.Context, userID, inquiryID utils.SixID) error
	List(ctx context.Context, search string) ([]models.User, error)
	AdminUpdate(ctx context.Context, userID utils.SixID, upd AdminUserUpdate) (*models.User, error)
}

type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

func NewUserService(database *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: database, cfg: cfg}
}

func (s *userService) coll() *mongo.Collection {
	return s.db.Collection(db.UsersCollection)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers an email/password account.
func (s *userService) SignUp(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apperr.ErrInvalidEmail
	}
	if !auth.StrongEnough(password, s.cfg.MinPasswordLen) {
		return nil, apperr.ErrWeakPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to create account", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Inquiries:    []utils.SixID{},
		Language:     s.cfg.DefaultLanguage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.InsertOne(ctx, s.coll(), user); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, apperr.Internal("failed to create account", fmt.Errorf("insert user %s: %w", email, err))
	}
	log.Printf("user %s signed up", user.ID)
	return user, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong passwords
// yield the same error.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) FindByID(ctx context.Context, userID utils.SixID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": userID})
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (s *userService) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.coll().FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID utils.SixID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	setTrimmed(set, "display_name", upd.DisplayName)
	setTrimmed(set, "photo_url", upd.PhotoURL)
	setTrimmed(set, "phone_number", upd.PhoneNumber)
	setTrimmed(set, "telegram_username", upd.TelegramUsername)
	setTrimmed(set, "whatsapp_number", upd.WhatsappNumber)
	if tg, ok := set["telegram_username"].(string); ok {
		set["telegram_username"] = strings.TrimPrefix(tg, "@")
	}
	return s.update(ctx, userID, set)
}

// UpdatePreferences mirrors the visitor's display settings onto the profile.
func (s *userService) UpdatePreferences(ctx context.Context, userID utils.SixID, prefs preferences.Prefs) (*models.User, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	set := bson.M{}
	if prefs.Language != "" {
		set["language"] = prefs.Language
	}
	if prefs.HomeViewMode != "" {
		set["home_view_mode"] = prefs.HomeViewMode
	}
	if prefs.HomeItemsPerPage != 0 {
		set["home_items_per_page"] = prefs.HomeItemsPerPage
	}
	if prefs.HideWelcomeBanner != nil {
		set["hide_welcome_banner"] = *prefs.HideWelcomeBanner
	}
	return s.update(ctx, userID, set)
}

func (s *userService) AddInquiry(ctx context.Context, userID, inquiryID utils.SixID) error {
	res, err := s.coll().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{"inquiries": inquiryID}})
	if err != nil {
		return apperr.Internal("failed to update user", fmt.Errorf("add inquiry %s to user %s: %w", inquiryID, userID, err))
	}
	if res.MatchedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// List returns accounts newest first, optionally matching search against
// display name or email.
func (s *userService) List(ctx context.Context, search string) ([]models.User, error) {
	filter := bson.M{}
	if search = strings.TrimSpace(search); search != "" {
		pattern := primitiveRegex(search)
		filter["$or"] = bson.A{
			bson.M{"display_name": pattern},
			bson.M{"email": pattern},
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal("failed to load users", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Internal("failed to load users", err)
	}
	return users, nil
}

// AdminUpdate edits an account from the admin panel, including the posting block.
func (s *userService) AdminUpdate(ctx context.Context, userID utils.SixID, upd AdminUserUpdate) (*models.User, error) {
	set := bson.M{}
	setTrimmed(set, "display_name", upd.DisplayName)
	setTrimmed(set, "phone_number", upd.PhoneNumber)
	if upd.Language != nil {
		if err := (preferences.Prefs{Language: *upd.Language}).Validate(); err != nil {
			return nil, err
		}
		set["language"] = *upd.Language
	}
	if upd.BlockedFromPosting != nil {
		set["blocked_from_posting"] = *upd.BlockedFromPosting
	}
	user, err := s.update(ctx, userID, set)
	if err == nil && upd.BlockedFromPosting != nil {
		log.Printf("user %s blocked_from_posting=%t", userID, *upd.BlockedFromPosting)
	}
	return user, err
}

func (s *userService) update(ctx context.Context, userID utils.SixID, set bson.M) (*models.User, error) {
	if len(set) == 0 {
		return nil, apperr.InvalidArg("no valid fields provided for update")
	}
	set["updated_at"] = time.Now().UTC()

	var user models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.coll().FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal("failed to update user", fmt.Errorf("update user %s: %w", userID, err))
	}
	return &user, nil
}

func setTrimmed(set bson.M, key string, value *string) {
	if value != nil {
		set[key] = strings.TrimSpace(*value)
	}
}

func primitiveRegex(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}
