package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chimgan/sales/internal/images"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/preferences"
	"github.com/chimgan/sales/internal/services"
	"github.com/chimgan/sales/internal/utils"
)

// --- Mocks ---

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SignUp(ctx context.Context, email, password, displayName string) (*models.User, error) {
	return m.user(m.Called(ctx, email, password, displayName))
}
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return m.user(m.Called(ctx, email, password))
}
func (m *MockUserService) FindByID(ctx context.Context, userID utils.SixID) (*models.User, error) {
	return m.user(m.Called(ctx, userID))
}
func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID utils.SixID, upd services.ProfileUpdate) (*models.User, error) {
	return m.user(m.Called(ctx, userID, upd))
}
func (m *MockUserService) UpdatePreferences(ctx context.Context, userID utils.SixID, prefs preferences.Prefs) (*models.User, error) {
	return m.user(m.Called(ctx, userID, prefs))
}
func (m *MockUserService) AddInquiry(ctx context.Context, userID, inquiryID utils.SixID) error {
	return m.Called(ctx, userID, inquiryID).Error(0)
}
func (m *MockUserService) List(ctx context.Context, search string) ([]models.User, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *MockUserService) AdminUpdate(ctx context.Context, userID utils.SixID, upd services.AdminUserUpdate) (*models.User, error) {
	return m.user(m.Called(ctx, userID, upd))
}

// MockItemService implements services.IItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) item(args mock.Arguments) (*models.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) items(args mock.Arguments) ([]models.Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) CreateItem(ctx context.Context, creator *models.User, in services.ItemInput) (*models.Item, error) {
	return m.item(m.Called(ctx, creator, in))
}
func (m *MockItemService) CreateItemAsAdmin(ctx context.Context, in services.ItemInput) (*models.Item, error) {
	return m.item(m.Called(ctx, in))
}
func (m *MockItemService) FindByID(ctx context.Context, itemID utils.SixID) (*models.Item, error) {
	return m.item(m.Called(ctx, itemID))
}
func (m *MockItemService) ViewItem(ctx context.Context, itemID utils.SixID) (*models.Item, error) {
	return m.item(m.Called(ctx, itemID))
}
func (m *MockItemService) UpdateItem(ctx context.Context, itemID utils.SixID, updates map[string]interface{}) (*models.Item, error) {
	return m.item(m.Called(ctx, itemID, updates))
}
func (m *MockItemService) SetStatus(ctx context.Context, itemID utils.SixID, status models.ItemStatus) error {
	return m.Called(ctx, itemID, status).Error(0)
}
func (m *MockItemService) DeleteItem(ctx context.Context, itemID utils.SixID) error {
	return m.Called(ctx, itemID).Error(0)
}
func (m *MockItemService) ListAll(ctx context.Context) ([]models.Item, error) {
	return m.items(m.Called(ctx))
}
func (m *MockItemService) ListByUser(ctx context.Context, userID utils.SixID) ([]models.Item, error) {
	return m.items(m.Called(ctx, userID))
}
func (m *MockItemService) Quota(ctx context.Context, userID utils.SixID) (services.PostingQuota, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(services.PostingQuota), args.Error(1)
}

// MockInquiryService implements services.IInquiryService
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) inquiry(args mock.Arguments) (*models.Inquiry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) inquiries(args mock.Arguments) ([]models.Inquiry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) CreateInquiry(ctx context.Context, itemID utils.SixID, requester *models.User, in services.InquiryInput) (*models.Inquiry, error) {
	return m.inquiry(m.Called(ctx, itemID, requester, in))
}
func (m *MockInquiryService) FindByID(ctx context.Context, inquiryID utils.SixID) (*models.Inquiry, error) {
	return m.inquiry(m.Called(ctx, inquiryID))
}
func (m *MockInquiryService) FindForParticipant(ctx context.Context, inquiryID, userID utils.SixID) (*models.Inquiry, error) {
	return m.inquiry(m.Called(ctx, inquiryID, userID))
}
func (m *MockInquiryService) SendMessage(ctx context.Context, inquiryID, senderID utils.SixID, senderName, text string) (*models.Message, error) {
	args := m.Called(ctx, inquiryID, senderID, senderName, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}
func (m *MockInquiryService) MarkRead(ctx context.Context, inquiryID, userID utils.SixID) error {
	return m.Called(ctx, inquiryID, userID).Error(0)
}
func (m *MockInquiryService) Hide(ctx context.Context, inquiryID, userID utils.SixID) error {
	return m.Called(ctx, inquiryID, userID).Error(0)
}
func (m *MockInquiryService) ListMessages(ctx context.Context, inquiryID utils.SixID) ([]models.Message, error) {
	args := m.Called(ctx, inquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}
func (m *MockInquiryService) ListByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Inquiry, error) {
	return m.inquiries(m.Called(ctx, ownerID))
}
func (m *MockInquiryService) ListByRequester(ctx context.Context, userID utils.SixID) ([]models.Inquiry, error) {
	return m.inquiries(m.Called(ctx, userID))
}
func (m *MockInquiryService) ListForUser(ctx context.Context, userID utils.SixID) ([]models.Inquiry, error) {
	return m.inquiries(m.Called(ctx, userID))
}
func (m *MockInquiryService) ListAll(ctx context.Context) ([]models.Inquiry, error) {
	return m.inquiries(m.Called(ctx))
}
func (m *MockInquiryService) UpdateStatus(ctx context.Context, inquiryID utils.SixID, status models.InquiryStatus) error {
	return m.Called(ctx, inquiryID, status).Error(0)
}

// MockCategoryService implements services.ICategoryService
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}
func (m *MockCategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryService) RenameCategory(ctx context.Context, id utils.SixID, name string) (*models.Category, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryService) DeleteCategory(ctx context.Context, id utils.SixID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCategoryService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}
func (m *MockCategoryService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}
func (m *MockCategoryService) RenameTag(ctx context.Context, id utils.SixID, name string) (*models.Tag, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}
func (m *MockCategoryService) DeleteTag(ctx context.Context, id utils.SixID) error {
	return m.Called(ctx, id).Error(0)
}

// MockConfigService implements services.IConfigService
type MockConfigService struct {
	mock.Mock
}

func (m *MockConfigService) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockConfigService) SubscribeToChanges(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockConfigService) Get(key string) (interface{}, bool) {
	args := m.Called(key)
	return args.Get(0), args.Bool(1)
}
func (m *MockConfigService) GetInt(key string, defaultValue int) int {
	return m.Called(key, defaultValue).Int(0)
}
func (m *MockConfigService) GetString(key string, defaultValue string) string {
	return m.Called(key, defaultValue).String(0)
}
func (m *MockConfigService) GetAllPublic(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}
func (m *MockConfigService) SetConfigValue(ctx context.Context, key string, value interface{}, isPublic bool) error {
	return m.Called(ctx, key, value, isPublic).Error(0)
}
func (m *MockConfigService) GetAPIEndpointConfig(method, endpoint string) *models.APIEndpointConfig {
	args := m.Called(method, endpoint)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.APIEndpointConfig)
}

// MockAnalyticsService implements services.IAnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Summary(ctx context.Context) (*models.Analytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analytics), args.Error(1)
}

// MockEmailTemplateService implements services.IEmailTemplateService
type MockEmailTemplateService struct {
	mock.Mock
}

func (m *MockEmailTemplateService) GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error) {
	args := m.Called(ctx, templateID, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailTemplate), args.Error(1)
}
func (m *MockEmailTemplateService) Render(ctx context.Context, templateID, locale string, data map[string]string) (string, string, error) {
	args := m.Called(ctx, templateID, locale, data)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *MockEmailTemplateService) SaveTemplate(ctx context.Context, tmpl *models.EmailTemplate) error {
	return m.Called(ctx, tmpl).Error(0)
}
func (m *MockEmailTemplateService) DeleteTemplate(ctx context.Context, templateID, locale string) error {
	return m.Called(ctx, templateID, locale).Error(0)
}

// MockUploader implements handlers.ImageUploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadAll(ctx context.Context, files []images.File) ([]string, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
