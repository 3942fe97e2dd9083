package tasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/tasks"
	"github.com/chimgan/sales/internal/utils"
)

// --- Mocks ---

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	args := m.Called(ctx, to, subject, rawMessage)
	return args.Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, templateID, locale string, data map[string]string) (string, string, error) {
	args := m.Called(ctx, templateID, locale, data)
	return args.String(0), args.String(1), args.Error(2)
}

type MockInquiries struct {
	mock.Mock
}

func (m *MockInquiries) FindByID(ctx context.Context, id utils.SixID) (*models.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) FindByID(ctx context.Context, id utils.SixID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "t1", Queue: "default", Type: task.Type()}, nil
}

func emailPayload(t *testing.T, task *asynq.Task) tasks.EmailTaskPayload {
	t.Helper()
	var p tasks.EmailTaskPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	return p
}

func notifyTask(t *testing.T, id utils.SixID) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(tasks.InquiryNotifyPayload{InquiryID: id.String()})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeInquiryNotify, data)
}

// --- Tests ---

func TestQueue_EnqueueInquiryNotification(t *testing.T) {
	enq := &fakeEnqueuer{}
	id := utils.NewSixID()
	require.NoError(t, tasks.NewQueue(enq).EnqueueInquiryNotification(context.Background(), id))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, tasks.TypeInquiryNotify, enq.tasks[0].Type())
	assert.JSONEq(t, `{"inquiry_id":"`+id.String()+`"}`, string(enq.tasks[0].Payload()))

	enq.err = errors.New("redis down")
	assert.ErrorContains(t, tasks.NewQueue(enq).EnqueueInquiryNotification(context.Background(), id), "redis down")
}

func TestHandleInquiryNotifyTask_Owner(t *testing.T) {
	cfg := &config.Config{DefaultLanguage: "ru", AppName: "Sales", AdminEmail: "admin@example.com"}
	inquiries, users, enq := new(MockInquiries), new(MockUsers), &fakeEnqueuer{}
	p := tasks.NewTaskProcessor(cfg, nil, nil, inquiries, users, tasks.NewQueue(enq))

	ownerID := utils.NewSixID()
	inq := &models.Inquiry{Base: models.NewBase(), OwnerID: &ownerID, ItemTitle: "Bike", UserName: "Ivan", UserPhone: "+90 555", Comment: "Still for sale?"}
	inquiries.On("FindByID", mock.Anything, inq.ID).Return(inq, nil)
	users.On("FindByID", mock.Anything, ownerID).Return(&models.User{Email: "olga@example.com", Language: "tr"}, nil)

	require.NoError(t, p.HandleInquiryNotifyTask(context.Background(), notifyTask(t, inq.ID)))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, tasks.TypeEmailDelivery, enq.tasks[0].Type())
	payload := emailPayload(t, enq.tasks[0])
	assert.Equal(t, "olga@example.com", payload.To)
	assert.Equal(t, "tr", payload.Locale)
	assert.Equal(t, "new_inquiry", payload.TemplateID)
	assert.Equal(t, "+90 555", payload.Data["contact"])
	assert.Equal(t, "Bike", payload.Data["item_title"])
	users.AssertExpectations(t)
}

func TestHandleInquiryNotifyTask_AdminItem(t *testing.T) {
	cfg := &config.Config{DefaultLanguage: "ru", AdminEmail: "admin@example.com"}
	inquiries, enq := new(MockInquiries), &fakeEnqueuer{}
	p := tasks.NewTaskProcessor(cfg, nil, nil, inquiries, new(MockUsers), tasks.NewQueue(enq))

	inq := &models.Inquiry{Base: models.NewBase(), ItemTitle: "Sofa", UserName: "G", UserEmail: "g@example.com", UserPhone: "1"}
	inquiries.On("FindByID", mock.Anything, inq.ID).Return(inq, nil)

	require.NoError(t, p.HandleInquiryNotifyTask(context.Background(), notifyTask(t, inq.ID)))
	payload := emailPayload(t, enq.tasks[0])
	assert.Equal(t, "admin@example.com", payload.To)
	assert.Equal(t, "ru", payload.Locale)
	assert.Equal(t, "g@example.com, 1", payload.Data["contact"])
}

func TestHandleInquiryNotifyTask_SkipsRetries(t *testing.T) {
	cfg := &config.Config{}
	inquiries, enq := new(MockInquiries), &fakeEnqueuer{}
	p := tasks.NewTaskProcessor(cfg, nil, nil, inquiries, new(MockUsers), tasks.NewQueue(enq))

	err := p.HandleInquiryNotifyTask(context.Background(), asynq.NewTask(tasks.TypeInquiryNotify, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	missing := utils.NewSixID()
	inquiries.On("FindByID", mock.Anything, missing).Return(nil, apperr.ErrInquiryNotFound)
	err = p.HandleInquiryNotifyTask(context.Background(), notifyTask(t, missing))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	// no owner and no admin address configured: nothing to do
	orphan := &models.Inquiry{Base: models.NewBase()}
	inquiries.On("FindByID", mock.Anything, orphan.ID).Return(orphan, nil)
	assert.NoError(t, p.HandleInquiryNotifyTask(context.Background(), notifyTask(t, orphan.ID)))
	assert.Empty(t, enq.tasks)

	failing := utils.NewSixID()
	inquiries.On("FindByID", mock.Anything, failing).Return(nil, apperr.Internal("failed to load inquiry", errors.New("timeout")))
	err = p.HandleInquiryNotifyTask(context.Background(), notifyTask(t, failing))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleEmailDeliveryTask_Success(t *testing.T) {
	sender, renderer := new(MockEmailSender), new(MockRenderer)
	cfg := &config.Config{SmtpFromAddress: "noreply@example.com", DefaultLanguage: "ru"}
	p := tasks.NewTaskProcessor(cfg, sender, renderer, nil, nil, nil)

	data := map[string]string{"item_title": "Bike"}
	payloadBytes, _ := json.Marshal(tasks.EmailTaskPayload{To: "olga@example.com", TemplateID: "new_inquiry", Data: data})
	task := asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes)

	renderer.On("Render", mock.Anything, "new_inquiry", "ru", data).Return("New inquiry about Bike", "Hello", nil)
	sender.On("Send", mock.Anything, []string{"olga@example.com"}, "New inquiry about Bike",
		mock.MatchedBy(func(raw []byte) bool {
			msg := string(raw)
			return strings.Contains(msg, "To: olga@example.com\r\n") &&
				strings.Contains(msg, "From: noreply@example.com\r\n") &&
				strings.Contains(msg, "Subject: New inquiry about Bike\r\n") &&
				strings.HasSuffix(msg, "\r\n\r\nHello\r\n")
		}),
	).Return(nil)

	assert.NoError(t, p.HandleEmailDeliveryTask(context.Background(), task))
	renderer.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestHandleEmailDeliveryTask_TemplateNotFound(t *testing.T) {
	sender, renderer := new(MockEmailSender), new(MockRenderer)
	p := tasks.NewTaskProcessor(&config.Config{}, sender, renderer, nil, nil, nil)

	payloadBytes, _ := json.Marshal(tasks.EmailTaskPayload{To: "a@example.com", TemplateID: "nonexistent_template", Locale: "en"})
	renderer.On("Render", mock.Anything, "nonexistent_template", "en", mock.Anything).Return("", "", assert.AnError)

	err := p.HandleEmailDeliveryTask(context.Background(), asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes))
	assert.True(t, errors.Is(err, asynq.SkipRetry), "Error should be SkipRetry for template not found")
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEmailDeliveryTask_SendFailureRetries(t *testing.T) {
	sender, renderer := new(MockEmailSender), new(MockRenderer)
	p := tasks.NewTaskProcessor(&config.Config{DefaultLanguage: "en"}, sender, renderer, nil, nil, nil)

	payloadBytes, _ := json.Marshal(tasks.EmailTaskPayload{To: "a@example.com", TemplateID: "new_inquiry"})
	renderer.On("Render", mock.Anything, "new_inquiry", "en", mock.Anything).Return("s", "b", nil)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp error"))

	err := p.HandleEmailDeliveryTask(context.Background(), asynq.NewTask(tasks.TypeEmailDelivery, payloadBytes))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
