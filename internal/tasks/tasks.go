package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/email"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/services"
	"github.com/chimgan/sales/internal/utils"
)

// Task types.
const (
	TypeInquiryNotify = "inquiry:notify"
	TypeEmailDelivery = "email:deliver"
)

const (
	queueCritical = "critical"
	queueDefault  = "default"
)

// --- Enqueuing ---

// Enqueuer is the part of *asynq.Client the queue uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue schedules background work. It satisfies services.NotificationQueue.
type Queue struct {
	client Enqueuer
}

func NewQueue(client Enqueuer) *Queue {
	return &Queue{client: client}
}

type InquiryNotifyPayload struct {
	InquiryID string `json:"inquiry_id"`
}

type EmailTaskPayload struct {
	To         string            `json:"to"`
	TemplateID string            `json:"template_id"`
	Locale     string            `json:"locale,omitempty"`
	Data       map[string]string `json:"data"`
}

func (q *Queue) EnqueueInquiryNotification(ctx context.Context, inquiryID utils.SixID) error {
	return q.enqueue(ctx, TypeInquiryNotify, InquiryNotifyPayload{InquiryID: inquiryID.String()},
		asynq.Queue(queueCritical), asynq.MaxRetry(5))
}

func (q *Queue) EnqueueEmail(ctx context.Context, payload EmailTaskPayload) error {
	return q.enqueue(ctx, TypeEmailDelivery, payload, asynq.Queue(queueDefault), asynq.MaxRetry(10))
}

func (q *Queue) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	info, err := q.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	log.Printf("enqueued task %s id=%s queue=%s", taskType, info.ID, info.Queue)
	return nil
}

// --- Processing ---

// InquiryFinder loads inquiries.
type InquiryFinder interface {
	FindByID(ctx context.Context, inquiryID utils.SixID) (*models.Inquiry, error)
}

// UserFinder loads accounts.
type UserFinder interface {
	FindByID(ctx context.Context, userID utils.SixID) (*models.User, error)
}

// TemplateRenderer renders stored e-mail templates.
type TemplateRenderer interface {
	Render(ctx context.Context, templateID, locale string, data map[string]string) (subject, body string, err error)
}

// TaskProcessor holds what the task handlers need.
type TaskProcessor struct {
	cfg       *config.Config
	sender    email.Sender
	templates TemplateRenderer
	inquiries InquiryFinder
	users     UserFinder
	queue     *Queue
	now       func() time.Time
}

func NewTaskProcessor(cfg *config.Config, sender email.Sender, templates TemplateRenderer, inquiries InquiryFinder, users UserFinder, queue *Queue) *TaskProcessor {
	return &TaskProcessor{
		cfg:       cfg,
		sender:    sender,
		templates: templates,
		inquiries: inquiries,
		users:     users,
		queue:     queue,
		now:       time.Now,
	}
}

// NewServer configures the worker. Start it with Start(NewMux(p)); Shutdown stops it.
func NewServer(opt asynq.RedisClientOpt) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			queueCritical: 6,
			queueDefault:  3,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("[asynq error] task=%s payload=%s: %v", task.Type(), task.Payload(), err)
		}),
	})
}

// NewMux routes task types to the processor's handlers.
func NewMux(p *TaskProcessor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInquiryNotify, p.HandleInquiryNotifyTask)
	mux.HandleFunc(TypeEmailDelivery, p.HandleEmailDeliveryTask)
	return mux
}

// HandleInquiryNotifyTask works out who owns the inquired item and schedules
// the e-mail to them. Inquiries about admin-posted items go to the admin address.
func (p *TaskProcessor) HandleInquiryNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload InquiryNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal inquiry payload: %v: %w", err, asynq.SkipRetry)
	}
	inquiryID, err := utils.ParseSixID(payload.InquiryID)
	if err != nil {
		return fmt.Errorf("invalid inquiry id %q: %w", payload.InquiryID, asynq.SkipRetry)
	}

	inq, err := p.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return fmt.Errorf("inquiry %s not found: %w", inquiryID, asynq.SkipRetry)
		}
		return err
	}

	to, locale := p.cfg.AdminEmail, p.cfg.DefaultLanguage
	if inq.OwnerID != nil && !inq.OwnerID.IsZero() {
		owner, err := p.users.FindByID(ctx, *inq.OwnerID)
		if err != nil {
			if apperr.CodeOf(err) == apperr.CodeNotFound {
				return fmt.Errorf("owner %s of inquiry %s not found: %w", *inq.OwnerID, inquiryID, asynq.SkipRetry)
			}
			return err
		}
		to = owner.Email
		if owner.Language != "" {
			locale = owner.Language
		}
	}
	if to == "" {
		log.Printf("inquiry %s has no one to notify, skipping", inquiryID)
		return nil
	}

	contact := make([]string, 0, 2)
	for _, c := range []string{inq.UserEmail, inq.UserPhone} {
		if c != "" {
			contact = append(contact, c)
		}
	}
	return p.queue.EnqueueEmail(ctx, EmailTaskPayload{
		To:         to,
		TemplateID: services.TemplateNewInquiry,
		Locale:     locale,
		Data: map[string]string{
			"item_title":     inq.ItemTitle,
			"requester_name": inq.UserName,
			"comment":        inq.Comment,
			"contact":        strings.Join(contact, ", "),
			"app_name":       p.cfg.AppName,
		},
	})
}

// HandleEmailDeliveryTask renders a template and hands the message to the sender chain.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" {
		return fmt.Errorf("email task without recipient: %w", asynq.SkipRetry)
	}
	locale := payload.Locale
	if locale == "" {
		locale = p.cfg.DefaultLanguage
	}

	subject, body, err := p.templates.Render(ctx, payload.TemplateID, locale, payload.Data)
	if err != nil {
		log.Printf("error rendering email template %s/%s: %v", payload.TemplateID, locale, err)
		return fmt.Errorf("email template %s unavailable: %v: %w", payload.TemplateID, err, asynq.SkipRetry)
	}

	to := []string{payload.To}
	raw := email.BuildMessage(p.cfg.SmtpFromAddress, to, subject, body, p.now())
	if err := p.sender.Send(ctx, to, subject, raw); err != nil {
		return err
	}
	log.Printf("email task processed: to=%s template=%s", payload.To, payload.TemplateID)
	return nil
}
