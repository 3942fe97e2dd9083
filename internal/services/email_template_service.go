package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/i18n"
	"github.com/chimgan/sales/internal/models"
)

// TemplateNewInquiry is sent to an item owner when someone asks about the item.
const TemplateNewInquiry = "new_inquiry"

// Built-in templates used when the collection has no entry for a template and locale.
var defaultEmailTemplates = map[string]map[i18n.Language]models.EmailTemplate{
	TemplateNewInquiry: {
		i18n.EN: {
			TemplateID: TemplateNewInquiry,
			Locale:     string(i18n.EN),
			Subject:    "New inquiry about \"{{.item_title}}\"",
			Body:       "{{.requester_name}} wrote about \"{{.item_title}}\":\n\n{{.comment}}\n\nContact: {{.contact}}\n\nReply in your messages on {{.app_name}}.",
		},
		i18n.RU: {
			TemplateID: TemplateNewInquiry,
			Locale:     string(i18n.RU),
			Subject:    "Новый запрос по объявлению \"{{.item_title}}\"",
			Body:       "{{.requester_name}} написал(а) по объявлению \"{{.item_title}}\":\n\n{{.comment}}\n\nКонтакт: {{.contact}}\n\nОтветить можно в разделе сообщений {{.app_name}}.",
		},
		i18n.TR: {
			TemplateID: TemplateNewInquiry,
			Locale:     string(i18n.TR),
			Subject:    "\"{{.item_title}}\" ilanı için yeni talep",
			Body:       "{{.requester_name}}, \"{{.item_title}}\" ilanı hakkında yazdı:\n\n{{.comment}}\n\nİletişim: {{.contact}}\n\n{{.app_name}} mesajlarınızdan yanıtlayabilirsiniz.",
		},
	},
}

type IEmailTemplateService interface {
	GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error)
	Render(ctx context.Context, templateID, locale string, data map[string]string) (subject, body string, err error)
	SaveTemplate(ctx context.Context, tmpl *models.EmailTemplate) error
	DeleteTemplate(ctx context.Context, templateID, locale string) error
}

type emailTemplateService struct {
	db *mongo.Database
}

func NewEmailTemplateService(database *mongo.Database) IEmailTemplateService {
	return &emailTemplateService{db: database}
}

func (s *emailTemplateService) coll() *mongo.Collection {
	return s.db.Collection(db.EmailTemplatesCollection)
}

// GetTemplate looks the template up in the collection, then among the built-in
// ones. Unknown locales fall back to English.
func (s *emailTemplateService) GetTemplate(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error) {
	lang, ok := i18n.Parse(locale)
	if !ok {
		lang = i18n.EN
	}

	var tmpl models.EmailTemplate
	err := s.coll().FindOne(ctx, bson.M{"template_id": templateID, "locale": string(lang)}).Decode(&tmpl)
	if err == nil {
		return &tmpl, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}

	if byLang, ok := defaultEmailTemplates[templateID]; ok {
		if t, ok := byLang[lang]; ok {
			return &t, nil
		}
		if t, ok := byLang[i18n.EN]; ok {
			return &t, nil
		}
	}
	return nil, apperr.NotFound(fmt.Sprintf("template not found: %s (locale: %s)", templateID, locale))
}

// Render fills the template's {{.key}} placeholders from data.
func (s *emailTemplateService) Render(ctx context.Context, templateID, locale string, data map[string]string) (string, string, error) {
	tmpl, err := s.GetTemplate(ctx, templateID, locale)
	if err != nil {
		return "", "", err
	}
	subject, err := execute(tmpl.TemplateID+".subject", tmpl.Subject, data)
	if err != nil {
		return "", "", err
	}
	body, err := execute(tmpl.TemplateID+".body", tmpl.Body, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func execute(name, text string, data map[string]string) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *emailTemplateService) SaveTemplate(ctx context.Context, tmpl *models.EmailTemplate) error {
	filter := bson.M{"template_id": tmpl.TemplateID, "locale": tmpl.Locale}
	update := bson.M{"$set": bson.M{
		"template_id": tmpl.TemplateID,
		"locale":      tmpl.Locale,
		"subject":     tmpl.Subject,
		"body":        tmpl.Body,
	}}
	if _, err := s.coll().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error saving template: %w", err)
	}
	return nil
}

func (s *emailTemplateService) DeleteTemplate(ctx context.Context, templateID, locale string) error {
	if _, err := s.coll().DeleteOne(ctx, bson.M{"template_id": templateID, "locale": locale}); err != nil {
		return fmt.Errorf("error deleting template: %w", err)
	}
	return nil
}
