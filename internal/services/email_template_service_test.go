package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimgan/sales/internal/models"
)

func TestEmailTemplateService_RenderDefaults(t *testing.T) {
	database := setupDB(t, "testdb_email_templates")
	svc := NewEmailTemplateService(database)
	ctx := context.Background()
	data := map[string]string{"item_title": "Bike", "requester_name": "Ivan", "comment": "Still there?", "contact": "+90 555", "app_name": "Sales"}

	subject, body, err := svc.Render(ctx, TemplateNewInquiry, "en-US", data)
	require.NoError(t, err)
	assert.Equal(t, "New inquiry about \"Bike\"", subject)
	assert.Contains(t, body, "Ivan wrote about \"Bike\"")
	assert.Contains(t, body, "+90 555")

	subject, _, err = svc.Render(ctx, TemplateNewInquiry, "ru", data)
	require.NoError(t, err)
	assert.Contains(t, subject, "Новый запрос")

	subject, _, err = svc.Render(ctx, TemplateNewInquiry, "de", data)
	require.NoError(t, err)
	assert.Equal(t, "New inquiry about \"Bike\"", subject)

	_, _, err = svc.Render(ctx, "missing", "en", data)
	assert.Error(t, err)
}

func TestEmailTemplateService_StoredTemplateWins(t *testing.T) {
	database := setupDB(t, "testdb_email_templates_stored")
	svc := NewEmailTemplateService(database)
	ctx := context.Background()

	require.NoError(t, svc.SaveTemplate(ctx, &models.EmailTemplate{TemplateID: TemplateNewInquiry, Locale: "tr", Subject: "Talep: {{.item_title}}", Body: "{{.comment}}"}))
	subject, body, err := svc.Render(ctx, TemplateNewInquiry, "tr", map[string]string{"item_title": "Bisiklet", "comment": "Merhaba"})
	require.NoError(t, err)
	assert.Equal(t, "Talep: Bisiklet", subject)
	assert.Equal(t, "Merhaba", body)

	require.NoError(t, svc.DeleteTemplate(ctx, TemplateNewInquiry, "tr"))
	subject, _, err = svc.Render(ctx, TemplateNewInquiry, "tr", map[string]string{"item_title": "Bisiklet"})
	require.NoError(t, err)
	assert.Contains(t, subject, "yeni talep")
}
