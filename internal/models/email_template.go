package models

// EmailTemplate is a localized subject/body pair stored in the DB.
// Placeholders use {{.key}} syntax.
type EmailTemplate struct {
	Base       `bson:",inline"`
	TemplateID string `bson:"template_id" json:"template_id"` // e.g. "new_inquiry"
	Locale     string `bson:"locale" json:"locale"`           // "ru", "en", "tr"
	Subject    string `bson:"subject" json:"subject"`
	Body       string `bson:"body" json:"body"`
}
