package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"performance-review-api/config"
	"performance-review-api/models"
)

// Mailer is the outbound email collaborator. The production implementation
// dials SMTP; tests record messages instead.
type Mailer interface {
	Send(to []string, subject, html string) error
}

// SMTPMailer sends through the configured SMTP relay.
type SMTPMailer struct{}

func (SMTPMailer) Send(to []string, subject, html string) error {
	return config.SendMail(to, subject, html)
}

// Email template kinds. Kinds map one-to-one onto inner templates below.
const (
	TemplateWelcome             = "welcome"
	TemplateSelfReviewPending   = "selfreview_pending"
	TemplateSelfReviewRejected  = "selfreview_rejected"
	TemplateSelfReviewPublished = "selfreview_published"
	TemplateReviewDraft         = "review_draft"
	TemplateReviewPending       = "review_pending"
	TemplateReviewRejected      = "review_rejected"
	TemplateRequestFeedback     = "request_feedback"
)

// MailContext is what every template renders against. Records are optional;
// SupportEmail and Signature are always populated.
type MailContext struct {
	User         *models.User
	SelfReview   *models.SelfReview
	Review       *models.Review
	Reviews      []models.Review
	Interval     *models.Interval
	Deadline     time.Time
	SupportEmail string
	Signature    string
}

var baseTemplate = template.Must(template.New("base").Parse(`<html>
<body>
<p>Hi{{if .User}}, {{.User.FirstName}}{{end}}!</p>
{{block "inner" .}}{{end}}
<p>Questions? Write to <a href="mailto:{{.SupportEmail}}">{{.SupportEmail}}</a>.</p>
{{if .Signature}}<p>{{.Signature}}</p>{{end}}
</body>
</html>`))

var innerTemplates = map[string]string{
	TemplateWelcome: `{{define "inner"}}
<p>Performance review season is starting. Please write your self-review
{{- if .Deadline.IsZero}}.{{else}} before {{.Deadline.Format "02.01.2006"}}.{{end}}</p>
{{end}}`,
	TemplateSelfReviewPending: `{{define "inner"}}
<p>{{.SelfReview.User.DisplayName}} wrote a self-review for {{.SelfReview.Interval.Name}} and is waiting for your decision.</p>
{{end}}`,
	TemplateSelfReviewRejected: `{{define "inner"}}
<p>Your self-review for {{.SelfReview.Interval.Name}} was sent back for another pass.</p>
{{if .SelfReview.Comment}}<blockquote>{{.SelfReview.Comment}}</blockquote>{{end}}
{{end}}`,
	TemplateSelfReviewPublished: `{{define "inner"}}
<p>Your self-review for {{.SelfReview.Interval.Name}} has been checked and published. Peer feedback is on its way.</p>
{{if .SelfReview.Comment}}<blockquote>{{.SelfReview.Comment}}</blockquote>{{end}}
{{end}}`,
	TemplateReviewDraft: `{{define "inner"}}
<p>{{.Review.Target.DisplayName}} has chosen you as a peer for {{.Review.Interval.Name}}. Please score their work and leave a comment.</p>
{{end}}`,
	TemplateReviewPending: `{{define "inner"}}
<p>Feedback from {{.Review.Reviewer.DisplayName}} on {{.Review.Target.DisplayName}} ({{.Review.ScoreLabel}}) is waiting for your decision.</p>
{{end}}`,
	TemplateReviewRejected: `{{define "inner"}}
<p>Your feedback on {{.Review.Target.DisplayName}} ({{.Review.ScoreLabel}}) was sent back for another pass.</p>
{{if .Review.Comment}}<blockquote>{{.Review.Comment}}</blockquote>{{end}}
{{end}}`,
	TemplateRequestFeedback: `{{define "inner"}}
<p>These colleagues are still waiting for your feedback{{if not .Deadline.IsZero}} (deadline {{.Deadline.Format "02.01.2006"}}){{end}}:</p>
<ul>
{{range .Reviews}}<li>{{.Target.DisplayName}}</li>
{{end}}</ul>
{{end}}`,
}

// RenderEmail produces the HTML body for a template kind.
func RenderEmail(kind string, ctx MailContext) (string, error) {
	inner, ok := innerTemplates[kind]
	if !ok {
		return "", fmt.Errorf("unsupported email template %q", kind)
	}
	if ctx.SupportEmail == "" {
		ctx.SupportEmail = config.SupportEmail()
	}
	if ctx.Signature == "" {
		ctx.Signature = config.EmailSignature()
	}
	tmpl, err := template.Must(baseTemplate.Clone()).Parse(inner)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EmailSubject builds the dynamic subject line for a template kind.
func EmailSubject(kind string, ctx MailContext) string {
	switch kind {
	case TemplateWelcome:
		return "[ACTION REQUIRED] Performance review season is here"
	case TemplateSelfReviewPending:
		return fmt.Sprintf("%s wrote a self-review", ctx.SelfReview.User.DisplayName())
	case TemplateSelfReviewRejected:
		return "Your self-review needs another pass"
	case TemplateSelfReviewPublished:
		manager := ""
		if ctx.SelfReview.User != nil && ctx.SelfReview.User.Manager != nil {
			manager = ctx.SelfReview.User.Manager.DisplayName()
		}
		return fmt.Sprintf("Your self-review was checked by %s", manager)
	case TemplateReviewDraft:
		return fmt.Sprintf("Please score the work of %s in %s",
			ctx.Review.Target.DisplayName(), ctx.Review.Interval.Name)
	case TemplateReviewPending:
		return fmt.Sprintf("Feedback needs checking: %s -> %s (%s)",
			ctx.Review.Reviewer.DisplayName(), ctx.Review.Target.DisplayName(), ctx.Review.ScoreLabel())
	case TemplateReviewRejected:
		return fmt.Sprintf("Your feedback on %s needs another pass (%s)",
			ctx.Review.Target.DisplayName(), ctx.Review.ScoreLabel())
	case TemplateRequestFeedback:
		if !ctx.Deadline.IsZero() {
			return fmt.Sprintf("[ACTION REQUIRED] Please score your peers before %s",
				ctx.Deadline.Format("02.01.2006"))
		}
		return "[ACTION REQUIRED] Please score your peers"
	}
	return kind
}
