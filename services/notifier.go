package services

import (
	"log"

	"performance-review-api/models"
)

// Notifier turns domain events into outgoing email. It runs synchronously
// after the state mutation has been persisted, and a send failure is caught
// and logged without reaching the caller: the transition stands either way.
type Notifier struct {
	mailer Mailer
	audit  *AuditLogger
}

func NewNotifier(mailer Mailer, audit *AuditLogger) *Notifier {
	return &Notifier{mailer: mailer, audit: audit}
}

func (n *Notifier) Dispatch(e Event) {
	switch e.Kind {
	case EventSelfReviewPending:
		sr := e.SelfReview
		if sr.User == nil || sr.User.Manager == nil {
			return
		}
		n.send(TemplateSelfReviewPending, sr.User.Manager,
			MailContext{User: sr.User.Manager, SelfReview: sr},
			"self-review", sr.SelfReviewID)

	case EventSelfReviewRejected:
		sr := e.SelfReview
		if sr.User == nil {
			return
		}
		n.send(TemplateSelfReviewRejected, sr.User,
			MailContext{User: sr.User, SelfReview: sr},
			"self-review", sr.SelfReviewID)

	case EventSelfReviewPublished:
		sr := e.SelfReview
		// a boss has no manager and needs no "your manager checked it" note
		if sr.User == nil || sr.User.Manager == nil {
			return
		}
		n.send(TemplateSelfReviewPublished, sr.User,
			MailContext{User: sr.User, SelfReview: sr},
			"self-review", sr.SelfReviewID)

	case EventReviewDraft:
		rv := e.Review
		// no point asking for feedback when the self-review vanished
		if rv.Reviewer == nil || e.SelfReview == nil {
			return
		}
		n.send(TemplateReviewDraft, rv.Reviewer,
			MailContext{User: rv.Reviewer, Review: rv, SelfReview: e.SelfReview},
			"review", rv.ReviewID)

	case EventReviewPending:
		rv := e.Review
		if rv.Target == nil || rv.Target.Manager == nil {
			return
		}
		n.send(TemplateReviewPending, rv.Target.Manager,
			MailContext{User: rv.Target.Manager, Review: rv},
			"review", rv.ReviewID)

	case EventReviewRejected:
		rv := e.Review
		if rv.Reviewer == nil {
			return
		}
		n.send(TemplateReviewRejected, rv.Reviewer,
			MailContext{User: rv.Reviewer, Review: rv},
			"review", rv.ReviewID)
	}
}

func (n *Notifier) send(kind string, recipient *models.User, ctx MailContext, objectKind string, objectID uint) {
	body, err := RenderEmail(kind, ctx)
	if err != nil {
		log.Printf("Failed to render %s email for %s: %v", kind, recipient.Email, err)
		return
	}
	subject := EmailSubject(kind, ctx)
	if err := n.mailer.Send([]string{recipient.Email}, subject, body); err != nil {
		log.Printf("Failed to send %s email to %s: %v", kind, recipient.Email, err)
		return
	}
	if n.audit != nil {
		n.audit.LogObjectAction(recipient, objectKind, objectID, subject, "Sent email "+kind)
	}
}
