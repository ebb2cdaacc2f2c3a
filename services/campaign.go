package services

import (
	"fmt"
	"log"
	"time"

	"performance-review-api/models"
)

// CampaignService handles operator-triggered mail-outs: the welcome blast at
// the start of a cycle and the "you still owe feedback" digest. Per-recipient
// failures are logged and skipped so one bad address does not kill the run.
type CampaignService struct {
	store  Store
	mailer Mailer
	audit  *AuditLogger
}

func NewCampaignService(store Store, mailer Mailer, audit *AuditLogger) *CampaignService {
	return &CampaignService{store: store, mailer: mailer, audit: audit}
}

// SendOptions selects recipients: a single address, or everyone suitable
// for the template with an optional department filter.
type SendOptions struct {
	Email      string
	Suitable   bool
	Department string
	Deadline   time.Time
}

// Send dispatches the named template to the selected audience and returns
// the addresses actually written to.
func (s *CampaignService) Send(templateKind string, interval *models.Interval, opts SendOptions) ([]string, error) {
	if templateKind != TemplateWelcome && templateKind != TemplateRequestFeedback {
		return nil, fmt.Errorf("unsupported template %q, supported are [%s, %s]",
			templateKind, TemplateWelcome, TemplateRequestFeedback)
	}
	if opts.Email == "" && !opts.Suitable {
		return nil, fmt.Errorf("specify a recipient email or --suitable for everybody")
	}
	if opts.Deadline.IsZero() {
		opts.Deadline = time.Now().Add(48 * time.Hour)
	}

	users, err := s.audience(templateKind, interval, opts)
	if err != nil {
		return nil, err
	}

	var sent []string
	for i := range users {
		user := &users[i]
		if err := s.sendOne(templateKind, user, interval, opts); err != nil {
			log.Printf("Sending %s to %s failed: %v", templateKind, user.Email, err)
			continue
		}
		sent = append(sent, user.Email)
	}
	return sent, nil
}

func (s *CampaignService) audience(templateKind string, interval *models.Interval, opts SendOptions) ([]models.User, error) {
	if opts.Email != "" {
		user, err := s.store.UserByEmail(opts.Email)
		if err != nil {
			return nil, err
		}
		if !user.IsActive {
			return nil, fmt.Errorf("user %s is not active", opts.Email)
		}
		return []models.User{*user}, nil
	}

	switch templateKind {
	case TemplateWelcome:
		users, err := s.store.ActiveUsers()
		if err != nil {
			return nil, err
		}
		var audience []models.User
		for _, u := range users {
			if !u.IsReviewable {
				continue
			}
			if opts.Department != "" && (u.Department == nil || u.Department.Name != opts.Department) {
				continue
			}
			audience = append(audience, u)
		}
		return audience, nil

	case TemplateRequestFeedback:
		reviews, err := s.store.ReviewsAwaitingFeedback(interval.IntervalID)
		if err != nil {
			return nil, err
		}
		seen := make(map[uint]bool)
		var audience []models.User
		for i := range reviews {
			reviewer := reviews[i].Reviewer
			if reviewer == nil || !reviewer.IsActive || seen[reviewer.UserID] {
				continue
			}
			seen[reviewer.UserID] = true
			audience = append(audience, *reviewer)
		}
		return audience, nil
	}
	return nil, fmt.Errorf("unsupported template %q", templateKind)
}

func (s *CampaignService) sendOne(templateKind string, user *models.User, interval *models.Interval, opts SendOptions) error {
	ctx := MailContext{User: user, Interval: interval, Deadline: opts.Deadline}
	if templateKind == TemplateRequestFeedback {
		waiting, err := s.store.ReviewsWaitingFrom(interval.IntervalID, user.UserID)
		if err != nil {
			return err
		}
		var owed []models.Review
		for _, r := range waiting {
			if r.Status == models.ReviewDraft || r.Status == models.ReviewRejected {
				owed = append(owed, r)
			}
		}
		if len(owed) == 0 {
			return fmt.Errorf("nothing waiting from %s", user.Email)
		}
		ctx.Reviews = owed
	}

	body, err := RenderEmail(templateKind, ctx)
	if err != nil {
		return err
	}
	subject := EmailSubject(templateKind, ctx)
	if err := s.mailer.Send([]string{user.Email}, subject, body); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.LogObjectAction(user, "user", user.UserID, user.Email, "Sent email "+templateKind)
	}
	return nil
}
