package services

import (
	"errors"
	"fmt"
	"log"

	"performance-review-api/models"
)

// Self-review actions. The author saves drafts and submits for approval; the
// author's manager rejects or publishes.
const (
	ActionDraft     = "draft"
	ActionPending   = "pending"
	ActionRejected  = "rejected"
	ActionPublished = "published"
)

// NextSelfReviewStatus is the pure transition rule for self-reviews: given
// the record, its author, the actor and the requested action, it returns the
// resulting status or a typed error. It touches no storage.
//
// Author edits (draft/pending) require the record to be new or still
// editable. A boss (no manager) has no approver, so any authored submission
// lands directly in published. Manager decisions (rejected/published)
// require the record to be pending and the actor to be the author's manager.
func NextSelfReviewStatus(sr *models.SelfReview, author *models.User, actor *models.User, action string) (string, error) {
	switch action {
	case ActionDraft, ActionPending, "":
		if actor.UserID != author.UserID {
			return "", &ForbiddenError{
				Check:   "not_author",
				Message: fmt.Sprintf("only the author may edit this self-review (user_id=%d)", author.UserID),
			}
		}
		if sr.SelfReviewID != 0 && !sr.IsEditable() {
			return "", &TransitionError{Entity: "self-review", Status: sr.Status, Action: action}
		}
		if author.IsBoss() {
			// auto-publish boss review, she has no manager to do this for her
			return models.SelfReviewPublished, nil
		}
		if action == "" {
			// plain text edit, status untouched
			return sr.Status, nil
		}
		return action, nil

	case ActionRejected, ActionPublished:
		if !managedBy(author, actor) {
			managerID := uint(0)
			if author.ManagerID != nil {
				managerID = *author.ManagerID
			}
			return "", &ForbiddenError{
				Check: "not_manager",
				Message: fmt.Sprintf("approving this self-review is up to the author's manager (user_id=%d)",
					managerID),
			}
		}
		if !sr.IsPending() {
			return "", &TransitionError{Entity: "self-review", Status: sr.Status, Action: action}
		}
		return action, nil

	default:
		return "", &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", action)}
	}
}

// SelfReviewService drives the self-review lifecycle and its side effects.
type SelfReviewService struct {
	store  Store
	events Dispatcher
	audit  *AuditLogger
}

func NewSelfReviewService(store Store, events Dispatcher, audit *AuditLogger) *SelfReviewService {
	return &SelfReviewService{store: store, events: events, audit: audit}
}

// SubmitSelfReviewInput is an authored save: text plus the requested action.
// An empty action keeps the current status (plain text edit).
type SubmitSelfReviewInput struct {
	Text   string
	Action string
}

// Get loads a self-review and checks the actor may see it.
func (s *SelfReviewService) Get(actor *models.User, id uint) (*models.SelfReview, Decision, error) {
	sr, err := s.store.SelfReviewByID(id)
	if err != nil {
		return nil, Decision{}, err
	}
	decision := SelfReviewVisibleTo(actor, sr)
	if !decision.Allowed {
		denial := &ForbiddenError{
			Check:   "not_visible",
			Message: fmt.Sprintf("self-review %d is not visible to user %d", id, actor.UserID),
		}
		s.audit.LogDenied(actor, "self-review", id, sr.Status, denial)
		return nil, decision, denial
	}
	return sr, decision, nil
}

// Create writes the actor's self-review for the interval. A second create
// for the same (interval, user) fails with a field validation error before
// the storage uniqueness constraint would fire.
func (s *SelfReviewService) Create(actor *models.User, interval *models.Interval, in SubmitSelfReviewInput) (*models.SelfReview, error) {
	if _, err := s.store.SelfReviewFor(interval.IntervalID, actor.UserID); err == nil {
		return nil, &ValidationError{Field: "interval", Message: "Self-review already exists, double submit"}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	sr := &models.SelfReview{
		IntervalID: interval.IntervalID,
		UserID:     actor.UserID,
		Text:       in.Text,
		Status:     models.SelfReviewDraft,
		Interval:   interval,
		User:       actor,
	}
	next, err := NextSelfReviewStatus(sr, actor, actor, in.Action)
	if err != nil {
		return nil, err
	}
	sr.Status = next
	if err := s.store.CreateSelfReview(sr); err != nil {
		return nil, err
	}
	s.afterStatusChange(sr, "")
	return sr, nil
}

// Update is an authored edit of an existing record.
func (s *SelfReviewService) Update(actor *models.User, id uint, in SubmitSelfReviewInput) (*models.SelfReview, error) {
	sr, _, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	next, err := NextSelfReviewStatus(sr, sr.User, actor, in.Action)
	if err != nil {
		s.audit.LogDenied(actor, "self-review", sr.SelfReviewID, sr.Status, err)
		return nil, err
	}
	previous := sr.Status
	sr.Text = in.Text
	sr.Status = next
	if err := s.store.SaveSelfReview(sr); err != nil {
		return nil, err
	}
	s.afterStatusChange(sr, previous)
	return sr, nil
}

// ApproveSelfReviewInput is a manager decision: a comment for the author and
// the rejected/published action.
type ApproveSelfReviewInput struct {
	Comment string
	Action  string
}

// Approve applies the manager decision on a pending self-review.
func (s *SelfReviewService) Approve(actor *models.User, id uint, in ApproveSelfReviewInput) (*models.SelfReview, error) {
	sr, _, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	next, err := NextSelfReviewStatus(sr, sr.User, actor, in.Action)
	if err != nil {
		s.audit.LogDenied(actor, "self-review", sr.SelfReviewID, sr.Status, err)
		return nil, err
	}
	previous := sr.Status
	sr.Comment = in.Comment
	sr.Status = next
	if err := s.store.SaveSelfReview(sr); err != nil {
		return nil, err
	}
	s.afterStatusChange(sr, previous)
	return sr, nil
}

// afterStatusChange emits the notification event for the new status and, on
// publish, promotes the author's requested peer reviews so they cannot be
// silently dropped. Each promotion is saved individually so the reviewer
// notification fires once per record.
func (s *SelfReviewService) afterStatusChange(sr *models.SelfReview, previous string) {
	if sr.Status == previous {
		return
	}
	switch sr.Status {
	case models.SelfReviewPending:
		s.events.Dispatch(Event{Kind: EventSelfReviewPending, SelfReview: sr})
	case models.SelfReviewRejected:
		s.events.Dispatch(Event{Kind: EventSelfReviewRejected, SelfReview: sr})
	case models.SelfReviewPublished:
		s.promoteRequestedReviews(sr)
		s.events.Dispatch(Event{Kind: EventSelfReviewPublished, SelfReview: sr})
	}
}

func (s *SelfReviewService) promoteRequestedReviews(sr *models.SelfReview) {
	requested, err := s.store.ReviewsByTarget(sr.IntervalID, sr.UserID, models.ReviewRequested)
	if err != nil {
		log.Printf("Failed to load requested reviews for self-review %d: %v", sr.SelfReviewID, err)
		return
	}
	for i := range requested {
		review := &requested[i]
		review.Status = models.ReviewDraft
		if err := s.store.SaveReview(review); err != nil {
			log.Printf("Failed to promote review %d to draft: %v", review.ReviewID, err)
			continue
		}
		s.events.Dispatch(Event{Kind: EventReviewDraft, Review: review, SelfReview: sr})
	}
}
