package services

import (
	"errors"
	"fmt"

	"performance-review-api/models"
)

// ActionHidden approves a peer review while keeping it concealed from the
// target. Review-only: self-reviews are never hidden.
const ActionHidden = "hidden"

// NextReviewStatus is the pure transition rule for peer reviews. The
// reviewer submits with action=pending; when the reviewer is the target's
// manager the submission self-approves into hidden, since nobody reviews the
// manager's feedback. The target's manager decides rejected/hidden/published
// on a pending record. published is a legal manager choice, though the usual
// outcome is hidden.
func NextReviewStatus(rv *models.Review, actor *models.User, action string) (string, error) {
	switch action {
	case ActionPending:
		if actor.UserID != rv.ReviewerID {
			return "", &ForbiddenError{
				Check:   "not_reviewer",
				Message: fmt.Sprintf("only the reviewer may fill in this feedback (user_id=%d)", rv.ReviewerID),
			}
		}
		if !rv.IsEditable() {
			return "", &TransitionError{Entity: "review", Status: rv.Status, Action: action}
		}
		if managedBy(rv.Target, actor) {
			// auto-approve manager -> subordinate review
			return models.ReviewHidden, nil
		}
		return models.ReviewPending, nil

	case ActionRejected, ActionHidden, ActionPublished:
		if !managedBy(rv.Target, actor) {
			managerID := uint(0)
			if rv.Target.ManagerID != nil {
				managerID = *rv.Target.ManagerID
			}
			return "", &ForbiddenError{
				Check: "not_manager",
				Message: fmt.Sprintf("approving this feedback is up to the target's manager (user_id=%d)",
					managerID),
			}
		}
		if !rv.IsPending() {
			return "", &TransitionError{Entity: "review", Status: rv.Status, Action: action}
		}
		return action, nil

	default:
		return "", &ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", action)}
	}
}

// ValidateReviewContent enforces the score/text rule: a score is required,
// and it must come with commentary text unless it is the "did not interact"
// value.
func ValidateReviewContent(score, text string) error {
	if score == "" {
		return &ValidationError{
			Field:   "score",
			Message: "Score your colleague's work; if you did not work together closely, pick \"Did not interact, cannot evaluate\"",
		}
	}
	if !models.ValidScore(score) {
		return &ValidationError{Field: "score", Message: fmt.Sprintf("unknown score %q", score)}
	}
	if text == "" && score != models.ScoreNone {
		return &ValidationError{
			Field:   "text",
			Message: "Feedback without text is not very useful, a comment is required",
		}
	}
	return nil
}

// ReviewService drives the peer-feedback lifecycle.
type ReviewService struct {
	store  Store
	events Dispatcher
	audit  *AuditLogger
}

func NewReviewService(store Store, events Dispatcher, audit *AuditLogger) *ReviewService {
	return &ReviewService{store: store, events: events, audit: audit}
}

// targetSelfReview loads the self-review gating this record, nil when absent.
func (s *ReviewService) targetSelfReview(rv *models.Review) (*models.SelfReview, error) {
	sr, err := s.store.SelfReviewFor(rv.IntervalID, rv.TargetID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return sr, err
}

// Get loads a review and checks the actor may see it.
func (s *ReviewService) Get(actor *models.User, id uint) (*models.Review, Decision, error) {
	rv, err := s.store.ReviewByID(id)
	if err != nil {
		return nil, Decision{}, err
	}
	sr, err := s.targetSelfReview(rv)
	if err != nil {
		return nil, Decision{}, err
	}
	decision := ReviewVisibleTo(actor, rv, sr)
	if !decision.Allowed {
		denial := &ForbiddenError{
			Check:   "not_visible",
			Message: fmt.Sprintf("review %d is not visible to user %d", id, actor.UserID),
		}
		s.audit.LogDenied(actor, "review", id, rv.Status, denial)
		return nil, decision, denial
	}
	return rv, decision, nil
}

// SubmitReviewInput is the reviewer's save: score, commentary and the
// pending action.
type SubmitReviewInput struct {
	Score  string
	Text   string
	Action string
}

// Submit applies the reviewer's feedback on an editable review.
func (s *ReviewService) Submit(actor *models.User, id uint, in SubmitReviewInput) (*models.Review, error) {
	rv, _, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	next, err := NextReviewStatus(rv, actor, in.Action)
	if err != nil {
		s.audit.LogDenied(actor, "review", rv.ReviewID, rv.Status, err)
		return nil, err
	}
	if err := ValidateReviewContent(in.Score, in.Text); err != nil {
		return nil, err
	}
	previous := rv.Status
	score := in.Score
	rv.Score = &score
	rv.Text = in.Text
	rv.Status = next
	if err := s.store.SaveReview(rv); err != nil {
		return nil, err
	}
	s.afterStatusChange(rv, previous)
	return rv, nil
}

// ApproveReviewInput is the manager decision on pending feedback.
type ApproveReviewInput struct {
	Comment string
	Action  string
}

// Approve applies the manager decision: rejected sends the feedback back to
// the reviewer, hidden approves it concealed from the target, published
// approves it visibly.
func (s *ReviewService) Approve(actor *models.User, id uint, in ApproveReviewInput) (*models.Review, error) {
	rv, _, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	next, err := NextReviewStatus(rv, actor, in.Action)
	if err != nil {
		s.audit.LogDenied(actor, "review", rv.ReviewID, rv.Status, err)
		return nil, err
	}
	previous := rv.Status
	rv.Comment = in.Comment
	rv.Status = next
	if err := s.store.SaveReview(rv); err != nil {
		return nil, err
	}
	s.afterStatusChange(rv, previous)
	return rv, nil
}

// WaitingFrom lists the reviews the user still owes this interval: past the
// requested stage, not yet approved, target self-review published.
func (s *ReviewService) WaitingFrom(user *models.User, interval *models.Interval) ([]models.Review, error) {
	return s.store.ReviewsWaitingFrom(interval.IntervalID, user.UserID)
}

// Approvals lists subordinate feedback for the manager: first what still
// needs a decision, then what has been signed off.
func (s *ReviewService) Approvals(manager *models.User, interval *models.Interval) (requireApproval, approved []models.Review, err error) {
	requireApproval, err = s.store.ReviewsByTargetManager(interval.IntervalID, manager.UserID,
		models.RequireApprovalStatuses...)
	if err != nil {
		return nil, nil, err
	}
	approved, err = s.store.ReviewsByTargetManager(interval.IntervalID, manager.UserID,
		models.ApprovedStatuses...)
	if err != nil {
		return nil, nil, err
	}
	return requireApproval, approved, nil
}

func (s *ReviewService) afterStatusChange(rv *models.Review, previous string) {
	if rv.Status == previous {
		return
	}
	switch rv.Status {
	case models.ReviewPending:
		s.events.Dispatch(Event{Kind: EventReviewPending, Review: rv})
	case models.ReviewRejected:
		s.events.Dispatch(Event{Kind: EventReviewRejected, Review: rv})
	}
}
