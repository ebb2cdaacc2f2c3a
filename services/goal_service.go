package services

import (
	"errors"
	"fmt"

	"performance-review-api/models"
)

// GoalService tracks manager-assigned goals, one per (interval, target).
// Only the target's current manager writes them; the relation is re-checked
// on every edit because the manager can change between intervals.
type GoalService struct {
	store Store
	audit *AuditLogger
}

func NewGoalService(store Store, audit *AuditLogger) *GoalService {
	return &GoalService{store: store, audit: audit}
}

func notGoalManager(target *models.User, actor *models.User) error {
	return &ForbiddenError{
		Check:   "not_manager",
		Message: fmt.Sprintf("goals for user %d are set by their manager, not user %d", target.UserID, actor.UserID),
	}
}

// Get loads a goal and checks the actor may see it.
func (s *GoalService) Get(actor *models.User, id uint) (*models.Goal, Decision, error) {
	g, err := s.store.GoalByID(id)
	if err != nil {
		return nil, Decision{}, err
	}
	decision := GoalVisibleTo(actor, g)
	if !decision.Allowed {
		denial := &ForbiddenError{
			Check:   "not_visible",
			Message: fmt.Sprintf("goal %d is not visible to user %d", id, actor.UserID),
		}
		s.audit.LogDenied(actor, "goal", id, g.Text, denial)
		return nil, decision, denial
	}
	return g, decision, nil
}

// Create writes the target's goal for the interval.
func (s *GoalService) Create(actor *models.User, target *models.User, interval *models.Interval, text string) (*models.Goal, error) {
	if !managedBy(target, actor) {
		denial := notGoalManager(target, actor)
		s.audit.LogDenied(actor, "user", target.UserID, target.Email, denial)
		return nil, denial
	}
	if _, err := s.store.GoalFor(interval.IntervalID, target.UserID); err == nil {
		return nil, &ValidationError{Field: "interval", Message: "Goal already exists for this interval"}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	g := &models.Goal{
		IntervalID: interval.IntervalID,
		TargetID:   target.UserID,
		Text:       text,
		Interval:   interval,
		Target:     target,
	}
	if err := s.store.CreateGoal(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Update edits an existing goal, re-checking the manager relation.
func (s *GoalService) Update(actor *models.User, id uint, text string) (*models.Goal, error) {
	g, err := s.store.GoalByID(id)
	if err != nil {
		return nil, err
	}
	if !managedBy(g.Target, actor) {
		denial := notGoalManager(g.Target, actor)
		s.audit.LogDenied(actor, "goal", g.GoalID, g.Text, denial)
		return nil, denial
	}
	g.Text = text
	if err := s.store.SaveGoal(g); err != nil {
		return nil, err
	}
	return g, nil
}
