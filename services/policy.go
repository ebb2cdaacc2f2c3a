package services

import (
	"log"

	"performance-review-api/models"
)

// Decision is the outcome of a visibility check. Elevated marks access that
// was only granted through the actor's staff permission, so callers can warn
// the actor they are viewing via an override.
type Decision struct {
	Allowed  bool
	Elevated bool
}

func deny() Decision          { return Decision{} }
func allow() Decision         { return Decision{Allowed: true} }
func allowElevated() Decision { return Decision{Allowed: true, Elevated: true} }

func managedBy(u *models.User, actor *models.User) bool {
	return u.ManagerID != nil && *u.ManagerID == actor.UserID
}

// elevated upgrades a deny for staff actors.
func elevated(actor *models.User, base Decision) Decision {
	if base.Allowed {
		return base
	}
	if actor.IsStaff {
		return allowElevated()
	}
	return base
}

// SelfReviewVisibleTo implements the self-review read rule: the author sees
// their own record at all times, the author's manager only once it has left
// the private draft stage. sr.User must be loaded.
func SelfReviewVisibleTo(actor *models.User, sr *models.SelfReview) Decision {
	if sr.UserID == actor.UserID {
		return allow()
	}
	if managedBy(sr.User, actor) {
		switch sr.Status {
		case models.SelfReviewRejected, models.SelfReviewPending, models.SelfReviewPublished:
			return allow()
		}
	}
	return elevated(actor, deny())
}

// ReviewVisibleTo implements the peer-review read rule. No review is visible
// to anybody until the target's self-review for the same interval exists and
// is published; that gate applies before the per-actor branches, the
// target's manager included. rv.Target must be loaded; targetSelfReview may
// be nil.
func ReviewVisibleTo(actor *models.User, rv *models.Review, targetSelfReview *models.SelfReview) Decision {
	if targetSelfReview == nil {
		log.Printf("Review access denied without self-review review_id=%d actor_id=%d", rv.ReviewID, actor.UserID)
		return elevated(actor, deny())
	}
	if !targetSelfReview.IsPublished() {
		log.Printf("Self-review %d is not published status=%s, review access denied for actor_id=%d",
			targetSelfReview.SelfReviewID, targetSelfReview.Status, actor.UserID)
		return elevated(actor, deny())
	}

	if rv.ReviewerID == actor.UserID {
		// An un-actioned request is invisible to the reviewer themself.
		if rv.Status != models.ReviewRequested {
			return allow()
		}
		return elevated(actor, deny())
	}
	if managedBy(rv.Target, actor) {
		return allow()
	}
	if rv.TargetID == actor.UserID && rv.Status == models.ReviewPublished {
		return allow()
	}
	return elevated(actor, deny())
}

// GoalVisibleTo implements the goal read rule: the target and the target's
// manager, plus the staff override. g.Target must be loaded.
func GoalVisibleTo(actor *models.User, g *models.Goal) Decision {
	if g.TargetID == actor.UserID || managedBy(g.Target, actor) {
		return allow()
	}
	return elevated(actor, deny())
}

// CanManagePeers reports whether the actor may view or change the subject's
// peer selection: the subject themself, the subject's manager, or staff.
func CanManagePeers(actor *models.User, subject *models.User) Decision {
	if subject.UserID == actor.UserID || managedBy(subject, actor) {
		return allow()
	}
	return elevated(actor, deny())
}
