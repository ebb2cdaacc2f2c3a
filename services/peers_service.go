package services

import (
	"fmt"
	"log"

	"performance-review-api/models"
)

// PeerService maintains the set of requested Review rows answering "who will
// give this person feedback this interval". Only requested rows are ever
// deleted here; anything further along is immutable through this path.
type PeerService struct {
	store Store
	audit *AuditLogger
}

func NewPeerService(store Store, audit *AuditLogger) *PeerService {
	return &PeerService{store: store, audit: audit}
}

// ExistingPeers returns the users who currently have a Review row (any
// status) pointed at the subject this interval.
func (s *PeerService) ExistingPeers(subject *models.User, interval *models.Interval) ([]models.User, error) {
	reviews, err := s.store.ReviewsByTarget(interval.IntervalID, subject.UserID)
	if err != nil {
		return nil, err
	}
	peers := make([]models.User, 0, len(reviews))
	for i := range reviews {
		if reviews[i].Reviewer != nil {
			peers = append(peers, *reviews[i].Reviewer)
		}
	}
	return peers, nil
}

// EnsureDefaults seeds the subject's peer set on first visit: one requested
// review per active direct subordinate, plus the manager if there is one.
// A no-op when any rows already exist.
func (s *PeerService) EnsureDefaults(subject *models.User, interval *models.Interval) ([]models.User, error) {
	existing, err := s.ExistingPeers(subject, interval)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	possible, err := s.store.ActiveSubordinates(subject.UserID)
	if err != nil {
		return nil, err
	}
	if subject.Manager != nil {
		possible = append(possible, *subject.Manager)
	}

	reviews := make([]*models.Review, 0, len(possible))
	for i := range possible {
		reviews = append(reviews, &models.Review{
			IntervalID: interval.IntervalID,
			TargetID:   subject.UserID,
			ReviewerID: possible[i].UserID,
			Status:     models.ReviewRequested,
		})
	}
	if err := s.store.CreateReviews(reviews); err != nil {
		return nil, err
	}
	log.Printf("Created %d default review requests for user %d in %s", len(reviews), subject.UserID, interval.Name)
	return possible, nil
}

// ApplySelection reconciles the subject's peer set with the chosen reviewer
// IDs: missing reviewers get a requested row, deselected ones are removed.
// The subject's manager can never be dropped, and neither can rows that
// already progressed past requested. Applying the same selection twice is a
// no-op the second time.
func (s *PeerService) ApplySelection(actor *models.User, subject *models.User, interval *models.Interval, chosen []uint) error {
	if decision := CanManagePeers(actor, subject); !decision.Allowed {
		denial := &ForbiddenError{
			Check:   "not_peer_manager",
			Message: fmt.Sprintf("peer selection for user %d is not available to user %d", subject.UserID, actor.UserID),
		}
		s.audit.LogDenied(actor, "user", subject.UserID, subject.Email, denial)
		return denial
	}

	chosenSet := make(map[uint]bool, len(chosen))
	for _, id := range chosen {
		if id == subject.UserID {
			return &ValidationError{Field: "peers", Message: "You cannot choose yourself as a peer"}
		}
		chosenSet[id] = true
	}

	existing, err := s.ExistingPeers(subject, interval)
	if err != nil {
		return err
	}
	existingSet := make(map[uint]bool, len(existing))
	for i := range existing {
		existingSet[existing[i].UserID] = true
	}

	for id := range chosenSet {
		if existingSet[id] {
			continue
		}
		reviewer, err := s.store.UserByID(id)
		if err != nil {
			return err
		}
		if !reviewer.IsActive {
			return &ValidationError{Field: "peers", Message: fmt.Sprintf("user %d is not active", id)}
		}
		if _, _, err := s.store.GetOrCreateReview(interval.IntervalID, id, subject.UserID,
			models.ReviewRequested); err != nil {
			return err
		}
	}

	for i := range existing {
		peer := &existing[i]
		if chosenSet[peer.UserID] {
			continue
		}
		// the manager can never be removed as a peer
		if subject.ManagerID != nil && *subject.ManagerID == peer.UserID {
			continue
		}
		// deletion only touches rows still in requested status
		if err := s.store.DeleteRequestedReview(interval.IntervalID, subject.UserID, peer.UserID); err != nil {
			return err
		}
	}
	return nil
}
