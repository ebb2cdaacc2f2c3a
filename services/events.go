package services

import "performance-review-api/models"

// EventKind tags a status change the state machines want the outside world
// to react to.
type EventKind string

const (
	EventSelfReviewPending   EventKind = "self-review-pending"
	EventSelfReviewRejected  EventKind = "self-review-rejected"
	EventSelfReviewPublished EventKind = "self-review-published"
	EventReviewDraft         EventKind = "review-draft"
	EventReviewPending       EventKind = "review-pending"
	EventReviewRejected      EventKind = "review-rejected"
)

// Event carries the record whose status changed, with user relations loaded
// so the consumer can resolve recipients without touching storage.
type Event struct {
	Kind       EventKind
	SelfReview *models.SelfReview
	Review     *models.Review
}

// Dispatcher consumes domain events after a state mutation has been
// persisted. Implementations must never fail the caller: the transition is
// already committed.
type Dispatcher interface {
	Dispatch(e Event)
}

// NopDispatcher swallows events. Handy for the CLI binaries and tests that
// do not care about notifications.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(Event) {}
