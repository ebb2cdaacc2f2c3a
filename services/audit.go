package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"performance-review-api/models"
)

// AuditLogger writes the audit trail: sent emails, denied accesses. Write
// failures are logged and swallowed, an audit entry is never worth failing
// the parent operation for.
type AuditLogger struct {
	store Store
}

func NewAuditLogger(store Store) *AuditLogger {
	return &AuditLogger{store: store}
}

// LogObjectAction records that something happened to a record.
func (a *AuditLogger) LogObjectAction(actor *models.User, kind string, objectID uint, objectRepr, message string) {
	entry := &models.AuditLog{
		AuditLogID: uuid.NewString(),
		ObjectKind: kind,
		ObjectID:   objectID,
		ObjectRepr: objectRepr,
		Message:    message,
		CreateAt:   time.Now(),
	}
	if actor != nil {
		id := actor.UserID
		entry.ActorID = &id
	}
	if err := a.store.CreateAuditLog(entry); err != nil {
		log.Printf("Failed to write audit log entry (%s %d): %v", kind, objectID, err)
	}
}

// LogDenied records a refused operation: an error-severity log line with the
// precise reason, plus the matching audit trail row. A TransitionError hides
// its state detail from the end user, so it is expanded back here.
func (a *AuditLogger) LogDenied(actor *models.User, kind string, objectID uint, objectRepr string, reason error) {
	detail := reason.Error()
	var transition *TransitionError
	if errors.As(reason, &transition) {
		detail = fmt.Sprintf("invalid transition: %s in status %q does not accept action %q",
			transition.Entity, transition.Status, transition.Action)
	}
	log.Printf("ERROR: %s %d denied for user %d: %s", kind, objectID, actor.UserID, detail)
	a.LogObjectAction(actor, kind, objectID, objectRepr, "Denied: "+detail)
}
