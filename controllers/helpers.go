package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"performance-review-api/config"
	"performance-review-api/models"
	"performance-review-api/services"
)

// ElevatedWarning is surfaced whenever access was granted only through the
// actor's staff permission.
const ElevatedWarning = "This record is visible to you via elevated permission"

func store() services.Store {
	return services.NewStore(config.DB)
}

func auditLogger() *services.AuditLogger {
	return services.NewAuditLogger(store())
}

func dispatcher() services.Dispatcher {
	return services.NewNotifier(services.SMTPMailer{}, auditLogger())
}

func intervalService() *services.IntervalService {
	return services.NewIntervalService(store())
}

func selfReviewService() *services.SelfReviewService {
	return services.NewSelfReviewService(store(), dispatcher(), auditLogger())
}

func reviewService() *services.ReviewService {
	return services.NewReviewService(store(), dispatcher(), auditLogger())
}

func peerService() *services.PeerService {
	return services.NewPeerService(store(), auditLogger())
}

func goalService() *services.GoalService {
	return services.NewGoalService(store(), auditLogger())
}

// currentUser pulls the acting user resolved by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return nil, false
	}
	return user, true
}

// currentInterval resolves the started interval, or replies 409: without a
// started cycle there is nothing to write reviews against.
func currentInterval(c *gin.Context) (*models.Interval, bool) {
	interval, err := intervalService().Current()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return interval, true
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var forbidden *services.ForbiddenError
	var transition *services.TransitionError
	var validation *services.ValidationError

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, services.ErrNoCurrentInterval):
		c.JSON(http.StatusConflict, gin.H{"error": "No active review interval, a self-review cannot be written"})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": forbidden.Message, "check": forbidden.Check})
	case errors.As(err, &transition):
		// deliberately vague: a state/UI desync, details are in the server log
		c.JSON(http.StatusConflict, gin.H{"error": transition.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
