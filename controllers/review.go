package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"performance-review-api/services"
	"performance-review-api/utils"
)

// GetWaitingReviews lists the feedback the actor still owes this interval.
func GetWaitingReviews(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	interval, ok := currentInterval(c)
	if !ok {
		return
	}

	reviews, err := reviewService().WaitingFrom(user, interval)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews, "total": len(reviews)})
}

// GetReviewApprovals lists subordinate feedback for the acting manager:
// what still needs a decision and what has been signed off.
func GetReviewApprovals(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	interval, ok := currentInterval(c)
	if !ok {
		return
	}

	requireApproval, approved, err := reviewService().Approvals(user, interval)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"require_approval": requireApproval,
		"approved":         approved,
	})
}

// GetReview returns one review, subject to the visibility policy.
func GetReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	rv, decision, err := reviewService().Get(user, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"success": true, "review": rv}
	if decision.Elevated {
		resp["warning"] = ElevatedWarning
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateReview is either the reviewer's submission (score + text + pending)
// or the manager's decision (comment + rejected/hidden/published).
func UpdateReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req struct {
		Score   string `json:"score"`
		Text    string `json:"text"`
		Comment string `json:"comment"`
		Action  string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := reviewService()
	switch req.Action {
	case services.ActionRejected, services.ActionHidden, services.ActionPublished:
		rv, err := svc.Approve(user, uint(id), services.ApproveReviewInput{
			Comment: req.Comment,
			Action:  req.Action,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "review": rv})
	default:
		rv, err := svc.Submit(user, uint(id), services.SubmitReviewInput{
			Score:  req.Score,
			Text:   utils.SanitizeInput(req.Text),
			Action: req.Action,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "review": rv})
	}
}
