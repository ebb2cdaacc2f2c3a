package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"performance-review-api/services"
	"performance-review-api/utils"
)

type selfReviewRequest struct {
	Text   string `json:"text"`
	Action string `json:"action"` // draft | pending, empty keeps status
}

type approveRequest struct {
	Comment string `json:"comment"`
	Action  string `json:"action" binding:"required"`
}

// CreateSelfReview writes the actor's self-review for the current interval.
func CreateSelfReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	interval, ok := currentInterval(c)
	if !ok {
		return
	}

	var req selfReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sr, err := selfReviewService().Create(user, interval, services.SubmitSelfReviewInput{
		Text:   utils.SanitizeInput(req.Text),
		Action: req.Action,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "self_review": sr})
}

// GetSelfReview returns one self-review, subject to the visibility policy.
func GetSelfReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid self-review ID"})
		return
	}

	sr, decision, err := selfReviewService().Get(user, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"success": true, "self_review": sr}
	if decision.Elevated {
		resp["warning"] = ElevatedWarning
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSelfReview is either an authored edit (text + draft/pending) or a
// manager decision (comment + rejected/published), decided by the action.
func UpdateSelfReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid self-review ID"})
		return
	}

	var req struct {
		Text    string `json:"text"`
		Comment string `json:"comment"`
		Action  string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := selfReviewService()
	switch req.Action {
	case services.ActionRejected, services.ActionPublished:
		sr, err := svc.Approve(user, uint(id), services.ApproveSelfReviewInput{
			Comment: req.Comment,
			Action:  req.Action,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "self_review": sr})
	default:
		sr, err := svc.Update(user, uint(id), services.SubmitSelfReviewInput{
			Text:   utils.SanitizeInput(req.Text),
			Action: req.Action,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "self_review": sr})
	}
}
