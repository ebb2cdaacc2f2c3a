package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateGoal assigns a goal to a subordinate for the current interval.
func CreateGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	interval, ok := currentInterval(c)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
		Text  string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	target, err := store().UserByEmail(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	goal, err := goalService().Create(user, target, interval, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "goal": goal})
}

// GetGoal returns one goal, subject to the visibility policy.
func GetGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	goal, decision, err := goalService().Get(user, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"success": true, "goal": goal}
	if decision.Elevated {
		resp["warning"] = ElevatedWarning
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateGoal edits an existing goal; the manager relation is re-checked.
func UpdateGoal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	goal, err := goalService().Update(user, uint(id), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "goal": goal})
}
