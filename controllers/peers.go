package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"performance-review-api/services"
)

// GetPeers shows who will give the subject feedback this interval, seeding
// the default set (subordinates + manager) on first visit.
func GetPeers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	interval, ok := currentInterval(c)
	if !ok {
		return
	}

	subject, err := store().UserByEmail(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	decision := services.CanManagePeers(user, subject)
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Peer selection is only available to the subject and their manager",
			"check": "not_peer_manager",
		})
		return
	}

	peers, err := peerService().EnsureDefaults(subject, interval)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"success": true, "peers": peers}
	if decision.Elevated {
		resp["warning"] = ElevatedWarning
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePeers reconciles the subject's peer set with the chosen reviewers.
func UpdatePeers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	interval, ok := currentInterval(c)
	if !ok {
		return
	}

	subject, err := store().UserByEmail(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Peers []uint `json:"peers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := peerService().ApplySelection(user, subject, interval, req.Peers); err != nil {
		respondError(c, err)
		return
	}

	peers, err := peerService().ExistingPeers(subject, interval)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "peers": peers, "message": "Peer selection saved"})
}
