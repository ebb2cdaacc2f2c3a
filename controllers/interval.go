package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCurrentInterval returns the started review cycle.
func GetCurrentInterval(c *gin.Context) {
	interval, ok := currentInterval(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "interval": interval})
}

// GetLatestActiveInterval returns the newest started-or-finished cycle,
// which the UI uses to show results after a cycle closes.
func GetLatestActiveInterval(c *gin.Context) {
	interval, err := intervalService().LatestActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "interval": interval})
}
