package routes

import (
	"github.com/gin-gonic/gin"

	"performance-review-api/controllers"
	"performance-review-api/middleware"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Performance Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)

			// Review cycles
			protected.GET("/intervals/current", controllers.GetCurrentInterval)
			protected.GET("/intervals/latest-active", controllers.GetLatestActiveInterval)

			// Self-reviews
			selfReviews := protected.Group("/self-reviews")
			{
				selfReviews.POST("", controllers.CreateSelfReview)
				selfReviews.GET("/:id", controllers.GetSelfReview)
				selfReviews.PUT("/:id", controllers.UpdateSelfReview)
			}

			// Peer feedback
			reviews := protected.Group("/reviews")
			{
				reviews.GET("", controllers.GetWaitingReviews)
				reviews.GET("/approvals", controllers.GetReviewApprovals)
				reviews.GET("/:id", controllers.GetReview)
				reviews.PUT("/:id", controllers.UpdateReview)
			}

			// Peer selection
			peers := protected.Group("/peers")
			{
				peers.GET("/:email", controllers.GetPeers)
				peers.PUT("/:email", controllers.UpdatePeers)
			}

			// Goals
			goals := protected.Group("/goals")
			{
				goals.POST("", controllers.CreateGoal)
				goals.GET("/:id", controllers.GetGoal)
				goals.PUT("/:id", controllers.UpdateGoal)
			}
		}
	}

	// 404 catch-all
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
