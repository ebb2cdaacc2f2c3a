package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"performance-review-api/config"
	"performance-review-api/services"
)

// org-tree prints the reporting hierarchy of active users, one root per
// boss, with an [X] prefix for people who sit out the review.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	config.InitDB()

	users, err := services.NewStore(config.DB).ActiveUsers()
	if err != nil {
		log.Fatalf("Cannot load users: %v", err)
	}

	fmt.Print(services.RenderPeopleTree(services.BuildPeopleTree(users)))
}
