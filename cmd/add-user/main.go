// Provisioning tool: creates or updates a user account from the command
// line, hashing the password with bcrypt. Meant for bootstrapping and for
// onboarding before the HR import exists.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"performance-review-api/config"
	"performance-review-api/models"
	"performance-review-api/utils"
)

func main() {
	email := flag.String("email", "", "user email (required)")
	password := flag.String("password", "", "initial password (required on create)")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	jobTitle := flag.String("job-title", "", "job title for the org tree")
	managerEmail := flag.String("manager", "", "manager's email, empty for a root account")
	staff := flag.Bool("staff", false, "grant elevated (HR) permissions")
	notReviewable := flag.Bool("not-reviewable", false, "exclude from the review cycle")
	flag.Parse()

	if *email == "" || !utils.ValidateEmail(*email) {
		fmt.Fprintln(os.Stderr, "a valid --email is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.InitLogging()
	config.InitDB()

	var user models.User
	err := config.DB.Where("email = ?", *email).First(&user).Error
	creating := false
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		creating = true
		if *password == "" {
			log.Fatal("--password is required when creating a user")
		}
		user = models.User{Email: *email, IsActive: true, IsReviewable: true}
	default:
		log.Fatal("Failed to look up user:", err)
	}

	if *password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		user.Password = string(hashed)
	}
	if *firstName != "" {
		user.FirstName = *firstName
	}
	if *lastName != "" {
		user.LastName = *lastName
	}
	if *jobTitle != "" {
		user.JobTitle = jobTitle
	}
	if *managerEmail != "" {
		var manager models.User
		if err := config.DB.Where("email = ?", *managerEmail).First(&manager).Error; err != nil {
			log.Fatalf("Manager %s not found: %v", *managerEmail, err)
		}
		user.ManagerID = &manager.UserID
	}
	user.IsStaff = *staff
	user.IsReviewable = !*notReviewable

	if err := config.DB.Save(&user).Error; err != nil {
		log.Fatal("Failed to save user:", err)
	}
	if creating {
		fmt.Printf("Created user %s (id=%d)\n", user.Email, user.UserID)
	} else {
		fmt.Printf("Updated user %s (id=%d)\n", user.Email, user.UserID)
	}
}
