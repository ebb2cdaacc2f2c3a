package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"performance-review-api/config"
	"performance-review-api/services"
	"performance-review-api/utils"
)

// send-email dispatches a templated mail-out:
//
//	send-email --template=welcome --email=foo@example.com
//	send-email --template=request_feedback --suitable --deadline=2018-06-01
func main() {
	templateKind := flag.String("template", "", "template to send: welcome | request_feedback")
	email := flag.String("email", "", "single recipient address")
	suitable := flag.Bool("suitable", false, "send to everybody eligible for the template")
	department := flag.String("department", "", "restrict --suitable to one department")
	deadline := flag.String("deadline", "", "deadline shown in the email, YYYY-MM-DD (default now+2d)")
	flag.Parse()

	if *templateKind == "" {
		log.Fatal("Specify which template to send, supported are: [welcome, request_feedback].")
	}
	if *email == "" && !*suitable {
		log.Fatal("Specify recipient email, e.g. --email=user@example.com, or send to everybody via --suitable")
	}
	if *email != "" && !utils.ValidateEmail(*email) {
		log.Fatalf("Invalid --email %q", *email)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	config.InitDB()

	opts := services.SendOptions{
		Email:      *email,
		Suitable:   *suitable,
		Department: *department,
	}
	if *deadline != "" {
		parsed, err := time.Parse("2006-01-02", *deadline)
		if err != nil {
			log.Fatalf("Invalid --deadline %q: %v", *deadline, err)
		}
		opts.Deadline = parsed
	}

	store := services.NewStore(config.DB)
	interval, err := services.NewIntervalService(store).Current()
	if err != nil {
		log.Fatalf("Cannot resolve current interval: %v", err)
	}

	campaign := services.NewCampaignService(store, services.SMTPMailer{}, services.NewAuditLogger(store))
	sent, err := campaign.Send(*templateKind, interval, opts)
	if err != nil {
		log.Fatalf("Mail-out failed: %v", err)
	}
	for _, addr := range sent {
		fmt.Fprintf(os.Stdout, "Sent %s to %s\n", *templateKind, addr)
	}
}
