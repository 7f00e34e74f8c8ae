package config

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// FirebaseApp is the shared Firebase app instance used for push delivery.
// It stays nil when no credential file is configured; callers must check.
var FirebaseApp *firebase.App

// InitializeFirebase initializes the Firebase app from the credential file
// named by FIREBASE_CREDENTIALS. Push notifications are optional, so a
// missing file only logs a warning.
func InitializeFirebase() {
	credFile := os.Getenv("FIREBASE_CREDENTIALS")
	if credFile == "" {
		credFile = "config/service-account.json"
	}

	if _, err := os.Stat(credFile); err != nil {
		log.Println("Firebase credentials not found, push notifications disabled")
		return
	}

	opt := option.WithCredentialsFile(credFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("Failed to initialize Firebase: %v", err)
		return
	}

	FirebaseApp = app
	log.Println("Firebase initialized successfully!")
}
