package notify

import (
	"context"
	"fmt"

	"internportal/config"
	"internportal/logutils"
	"internportal/model"

	"firebase.google.com/go/messaging"
	"gorm.io/gorm"
)

// PushToUser sends a push notification to every device token registered for
// a user. Best-effort like the email path.
func PushToUser(db *gorm.DB, userID uint, title, body string) error {
	if config.FirebaseApp == nil {
		return fmt.Errorf("firebase not initialized")
	}

	var tokens []model.DeviceToken
	if err := db.Where("user_id = ?", userID).Find(&tokens).Error; err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	client, err := config.FirebaseApp.Messaging(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get Firebase Messaging client: %w", err)
	}

	for _, t := range tokens {
		message := &messaging.Message{
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Token: t.Token,
		}
		if _, err := client.Send(context.Background(), message); err != nil {
			logutils.Log.WithError(err).WithFields(logutils.Fields{
				"user_id": userID,
			}).Warn("Failed to send push notification")
		}
	}
	return nil
}
