package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"navippon/db"
	"navippon/models"
	"navippon/rdx"
	"navippon/utils"
)

const notificationChannel = "notification-events"

// Event is a notification to be fanned out to a user.
type Event struct {
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// Emit publishes a notification event to redis. Failures are logged and
// dropped; notifications are best-effort.
func Emit(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, notificationChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartNotificationWorker subscribes to notification events and persists
// them for the notifications API. Run in its own goroutine.
func StartNotificationWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, notificationChannel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for notification events...")

	for msg := range ch {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[NotificationWorker] Failed to parse event: %v", err)
			continue
		}

		notification := models.Notification{
			NotificationID: utils.GetUUID(),
			UserID:         event.UserID,
			Type:           event.Type,
			Message:        event.Message,
			Link:           event.Link,
			Read:           false,
			CreatedAt:      time.Now(),
		}

		if _, err := db.NotificationsCollection.InsertOne(ctx, notification); err != nil {
			log.Printf("[NotificationWorker] Insert error: %v", err)
		}
	}
}
