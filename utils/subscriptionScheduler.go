package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeSubscriptionScheduler sets up the subscription expiry scheduler
func InitializeSubscriptionScheduler() {
	log.Println("[SUBSCRIPTION-SCHEDULER] Initializing subscription scheduler...")

	c := cron.New()

	// Run daily at 9 AM to check expiring subscriptions
	c.AddFunc("0 9 * * *", func() {
		log.Println("[SUBSCRIPTION-SCHEDULER] Running daily subscription check...")
		ProcessExpiringSubscriptions()
		ExpireSubscriptions()
	})

	c.Start()
	log.Println("[SUBSCRIPTION-SCHEDULER] Subscription scheduler started - runs daily at 9 AM")
}

// ProcessExpiringSubscriptions sends reminder emails for subscriptions expiring in 2 days
func ProcessExpiringSubscriptions() {
	db := database.Database.Db
	now := time.Now()
	twoDaysFromNow := now.AddDate(0, 0, 2)

	// Find subscriptions expiring in ~2 days that haven't received a reminder
	var expiring []models.Subscription
	if err := db.
		Where("status = ? AND reminder_sent = false AND expires_at IS NOT NULL", models.SubscriptionActive).
		Where("expires_at BETWEEN ? AND ?", now, twoDaysFromNow).
		Find(&expiring).Error; err != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching expiring subscriptions: %v", err)
		return
	}

	log.Printf("[SUBSCRIPTION-SCHEDULER] Found %d subscriptions expiring soon", len(expiring))

	for _, sub := range expiring {
		var user models.User
		if err := db.Where("id = ?", sub.UserID).First(&user).Error; err != nil {
			log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching user %d: %v", sub.UserID, err)
			continue
		}

		expiryStr := "soon"
		if sub.ExpiresAt != nil {
			expiryStr = sub.ExpiresAt.Format("January 2, 2006")
		}
		go SendSubscriptionExpiryReminder(user.Email, user.Name, sub.PlanName, expiryStr)

		// Mark reminder as sent
		db.Model(&sub).Update("reminder_sent", true)
		log.Printf("[SUBSCRIPTION-SCHEDULER] Sent expiry reminder for subscription %d to %s", sub.ID, user.Email)
	}
}

// ExpireSubscriptions marks expired subscriptions as EXPIRED and downgrades
// the affected users to the free plan
func ExpireSubscriptions() {
	db := database.Database.Db
	now := time.Now()

	var expired []models.Subscription
	if err := db.
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.SubscriptionActive, now).
		Find(&expired).Error; err != nil {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Error fetching expired subscriptions: %v", err)
		return
	}

	for _, sub := range expired {
		if err := db.Model(&sub).Update("status", models.SubscriptionExpired).Error; err != nil {
			log.Printf("[SUBSCRIPTION-SCHEDULER] Error expiring subscription %d: %v", sub.ID, err)
			continue
		}

		var user models.User
		if err := db.Where("id = ?", sub.UserID).First(&user).Error; err != nil {
			continue
		}

		db.Model(&user).Update("plan", "free")
		go SendSubscriptionExpiredEmail(user.Email, user.Name, sub.PlanName)
	}

	if len(expired) > 0 {
		log.Printf("[SUBSCRIPTION-SCHEDULER] Expired %d subscriptions", len(expired))
	}
}
