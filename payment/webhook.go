package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lms/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnknownEvent     = errors.New("unknown webhook event type")
)

// Webhook event types sent by the payment provider
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// Event is the provider's webhook payload
type Event struct {
	Type string `json:"type"`
	Data struct {
		SessionID        string `json:"session_id"`
		Customer         string `json:"customer"`
		CustomerEmail    string `json:"customer_email"`
		Plan             string `json:"plan"`
		CurrentPeriodEnd int64  `json:"current_period_end"` // unix seconds, 0 for lifetime plans
	} `json:"data"`
}

// VerifySignature checks the provider's HMAC-SHA256 hex signature over the
// raw payload. Constant time compare.
func VerifySignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Processor applies verified webhook events to users and subscriptions
type Processor struct {
	db     *gorm.DB
	secret string
}

func NewProcessor(db *gorm.DB, secret string) *Processor {
	return &Processor{db: db, secret: secret}
}

// Handle verifies the payload signature and applies the event. Nothing is
// written before the signature checks out.
func (p *Processor) Handle(payload []byte, signature string) error {
	if !VerifySignature(payload, signature, p.secret) {
		return ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("invalid webhook payload: %w", err)
	}

	switch event.Type {
	case EventCheckoutCompleted:
		return p.activate(event)
	case EventSubscriptionCancelled:
		return p.cancel(event)
	default:
		return ErrUnknownEvent
	}
}

// activate upgrades the user's plan and records the subscription
func (p *Processor) activate(event Event) error {
	var user models.User
	if err := p.db.Where("email = ? AND is_deleted = ?", event.Data.CustomerEmail, false).First(&user).Error; err != nil {
		return fmt.Errorf("webhook user %s not found: %w", event.Data.CustomerEmail, err)
	}

	var plan models.Plan
	if err := p.db.Where("name = ? AND is_active = ? AND is_deleted = ?", event.Data.Plan, true, false).First(&plan).Error; err != nil {
		return fmt.Errorf("webhook plan %s not found: %w", event.Data.Plan, err)
	}

	var expiresAt *time.Time
	if event.Data.CurrentPeriodEnd > 0 {
		t := time.Unix(event.Data.CurrentPeriodEnd, 0)
		expiresAt = &t
	}

	subscription := models.Subscription{
		UserID:             user.ID,
		PlanName:           plan.Name,
		Status:             models.SubscriptionActive,
		ExpiresAt:          expiresAt,
		ProviderSessionRef: event.Data.SessionID,
		ProviderCustomer:   event.Data.Customer,
	}

	tx := p.db.Begin()
	if err := tx.Create(&subscription).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record subscription: %w", err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("plan", plan.Name).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update user plan: %w", err)
	}
	tx.Commit()

	log.Printf("[PAYMENT] Activated plan %s for user %d", plan.Name, user.ID)
	return nil
}

// cancel marks the subscription cancelled and drops the user back to free
func (p *Processor) cancel(event Event) error {
	var subscription models.Subscription
	if err := p.db.Where("provider_session_ref = ? AND is_deleted = ?", event.Data.SessionID, false).First(&subscription).Error; err != nil {
		return fmt.Errorf("webhook subscription %s not found: %w", event.Data.SessionID, err)
	}

	tx := p.db.Begin()
	if err := tx.Model(&subscription).Update("status", models.SubscriptionCancelled).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", subscription.UserID).Update("plan", "free").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to downgrade user plan: %w", err)
	}
	tx.Commit()

	log.Printf("[PAYMENT] Cancelled subscription %d for user %d", subscription.ID, subscription.UserID)
	return nil
}
