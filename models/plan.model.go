package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan is a purchasable subscription plan. Tier gates which certificate
// templates a subscriber can earn.
type Plan struct {
	gorm.Model
	Name             string  `json:"name" gorm:"unique;not null"` // free, premium_monthly, elite_yearly ...
	Tier             string  `json:"tier" gorm:"default:'BASIC'"` // BASIC, PREMIUM, ELITE
	Price            float64 `json:"price" gorm:"default:0"`
	BillingInterval  string  `json:"billing_interval" gorm:"default:'monthly'"` // monthly, yearly, lifetime
	ProviderPriceRef string  `json:"provider_price_ref"`                        // payment provider price id
	IsActive         bool    `json:"is_active" gorm:"default:true"`
	IsDeleted        bool    `gorm:"default:false"`
}

// Subscription statuses
const (
	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionCancelled = "CANCELLED"
)

// Subscription tracks a user's paid access to a plan
type Subscription struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"index;not null"`
	PlanName           string     `json:"plan_name" gorm:"not null"`
	Status             string     `json:"status" gorm:"default:'ACTIVE'"`
	ExpiresAt          *time.Time `json:"expires_at"`
	ReminderSent       bool       `json:"reminder_sent" gorm:"default:false"`
	ProviderSessionRef string     `json:"provider_session_ref"`
	ProviderCustomer   string     `json:"provider_customer"`
	IsDeleted          bool       `gorm:"default:false"`
}
