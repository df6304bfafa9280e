package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "whsec_test_123"

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Plan{}, &models.Subscription{}))
	return db
}

func seedUserAndPlan(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{Name: "Jane Learner", Email: "jane@example.com", Password: "x", Plan: "free"}
	require.NoError(t, db.Create(&user).Error)

	plan := models.Plan{Name: "premium_monthly", Tier: "PREMIUM", Price: 1999, BillingInterval: "month", IsActive: true}
	require.NoError(t, db.Create(&plan).Error)
	return user
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)

	assert.True(t, VerifySignature(payload, sign(payload, testSecret), testSecret))
	assert.False(t, VerifySignature(payload, sign(payload, "wrong_secret"), testSecret))
	assert.False(t, VerifySignature(payload, "deadbeef", testSecret))
	assert.False(t, VerifySignature(payload, "", testSecret))
}

func TestHandleRejectsBadSignatureBeforeAnyWrite(t *testing.T) {
	db := setupDB(t)
	seedUserAndPlan(t, db)
	processor := NewProcessor(db, testSecret)

	payload := []byte(`{"type":"checkout.session.completed","data":{"session_id":"sess_1","customer_email":"jane@example.com","plan":"premium_monthly"}}`)

	err := processor.Handle(payload, sign(payload, "wrong_secret"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	var count int64
	db.Model(&models.Subscription{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, "free", user.Plan)
}

func TestHandleCheckoutCompletedActivatesPlan(t *testing.T) {
	db := setupDB(t)
	seedUserAndPlan(t, db)
	processor := NewProcessor(db, testSecret)

	raw := []byte(`{"type":"checkout.session.completed","data":{"session_id":"sess_1","customer":"cus_42","customer_email":"jane@example.com","plan":"premium_monthly","current_period_end":1790000000}}`)

	require.NoError(t, processor.Handle(raw, sign(raw, testSecret)))

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, "premium_monthly", user.Plan)

	var subscription models.Subscription
	require.NoError(t, db.Where("provider_session_ref = ?", "sess_1").First(&subscription).Error)
	assert.Equal(t, models.SubscriptionActive, subscription.Status)
	assert.Equal(t, "cus_42", subscription.ProviderCustomer)
	require.NotNil(t, subscription.ExpiresAt)
	assert.Equal(t, int64(1790000000), subscription.ExpiresAt.Unix())
}

func TestHandleCancellationDowngradesUser(t *testing.T) {
	db := setupDB(t)
	seedUserAndPlan(t, db)
	processor := NewProcessor(db, testSecret)

	activate := []byte(`{"type":"checkout.session.completed","data":{"session_id":"sess_1","customer":"cus_42","customer_email":"jane@example.com","plan":"premium_monthly","current_period_end":1790000000}}`)
	require.NoError(t, processor.Handle(activate, sign(activate, testSecret)))

	cancel := []byte(`{"type":"subscription.cancelled","data":{"session_id":"sess_1"}}`)
	require.NoError(t, processor.Handle(cancel, sign(cancel, testSecret)))

	var user models.User
	require.NoError(t, db.Where("email = ?", "jane@example.com").First(&user).Error)
	assert.Equal(t, "free", user.Plan)

	var subscription models.Subscription
	require.NoError(t, db.Where("provider_session_ref = ?", "sess_1").First(&subscription).Error)
	assert.Equal(t, models.SubscriptionCancelled, subscription.Status)
}

func TestHandleUnknownEventType(t *testing.T) {
	db := setupDB(t)
	processor := NewProcessor(db, testSecret)

	payload := []byte(`{"type":"invoice.paid","data":{}}`)
	err := processor.Handle(payload, sign(payload, testSecret))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestHandleLifetimePlanHasNoExpiry(t *testing.T) {
	db := setupDB(t)
	user := models.User{Name: "Sam", Email: "sam@example.com", Password: "x", Plan: "free"}
	require.NoError(t, db.Create(&user).Error)
	plan := models.Plan{Name: "lifetime", Tier: "ELITE", Price: 49900, BillingInterval: "once", IsActive: true}
	require.NoError(t, db.Create(&plan).Error)

	processor := NewProcessor(db, testSecret)
	payload := []byte(`{"type":"checkout.session.completed","data":{"session_id":"sess_2","customer_email":"sam@example.com","plan":"lifetime","current_period_end":0}}`)
	require.NoError(t, processor.Handle(payload, sign(payload, testSecret)))

	var subscription models.Subscription
	require.NoError(t, db.Where("provider_session_ref = ?", "sess_2").First(&subscription).Error)
	assert.Nil(t, subscription.ExpiresAt)
}
