package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	// Certificate rendering assets
	TemplateDir string // background PNGs + fonts for certificate rendering
	UploadDir   string // local asset storage root, served under /uploads

	// Remote media upload provider
	MediaApiURL string
	MediaApiKey string

	// Payment provider (checkout sessions + signed webhooks)
	PaymentApiURL      string
	PaymentApiKey      string
	PaymentWebhookKey  string // shared secret for webhook signature verification
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// Email
	SendgridKey string
	EmailSender string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		TemplateDir: getEnv("CERT_TEMPLATE_DIR", "./templates"),
		UploadDir:   getEnv("UPLOAD_DIR", "./public/uploads"),

		MediaApiURL: getEnv("MEDIA_API_URL", ""),
		MediaApiKey: getEnv("MEDIA_API_KEY", ""),

		PaymentApiURL:      getEnv("PAYMENT_API_URL", "https://api.sandbox.credpay.io/v1/"),
		PaymentApiKey:      getEnv("PAYMENT_API_KEY", "defaultSecret"),
		PaymentWebhookKey:  getEnv("PAYMENT_WEBHOOK_SECRET", "defaultSecret"),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "https://example.com/billing/success"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "https://example.com/billing/cancel"),

		SendgridKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender: getEnv("EMAIL_SENDER", "no-reply@example.com"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PaymentWebhookKey == "defaultSecret" {
		log.Println("Warning: Using default PAYMENT_WEBHOOK_SECRET. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
