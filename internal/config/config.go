package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Remote booking API. Every contact and checkout call resolves against
	// this one origin.
	APIBaseURL string
	APITimeout time.Duration

	// Checkout widget
	BookingAmount       int
	CheckoutScriptURL   string
	CheckoutThemeColor  string
	CheckoutBrandName   string
	CheckoutDescription string
	SuccessDisplayDelay time.Duration
	RedirectCountdown   time.Duration
	CheckoutSessionTTL  time.Duration

	ContactCityPlaceholder string

	// In-flight submission guard
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	InFlightTTL   time.Duration

	// Operator notifications
	EmailProvider     string
	OperatorEmail     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	SESFromEmail string
	SESFromName  string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	ContentFile string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		APITimeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),

		BookingAmount:       getEnvAsInt("BOOKING_AMOUNT", 999),
		CheckoutScriptURL:   getEnv("CHECKOUT_SCRIPT_URL", "https://checkout.razorpay.com/v1/checkout.js"),
		CheckoutThemeColor:  getEnv("CHECKOUT_THEME_COLOR", "#803F98"),
		CheckoutBrandName:   getEnv("CHECKOUT_BRAND_NAME", "Predicto"),
		CheckoutDescription: getEnv("CHECKOUT_DESCRIPTION", "NEET Counseling Consultation"),
		SuccessDisplayDelay: getEnvAsDuration("SUCCESS_DISPLAY_DELAY", 2*time.Second),
		RedirectCountdown:   getEnvAsDuration("REDIRECT_COUNTDOWN", 5*time.Second),
		CheckoutSessionTTL:  getEnvAsDuration("CHECKOUT_SESSION_TTL", 30*time.Minute),

		ContactCityPlaceholder: getEnv("CONTACT_CITY_PLACEHOLDER", "NA"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		InFlightTTL:   getEnvAsDuration("INFLIGHT_TTL", 30*time.Second),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "none"))),
		OperatorEmail:     getEnv("OPERATOR_EMAIL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Predicto"),

		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Predicto"),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		ContentFile: getEnv("CONTENT_FILE", ""),
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
