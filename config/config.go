package config

import "os"

type Config struct {
	Port    string
	GinMode string

	MongoURI  string
	MongoName string

	// AdminEmailDomain is the organizational suffix required to select the
	// admin role.
	AdminEmailDomain string

	// PaymentAmount is the flat registration fee forwarded to the gateway.
	PaymentAmount string

	BkashBaseURL   string
	BkashUsername  string
	BkashPassword  string
	BkashAppKey    string
	BkashAppSecret string
}

func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		MongoURI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoName: getEnv("MONGODB_NAME", "ucomp"),

		AdminEmailDomain: getEnv("ADMIN_EMAIL_DOMAIN", "@student.ndub.edu.bd"),

		PaymentAmount: getEnv("PAYMENT_AMOUNT", "1"),

		BkashBaseURL:   getEnv("BKASH_BASE_URL", "https://tokenized.sandbox.bka.sh/v1.2.0-beta"),
		BkashUsername:  getEnv("BKASH_USERNAME", ""),
		BkashPassword:  getEnv("BKASH_PASSWORD", ""),
		BkashAppKey:    getEnv("BKASH_APP_KEY", ""),
		BkashAppSecret: getEnv("BKASH_APP_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
