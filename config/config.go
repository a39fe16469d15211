package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// MinSessionSecretLength is the minimum required length for session secret in production
	MinSessionSecretLength = 32
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	// Admin login (the admin role has no account row; credentials come from the environment)
	AdminEmail    string
	AdminPassword string
	// Other
	AllowedOrigins []string
	AppURL         string
	SessionSecret  string
	// Backblaze B2 native API (query-file upload proxy)
	B2KeyID      string
	B2AppKey     string
	B2BucketID   string
	B2BucketName string
	// Backblaze B2 S3-compatible endpoint (signed download URLs)
	B2S3Endpoint string
	B2Region     string
	B2S3KeyID    string
	B2S3AppKey   string
	B2PublicURL  string
	// Cloudinary (signed image uploads)
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")

	// Validate session secret - this will fatal in production if invalid
	ValidateSessionSecret(sessionSecret, environment)

	// In development, generate a secure secret if none provided
	if sessionSecret == "" && environment != "production" {
		sessionSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary session secret for development. Set SESSION_SECRET env var for persistence.")
	}

	adminPassword := getEnv("ADMIN_PASSWORD", "")
	if adminPassword == "" {
		if environment == "production" {
			log.Fatal("[CRITICAL] ADMIN_PASSWORD must be set in production")
		}
		adminPassword = "admin123"
		log.Println("[WARNING] ADMIN_PASSWORD not set, using development default")
	}

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DBPath:              getEnv("DB_PATH", "db/app.db"),
		Environment:         environment,
		UploadDir:           getEnv("UPLOAD_DIR", "static/uploads"),
		AdminEmail:          getEnv("ADMIN_EMAIL", "admin@advocateoffice.local"),
		AdminPassword:       adminPassword,
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:              getEnv("APP_URL", "http://localhost:8080"),
		SessionSecret:       sessionSecret,
		B2KeyID:             getEnv("BACKBLAZE_KEY_ID", ""),
		B2AppKey:            getEnv("BACKBLAZE_APPLICATION_KEY", ""),
		B2BucketID:          getEnv("BACKBLAZE_BUCKET_ID", ""),
		B2BucketName:        getEnv("BACKBLAZE_BUCKET_NAME", ""),
		B2S3Endpoint:        getEnv("BACKBLAZE_S3_ENDPOINT", ""),
		B2Region:            getEnv("BACKBLAZE_REGION", "us-west-004"),
		B2S3KeyID:           getEnv("BACKBLAZE_S3_KEY_ID", ""),
		B2S3AppKey:          getEnv("BACKBLAZE_S3_APPLICATION_KEY", ""),
		B2PublicURL:         getEnv("BACKBLAZE_PUBLIC_URL", ""),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "attendance"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// ValidateSessionSecret validates the session secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateSessionSecret(secret string, environment string) error {
	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SESSION_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] SESSION_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" {
		if len(secret) < MinSessionSecretLength {
			log.Fatalf("[CRITICAL] SESSION_SECRET must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinSessionSecretLength, len(secret))
		}
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
