package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort        string
	ServiceApiPort string
	AllowedOrigins []string

	// Admin panel credentials. The password is a bcrypt hash; there is no default.
	AdminEmail        string
	AdminPasswordHash string

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string
	EmailLogFile    string // when set, every outgoing message is also appended here
	EmailCapture    bool   // keep a copy of outgoing messages in Redis (tests, staging)

	// Image hosting
	ImageHost              string // "cloudinary" or "s3"
	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	CloudinaryUploadURL    string
	ImageMaxDimension      int
	ImageMaxSizeMB         int
	MaxImagesPerUpload     int

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseS3URL     string

	// Marketplace defaults
	AppName          string
	RegionName       string
	DefaultLanguage  string
	DefaultCurrency  string
	DailyUserAdLimit int
	MinPasswordLen   int

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists || value == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return v, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "sales")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "12345")
	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "*"))

	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", "")

	cfg.SmtpHost = getEnv("SMTP_HOST", "")
	cfg.SmtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "noreply@sales.example.com")
	cfg.EmailLogFile = getEnv("EMAIL_LOG_FILE", "")
	if cfg.EmailCapture, err = strconv.ParseBool(getEnv("EMAIL_CAPTURE", "false")); err != nil {
		return nil, fmt.Errorf("invalid EMAIL_CAPTURE: %w", err)
	}

	cfg.ImageHost = strings.ToLower(getEnv("IMAGE_HOST", "cloudinary"))
	cfg.CloudinaryCloudName = getEnv("CLOUDINARY_CLOUD_NAME", "")
	cfg.CloudinaryUploadPreset = getEnv("CLOUDINARY_UPLOAD_PRESET", "")
	cfg.CloudinaryUploadURL = getEnv("CLOUDINARY_UPLOAD_URL", "https://api.cloudinary.com/v1_1")

	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseS3URL = getEnv("IMAGE_BASE_S3_URL", "")

	cfg.AppName = getEnv("APP_NAME", "Sales")
	cfg.RegionName = getEnv("REGION_NAME", "Mersin")
	cfg.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", "ru")
	cfg.DefaultCurrency = getEnv("DEFAULT_CURRENCY", "TRY")

	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	jwtTTLSeconds, err := strconv.ParseInt(getEnv("JWT_TTL_SECONDS", "86400"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS: %w", err)
	}
	cfg.JwtTTL = time.Duration(jwtTTLSeconds) * time.Second

	if cfg.SmtpPort, err = getInt("SMTP_PORT", "587"); err != nil {
		return nil, err
	}
	if cfg.ImageMaxDimension, err = getInt("IMAGE_MAX_DIMENSION", "2048"); err != nil {
		return nil, err
	}
	if cfg.ImageMaxSizeMB, err = getInt("IMAGE_MAX_SIZE_MB", "10"); err != nil {
		return nil, err
	}
	if cfg.MaxImagesPerUpload, err = getInt("MAX_IMAGES_PER_UPLOAD", "10"); err != nil {
		return nil, err
	}
	if cfg.DailyUserAdLimit, err = getInt("DAILY_USER_AD_LIMIT", "0"); err != nil {
		return nil, err
	}
	if cfg.MinPasswordLen, err = getInt("MIN_PASSWORD_LENGTH", "6"); err != nil {
		return nil, err
	}

	if cfg.RateLimitBucketSize, err = getInt("RATE_LIMIT_BUCKET_SIZE", "20"); err != nil {
		return nil, err
	}
	if cfg.RateLimitRefillRate, err = getInt("RATE_LIMIT_REFILL_RATE", "5"); err != nil {
		return nil, err
	}

	switch cfg.ImageHost {
	case "cloudinary", "s3":
	default:
		return nil, fmt.Errorf("invalid IMAGE_HOST: %q (expected cloudinary or s3)", cfg.ImageHost)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
