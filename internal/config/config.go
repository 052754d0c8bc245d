package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Google      GoogleConfig
	Registry    RegistryConfig
	Services    ServicesConfig
	Upload      UploadConfig
	AWS         AWSConfig
}

type ServerConfig struct {
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey string
	TokenTTL  int // in hours
}

type GoogleConfig struct {
	ClientID string
}

type RegistryConfig struct {
	Port          string
	URL           string
	ClientTimeout int // in seconds, applies to all cross-service calls
}

// ServicesConfig carries the port each service listens on and the URL it
// advertises when registering itself (and which seeds the registry defaults).
type ServicesConfig struct {
	AuthPort    string
	UserPort    string
	ProductPort string
	CartPort    string
	OrderPort   string

	AuthURL    string
	UserURL    string
	ProductURL string
	CartURL    string
	OrderURL   string
}

type UploadConfig struct {
	Dir       string
	MaxSizeMB int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	authPort := getEnv("AUTH_SERVICE_PORT", "5001")
	userPort := getEnv("USER_SERVICE_PORT", "5002")
	productPort := getEnv("PRODUCT_SERVICE_PORT", "5003")
	cartPort := getEnv("CART_SERVICE_PORT", "5004")
	orderPort := getEnv("ORDER_SERVICE_PORT", "5005")

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			TokenTTL:  getEnvAsInt("JWT_EXPIRES_IN_HOURS", 24),
		},
		Google: GoogleConfig{
			ClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Registry: RegistryConfig{
			Port:          getEnv("REGISTRY_PORT", "5000"),
			URL:           getEnv("REGISTRY_URL", "http://localhost:5000"),
			ClientTimeout: getEnvAsInt("SERVICE_CLIENT_TIMEOUT", 10),
		},
		Services: ServicesConfig{
			AuthPort:    authPort,
			UserPort:    userPort,
			ProductPort: productPort,
			CartPort:    cartPort,
			OrderPort:   orderPort,
			AuthURL:     getEnv("AUTH_SERVICE_URL", "http://localhost:"+authPort),
			UserURL:     getEnv("USER_SERVICE_URL", "http://localhost:"+userPort),
			ProductURL:  getEnv("PRODUCT_SERVICE_URL", "http://localhost:"+productPort),
			CartURL:     getEnv("CART_SERVICE_URL", "http://localhost:"+cartPort),
			OrderURL:    getEnv("ORDER_SERVICE_URL", "http://localhost:"+orderPort),
		},
		Upload: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", "./uploads"),
			MaxSizeMB: getEnvAsInt("UPLOAD_MAX_SIZE_MB", 5),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "storefront-assets"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	return nil
}

// DatabaseFor returns the database config for a single service. Each service
// owns its own database, overridable via <SERVICE>_DB_NAME.
func (c *Config) DatabaseFor(service string) DatabaseConfig {
	db := c.Database
	envKey := strings.ToUpper(service) + "_DB_NAME"
	db.Database = getEnv(envKey, "storefront_"+strings.ToLower(service))
	return db
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
