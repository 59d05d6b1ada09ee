package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"

	IdentityFirebase = "firebase"
	IdentityLocal    = "local"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Geofence GeofenceConfig
	Store    StoreConfig
	Firebase FirebaseConfig
	Identity IdentityConfig
	Admin    AdminSeedConfig
	Jobs     JobsConfig
	Reports  ReportsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowSignup    bool
	AllowedOrigins []string
}

// GeofenceConfig is the worksite the employees mark attendance at.
type GeofenceConfig struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type StoreConfig struct {
	Driver string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
	WebAPIKey       string
}

type IdentityConfig struct {
	Provider string
}

// AdminSeedConfig describes the administrator created on startup when absent.
type AdminSeedConfig struct {
	Name     string
	Email    string
	Password string
}

type JobsConfig struct {
	Enabled           bool
	ReconcileInterval time.Duration
}

// ReportsConfig points at an optional TrueType font for PDF exports.
// When empty, PDFs use the core Arial font and are limited to cp1252.
type ReportsConfig struct {
	FontPath string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "pump_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	allowSignup, err := strconv.ParseBool(getEnv("ALLOW_SIGNUP", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOW_SIGNUP: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		AllowSignup:    allowSignup,
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Geofence configuration
	config.Geofence.Latitude, err = getEnvFloat("GEOFENCE_LATITUDE", 21.8704003)
	if err != nil {
		return nil, err
	}
	config.Geofence.Longitude, err = getEnvFloat("GEOFENCE_LONGITUDE", 73.5024621)
	if err != nil {
		return nil, err
	}
	config.Geofence.RadiusMeters, err = getEnvFloat("GEOFENCE_RADIUS_METERS", 100)
	if err != nil {
		return nil, err
	}

	config.Store = StoreConfig{
		Driver: getEnv("STORE_DRIVER", StoreFirestore),
	}

	config.Firebase = FirebaseConfig{
		ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		CredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
	}

	// Firestore deployments authenticate against Firebase unless told otherwise
	defaultProvider := IdentityLocal
	if config.Store.Driver == StoreFirestore {
		defaultProvider = IdentityFirebase
	}
	config.Identity = IdentityConfig{
		Provider: getEnv("IDENTITY_PROVIDER", defaultProvider),
	}

	config.Admin = AdminSeedConfig{
		Name:     getEnv("ADMIN_NAME", "Administrator"),
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}

	jobsEnabled, err := strconv.ParseBool(getEnv("JOBS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOBS_ENABLED: %w", err)
	}
	reconcileInterval, err := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_INTERVAL: %w", err)
	}
	config.Jobs = JobsConfig{
		Enabled:           jobsEnabled,
		ReconcileInterval: reconcileInterval,
	}

	config.Reports = ReportsConfig{
		FontPath: getEnv("REPORT_FONT_PATH", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	if c.Geofence.Latitude < -90 || c.Geofence.Latitude > 90 {
		return fmt.Errorf("GEOFENCE_LATITUDE must be between -90 and 90")
	}
	if c.Geofence.Longitude < -180 || c.Geofence.Longitude > 180 {
		return fmt.Errorf("GEOFENCE_LONGITUDE must be between -180 and 180")
	}
	if c.Geofence.RadiusMeters <= 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_METERS must be positive")
	}

	switch c.Store.Driver {
	case StoreFirestore:
		if c.Firebase.ProjectID == "" && c.Firebase.CredentialsFile == "" && c.Firebase.CredentialsJSON == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID or Firebase credentials are required for the firestore driver")
		}
	case StorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.Store.Driver)
	}

	switch c.Identity.Provider {
	case IdentityFirebase:
		if c.Firebase.WebAPIKey == "" {
			return fmt.Errorf("FIREBASE_WEB_API_KEY is required for the firebase identity provider")
		}
	case IdentityLocal:
		if c.Store.Driver == StoreFirestore {
			return fmt.Errorf("the local identity provider needs the postgres or memory driver")
		}
	default:
		return fmt.Errorf("unsupported IDENTITY_PROVIDER: %s", c.Identity.Provider)
	}

	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if c.Reports.FontPath != "" {
		if _, err := os.Stat(c.Reports.FontPath); err != nil {
			return fmt.Errorf("invalid REPORT_FONT_PATH: %w", err)
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the worksite time zone. Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
