package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the LMS API.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	EventsChannel          string
	JWTSecret              string
	AuthCookieName         string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	DashboardCacheTTL      time.Duration
	TeacherCacheTTL        time.Duration
	Location               *time.Location
	SubmissionRateLimit    int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UploadsEnabled reports whether Cloudinary credentials are configured.
func (c Config) UploadsEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GEMA LMS API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("events.channel", "lms:events")
	v.SetDefault("auth.cookie_name", "accessToken")
	v.SetDefault("cloudinary.folder", "lms/uploads")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("teacher.cache_ttl", "1m")
	v.SetDefault("timezone", "Local")
	v.SetDefault("rate_limit.submissions", 20)

	dashboardTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	teacherTTL, err := parseDuration(v.GetString("teacher.cache_ttl"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid teacher cache ttl: %w", err)
	}

	location, err := time.LoadLocation(strings.TrimSpace(v.GetString("timezone")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventsChannel:          v.GetString("events.channel"),
		JWTSecret:              v.GetString("jwt.secret"),
		AuthCookieName:         v.GetString("auth.cookie_name"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		DashboardCacheTTL:      dashboardTTL,
		TeacherCacheTTL:        teacherTTL,
		Location:               location,
		SubmissionRateLimit:    v.GetInt("rate_limit.submissions"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SubmissionRateLimit <= 0 {
		cfg.SubmissionRateLimit = 20
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
