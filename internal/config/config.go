package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Storage driver names accepted by STORAGE_DRIVER.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                 string
	StorageDriver        string
	MongoURI             string
	MongoDatabase        string
	PingCollection       string
	SessionCollection    string
	ReportCollection     string
	RobotStatsCollection string
	Timeout              time.Duration
	Timezone             string
	ServerLog            *log.Logger
	JWTConfigs           []JWTConfig
	JWTAudience          string
	AllowedOrigins       []string
	MediaBaseURL         string
	CatalogPath          string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	storageDriver := strings.ToLower(envOrDefault("STORAGE_DRIVER", StorageMongo))
	if storageDriver != StorageMongo && storageDriver != StorageMemory {
		log.Fatalf("unknown STORAGE_DRIVER %q: use %q or %q", storageDriver, StorageMongo, StorageMemory)
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_TECHNICIAN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_TECHNICIAN_JWT_ISSUER", "ctrl-maintenance-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_ADMIN_JWT_ISSUER", "ctrl-admin-auth"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_TECHNICIAN_JWT_SECRET or AUTH_ADMIN_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                 envOrDefault("HTTP_ADDR", ":8080"),
		StorageDriver:        storageDriver,
		MongoURI:             envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        envOrDefault("MONGO_DB", "ctrl-maintenance"),
		PingCollection:       envOrDefault("PING_COLLECTION", "pings"),
		SessionCollection:    envOrDefault("SESSION_COLLECTION", "sessions"),
		ReportCollection:     envOrDefault("REPORT_COLLECTION", "reports"),
		RobotStatsCollection: envOrDefault("ROBOT_STATS_COLLECTION", "robot_stats"),
		Timeout:              timeout,
		Timezone:             envOrDefault("TIMEZONE", "UTC"),
		ServerLog:            log.New(os.Stdout, "[maintenance-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:           jwtConfigs,
		JWTAudience:          jwtAudience,
		AllowedOrigins:       parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		MediaBaseURL:         strings.TrimSpace(os.Getenv("MEDIA_BASE_URL")),
		CatalogPath:          strings.TrimSpace(os.Getenv("CATALOG_PATH")),
	}

	cfg.ServerLog.Printf("loaded config: storage=%q mongoDB=%q catalogPath=%q", storageDriver, cfg.MongoDatabase, cfg.CatalogPath)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
