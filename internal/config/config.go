package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes application configuration to the rest of the system.
// Using an interface keeps consumers decoupled from how values are loaded,
// which matters for tests and for future config sources.
type Provider interface {
	GetAddr() string
	GetDBUrl() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string

	// GetTypingTTL is how long a user counts as typing without a refresh.
	GetTypingTTL() time.Duration
	// GetRestoreWindow is how long after deletion a message may be restored.
	GetRestoreWindow() time.Duration
}

// Config holds all configuration for the application, loaded from the
// environment.
type Config struct {
	Addr          string
	DBUrl         string
	DBNs          string
	DBDb          string
	DBUser        string
	DBPass        string
	TypingTTL     time.Duration
	RestoreWindow time.Duration
}

const (
	// DefaultTypingTTL matches the client-side debounce interval.
	DefaultTypingTTL = 2 * time.Second

	// DefaultRestoreWindow is the fixed interval during which a deleted
	// message can still be restored.
	DefaultRestoreWindow = 15 * time.Minute
)

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:          getEnv("APP_ADDR", ":8080"),
		DBUrl:         os.Getenv("SURREAL_URL"),
		DBUser:        os.Getenv("SURREAL_USER"),
		DBPass:        os.Getenv("SURREAL_PASS"),
		DBNs:          os.Getenv("SURREAL_NS"),
		DBDb:          os.Getenv("SURREAL_DB"),
		TypingTTL:     getDuration("TYPING_TTL", DefaultTypingTTL),
		RestoreWindow: getDuration("RESTORE_WINDOW", DefaultRestoreWindow),
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using default %s", key, v, fallback)
		return fallback
	}
	return d
}

func (c *Config) GetAddr() string                 { return c.Addr }
func (c *Config) GetDBUrl() string                { return c.DBUrl }
func (c *Config) GetDBNs() string                 { return c.DBNs }
func (c *Config) GetDBDb() string                 { return c.DBDb }
func (c *Config) GetDBUser() string               { return c.DBUser }
func (c *Config) GetDBPass() string               { return c.DBPass }
func (c *Config) GetTypingTTL() time.Duration     { return c.TypingTTL }
func (c *Config) GetRestoreWindow() time.Duration { return c.RestoreWindow }
