package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds every runtime setting, populated from the environment with
// sensible defaults for a local deployment.
type Config struct {
	Port         string
	DatabasePath string
	DataPath     string

	FaceCascadePath string
	EyeCascadePath  string

	MatchTolerance        float64
	MatchThresholdPercent float64

	BatchWorkers        int
	BatchTimeoutSeconds int
	BatchMaxImages      int

	MaxImageSizeBytes int64
	MinImageWidth     int
	MinImageHeight    int
}

// Load reads the configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "./data/facesys.db"),
		DataPath:     getEnvOrDefault("DATA_PATH", "./data"),

		FaceCascadePath: getEnvOrDefault("FACE_CASCADE_PATH", "./cascades/haarcascade_frontalface_default.xml"),
		EyeCascadePath:  getEnvOrDefault("EYE_CASCADE_PATH", "./cascades/haarcascade_eye.xml"),

		MatchTolerance:        getEnvFloatOrDefault("MATCH_TOLERANCE", 0.6),
		MatchThresholdPercent: getEnvFloatOrDefault("MATCH_THRESHOLD_PERCENT", 60.0),

		BatchWorkers:        getEnvIntOrDefault("BATCH_WORKERS", 4),
		BatchTimeoutSeconds: getEnvIntOrDefault("BATCH_TIMEOUT_SECONDS", 300),
		BatchMaxImages:      getEnvIntOrDefault("BATCH_MAX_IMAGES", 50),

		MaxImageSizeBytes: int64(getEnvIntOrDefault("MAX_IMAGE_SIZE_BYTES", 10*1024*1024)),
		MinImageWidth:     getEnvIntOrDefault("MIN_IMAGE_WIDTH", 200),
		MinImageHeight:    getEnvIntOrDefault("MIN_IMAGE_HEIGHT", 200),
	}
	return cfg
}

// MugshotDir is where ingested mugshot images are stored.
func (c *Config) MugshotDir() string {
	return filepath.Join(c.DataPath, "mugshots")
}

// SuspectDir is where uploaded probe images are stored.
func (c *Config) SuspectDir() string {
	return filepath.Join(c.DataPath, "suspects")
}

// BatchTimeout returns the wall-clock budget for one batch run.
func (c *Config) BatchTimeout() time.Duration {
	return time.Duration(c.BatchTimeoutSeconds) * time.Second
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("config: invalid number for %s: %q, using default %g", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
