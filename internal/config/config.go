package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Video      VideoConfig
	Annotation AnnotationConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type VideoConfig struct {
	UploadDir       string
	MaxUploadSizeMB int
}

type AnnotationConfig struct {
	// StagingTTL is how long an untouched staging entry survives before the
	// purge loop evicts it.
	StagingTTL   time.Duration
	StagingPurge time.Duration

	// ProbeOnCreate controls whether saving over a missing sidecar probes the
	// video file for real metadata or trusts the caller-supplied info block.
	ProbeOnCreate bool
	FFProbePath   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Video: VideoConfig{
			UploadDir:       getEnv("VIDEO_UPLOAD_DIR", "uploaded_videos"),
			MaxUploadSizeMB: getEnvAsInt("MAX_UPLOAD_SIZE_MB", 1024),
		},
		Annotation: AnnotationConfig{
			StagingTTL:    time.Duration(getEnvAsInt("STAGING_TTL_MINUTES", 60)) * time.Minute,
			StagingPurge:  time.Duration(getEnvAsInt("STAGING_PURGE_MINUTES", 10)) * time.Minute,
			ProbeOnCreate: getEnvAsBool("PROBE_ON_CREATE", true),
			FFProbePath:   getEnv("FFPROBE_PATH", "ffprobe"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
