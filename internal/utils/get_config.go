package utils

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Server
	AppPort  string `yaml:"APP_PORT"`
	TimeZone string `yaml:"TIME_ZONE"`
	LogLevel string `yaml:"LOG_LEVEL"`

	// Claim locking and storage deadlines
	RedisAddr      string `yaml:"REDIS_ADDR"`
	RedisPassword  string `yaml:"REDIS_PASSWORD"`
	RedisDB        string `yaml:"REDIS_DB"`
	StorageTimeout string `yaml:"STORAGE_TIMEOUT"`
	ApprovalMode   string `yaml:"APPROVAL_MODE"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
}

const DefaultTimeZone = "Asia/Jakarta"

var (
	config     Config
	configOnce sync.Once
	configPath = "config.yaml"
)

// LoadConfig reads .env (if present) and config.yaml once. Keys missing from
// the YAML file fall back to the process environment.
func LoadConfig() {
	configOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("error reading .env file")
		}

		file, err := os.ReadFile(configPath)
		if err != nil {
			log.Debug().Err(err).Str("path", configPath).Msg("no config file, using environment")
			return
		}

		if err := yaml.Unmarshal(file, &config); err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("error parsing YAML file")
		}
	})
}

func GetConfig(key string) string {
	if v := fromFile(key); v != "" {
		return v
	}
	return os.Getenv(key)
}

func fromFile(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_PORT":
		return config.AppPort
	case "TIME_ZONE":
		return config.TimeZone
	case "LOG_LEVEL":
		return config.LogLevel
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "REDIS_DB":
		return config.RedisDB
	case "STORAGE_TIMEOUT":
		return config.StorageTimeout
	case "APPROVAL_MODE":
		return config.ApprovalMode
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

// GetConfigOr returns fallback when key is unset.
func GetConfigOr(key, fallback string) string {
	if v := GetConfig(key); v != "" {
		return v
	}
	return fallback
}

func GetConfigInt(key string, fallback int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}

func GetConfigDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(GetConfig(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// PickupLocation is the time zone calendar days are counted in.
func PickupLocation() *time.Location {
	name := GetConfigOr("TIME_ZONE", DefaultTimeZone)
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("time_zone", name).Msg("unknown time zone, using UTC")
		return time.UTC
	}
	return loc
}
