package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	ServerPort int

	Passcode      string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	LinkTTL        time.Duration
	MaxUploadBytes int64

	TeamsWebhookURL string
	NotifyTimeout   time.Duration

	RedisAddr     string
	RedisPassword string

	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	viper.SetDefault("PORT", 3000)
	viper.SetDefault("SESSION_TTL_SECONDS", 12*60*60)
	viper.SetDefault("SECURE_COOKIES", false)
	viper.SetDefault("S3_ENDPOINT", "s3.amazonaws.com")
	viper.SetDefault("S3_USE_SSL", true)
	viper.SetDefault("LINK_TTL_SECONDS", 300)
	viper.SetDefault("MAX_UPLOAD_BYTES", 100<<20)
	viper.SetDefault("NOTIFY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("MARIADB_MAX_OPEN_CONN", 10)
	viper.SetDefault("MARIADB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("MARIADB_CONN_MAX_LIFETIME", 300)

	if viper.GetString("PASSCODE") == "" {
		return nil, fmt.Errorf("PASSCODE is required")
	}
	if viper.GetString("SESSION_SECRET") == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if viper.GetInt("LINK_TTL_SECONDS") <= 0 {
		return nil, fmt.Errorf("LINK_TTL_SECONDS must be positive")
	}
	if viper.GetInt64("MAX_UPLOAD_BYTES") <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return &Settings{
		ServerPort: viper.GetInt("PORT"),

		Passcode:      viper.GetString("PASSCODE"),
		SessionSecret: viper.GetString("SESSION_SECRET"),
		SessionTTL:    time.Duration(viper.GetInt("SESSION_TTL_SECONDS")) * time.Second,
		SecureCookies: viper.GetBool("SECURE_COOKIES"),

		S3Region:    viper.GetString("AWS_REGION"),
		S3Bucket:    viper.GetString("S3_BUCKET_NAME"),
		S3Endpoint:  viper.GetString("S3_ENDPOINT"),
		S3AccessKey: viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey: viper.GetString("S3_SECRET_KEY"),
		S3UseSSL:    viper.GetBool("S3_USE_SSL"),

		LinkTTL:        time.Duration(viper.GetInt("LINK_TTL_SECONDS")) * time.Second,
		MaxUploadBytes: viper.GetInt64("MAX_UPLOAD_BYTES"),

		TeamsWebhookURL: viper.GetString("TEAMS_WEBHOOK_URL"),
		NotifyTimeout:   time.Duration(viper.GetInt("NOTIFY_TIMEOUT_SECONDS")) * time.Second,

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
	}, nil
}
