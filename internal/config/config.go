package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Session
		Security
		Log
		Import
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool // false for local dev without HTTPS
	}
	Security struct {
		CSRFSecret string // CSRF protection is disabled when empty
	}
	Log struct {
		Mode string // "dev" or "prod"
	}
	Import struct {
		ConvertScript bool // simplified to traditional conversion of explanations
		InferPos      bool // morphological POS guess for rows with an empty POS column
		MaxUploadSize int64
	}
)

func NewConfig() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("session_lifetime", "720h") // flashcard progress survives a month
	v.SetDefault("secure_cookies", false)
	v.SetDefault("csrf_secret", "")
	v.SetDefault("log_mode", "dev")
	v.SetDefault("import_convert_script", true)
	v.SetDefault("import_infer_pos", false)
	v.SetDefault("import_max_upload_size", DefaultMaxUploadSize)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Security: Security{
			CSRFSecret: v.GetString("CSRF_SECRET"),
		},
		Log: Log{
			Mode: v.GetString("LOG_MODE"),
		},
		Import: Import{
			ConvertScript: v.GetBool("IMPORT_CONVERT_SCRIPT"),
			InferPos:      v.GetBool("IMPORT_INFER_POS"),
			MaxUploadSize: v.GetInt64("IMPORT_MAX_UPLOAD_SIZE"),
		},
	}
}
