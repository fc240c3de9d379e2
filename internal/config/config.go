package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

type StorageConfig struct {
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	S3Bucket     string
	UploadDir    string
	BaseURL      string
}

// NotifyConfig carries everything the booking notifier needs. SMS is enabled
// only when all three Twilio values are present.
type NotifyConfig struct {
	EmailFrom         string
	EmailPassword     string
	SMTPHost          string
	SMTPPort          string
	BookingAlertEmail string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
}

// SMSEnabled reports whether outbound SMS is configured at all. Missing
// credentials silently disable SMS rather than failing dispatch.
func (n NotifyConfig) SMSEnabled() bool {
	return n.TwilioAccountSID != "" && n.TwilioAuthToken != "" && n.TwilioFromNumber != ""
}

type Config struct {
	Environment string
	Port        string
	JWTSecret   string
	RedisURL    string
	DB          DBConfig
	Storage     StorageConfig
	Notify      NotifyConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		Port:        v.GetString("PORT"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		RedisURL:    v.GetString("REDIS_URL"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
		},
		Storage: StorageConfig{
			AWSRegion:    v.GetString("AWS_REGION"),
			AWSAccessKey: v.GetString("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			S3Bucket:     v.GetString("AWS_S3_BUCKET"),
			UploadDir:    v.GetString("UPLOAD_DIR"),
			BaseURL:      v.GetString("BASE_URL"),
		},
		Notify: NotifyConfig{
			EmailFrom:         v.GetString("EMAIL_FROM"),
			EmailPassword:     v.GetString("EMAIL_PASSWORD"),
			SMTPHost:          v.GetString("SMTP_HOST"),
			SMTPPort:          v.GetString("SMTP_PORT"),
			BookingAlertEmail: v.GetString("BOOKING_ALERT_EMAIL"),
			TwilioAccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
			TwilioFromNumber:  v.GetString("TWILIO_FROM_NUMBER"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "./uploads"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "http://localhost:" + cfg.Port
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if cfg.DB.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
