package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"sync"
	"time"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()

		viper.AutomaticEnv()

		viper.BindEnv("alerts_url", "ALERTS_URL")
		viper.BindEnv("email_url", "EMAIL_URL")
		viper.BindEnv("preferences_url", "PREFERENCES_URL")
		viper.BindEnv("refresh_interval", "REFRESH_INTERVAL")
		viper.BindEnv("auto_refresh", "AUTO_REFRESH")
		viper.BindEnv("request_timeout", "REQUEST_TIMEOUT")
		viper.BindEnv("http_port", "HTTP_PORT")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("kv_backend", "KV_BACKEND")
		viper.BindEnv("redis_addr", "REDIS_ADDR")
		viper.BindEnv("redis_password", "REDIS_PASSWORD")
		viper.BindEnv("redis_db", "REDIS_DB")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("chart_font", "CHART_FONT")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("alerts_url", "http://localhost:5001/api/alerts")
		viper.SetDefault("email_url", "http://localhost:5002/api/email")
		viper.SetDefault("preferences_url", "http://localhost:8000/update-preferences")
		viper.SetDefault("refresh_interval", 30*time.Minute) // matches the backend scheduler
		viper.SetDefault("auto_refresh", true)
		viper.SetDefault("request_timeout", 15*time.Second)
		viper.SetDefault("http_port", 3000)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("db_path", "data/dashboard.db")
		viper.SetDefault("kv_backend", "sqlite")
		viper.SetDefault("redis_addr", "localhost:6379")
		viper.SetDefault("redis_db", 0)
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
	InitConfig()
	return viper.GetDuration(key)
}
