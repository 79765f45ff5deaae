package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Feed     FeedConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	Timezone    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// FeedConfig selects where booking change notifications come from.
type FeedConfig struct {
	Driver string

	PGChannel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string
}

func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

// LoadConfigFile reads path as a dotenv file. A missing file is not an error; the environment
// and defaults are used instead.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "salon-calendar")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("CHANGE_FEED", "postgres")
	v.SetDefault("PG_NOTIFY_CHANNEL", "booking_changes")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "booking_changes")
	v.SetDefault("KAFKA_TOPIC", "booking.changes")
	v.SetDefault("KAFKA_GROUP_ID", "salon-calendar")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			Timezone:    v.GetString("TIMEZONE"),
			CORSOrigins: SplitList(v.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Feed: FeedConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("CHANGE_FEED"))),
			PGChannel:     v.GetString("PG_NOTIFY_CHANNEL"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			RedisChannel:  v.GetString("REDIS_CHANNEL"),
			KafkaBrokers:  v.GetString("KAFKA_BROKERS"),
			KafkaTopic:    v.GetString("KAFKA_TOPIC"),
			KafkaGroupID:  v.GetString("KAFKA_GROUP_ID"),
		},
	}

	return config, nil
}
