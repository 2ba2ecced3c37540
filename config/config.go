package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
)

type Config struct {
	Port        string
	BindAddress string
	SecretKey   string

	ClientID     string
	ClientSecret string
	BotID        string
	BotToken     string
	RedirectURI  string
	// DiscordAPI is the base for both the OAuth endpoints and guild lookups.
	DiscordAPI   string

	QuestionStore string
	SupabaseURL   string
	SupabaseKey   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SessionTTL           time.Duration
	SecureCookie         bool
	EnforceGuildAccess   bool
	MaxQuestionsPerGuild int
	HTTPTimeout          time.Duration
}

var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"BIND_ADDRESS":            "localhost",
	"DISCORD_REDIRECT_URI":    "http://localhost:8080/callback",
	"DISCORD_API_URL":         "https://discord.com/api/v10",
	"QUESTION_STORE":          StoreREST,
	"DB_HOST":                 "localhost",
	"DB_PORT":                 "5432",
	"DB_USER":                 "answerly",
	"DB_NAME":                 "answerly",
	"REDIS_HOST":              "localhost",
	"REDIS_PORT":              "6379",
	"SESSION_TTL":             "24h",
	"SESSION_SECURE_COOKIE":   false,
	"ENFORCE_GUILD_ACCESS":    true,
	"MAX_QUESTIONS_PER_GUILD": 30,
	"HTTP_TIMEOUT":            "10s",
}

// Load reads .env.local (or .env) from the working directory, then the
// process environment, and validates the result.
func Load() (*Config, error) {
	if err := loadDotEnv("."); err != nil {
		return nil, err
	}
	return FromViper(newViper())
}

func loadDotEnv(dir string) error {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		return nil
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range []string{
		"SECRET_KEY", "BOT_CLIENT_ID", "BOT_CLIENT_SECRET", "BOT_ID", "BOT_TOKEN",
		"SUPABASE_URL", "SUPABASE_KEY", "DB_PASSWORD", "REDIS_PASSWORD",
	} {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("PORT"),
		BindAddress: v.GetString("BIND_ADDRESS"),
		SecretKey:   v.GetString("SECRET_KEY"),

		ClientID:     v.GetString("BOT_CLIENT_ID"),
		ClientSecret: v.GetString("BOT_CLIENT_SECRET"),
		BotID:        v.GetString("BOT_ID"),
		BotToken:     v.GetString("BOT_TOKEN"),
		RedirectURI:  v.GetString("DISCORD_REDIRECT_URI"),
		DiscordAPI:   strings.TrimRight(v.GetString("DISCORD_API_URL"), "/"),

		QuestionStore: strings.ToLower(v.GetString("QUESTION_STORE")),
		SupabaseURL:   strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseKey:   v.GetString("SUPABASE_KEY"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		SessionTTL:           v.GetDuration("SESSION_TTL"),
		SecureCookie:         v.GetBool("SESSION_SECURE_COOKIE"),
		EnforceGuildAccess:   v.GetBool("ENFORCE_GUILD_ACCESS"),
		MaxQuestionsPerGuild: v.GetInt("MAX_QUESTIONS_PER_GUILD"),
		HTTPTimeout:          v.GetDuration("HTTP_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	required := map[string]string{
		"SECRET_KEY":        c.SecretKey,
		"BOT_CLIENT_ID":     c.ClientID,
		"BOT_CLIENT_SECRET": c.ClientSecret,
		"BOT_TOKEN":         c.BotToken,
	}
	switch c.QuestionStore {
	case StoreREST:
		required["SUPABASE_URL"] = c.SupabaseURL
		required["SUPABASE_KEY"] = c.SupabaseKey
	case StorePostgres:
		required["DB_HOST"] = c.DBHost
		required["DB_NAME"] = c.DBName
	default:
		errs = append(errs, fmt.Errorf("QUESTION_STORE must be %q or %q, got %q", StoreREST, StorePostgres, c.QuestionStore))
	}
	for key, value := range required {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.MaxQuestionsPerGuild <= 0 {
		errs = append(errs, errors.New("MAX_QUESTIONS_PER_GUILD must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return c.BindAddress + ":" + c.Port
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	return client
}
