package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreFile  = "file"
	StoreMySQL = "mysql"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Order    OrderConfig    `yaml:"order"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Bot      BotConfig      `yaml:"bot"`
	Payment  PaymentConfig  `yaml:"payment"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type OrderConfig struct {
	Store         string        `yaml:"store"`
	Dir           string        `yaml:"dir"`
	TTL           time.Duration `yaml:"ttl"`
	IDLength      int           `yaml:"idLength"`
	MaxIDAttempts int           `yaml:"maxIdAttempts"`
}

type CatalogConfig struct {
	Enabled       bool `yaml:"enabled"`
	EnforcePrices bool `yaml:"enforcePrices"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type BotConfig struct {
	Token           string `yaml:"token"`
	OrdersChatID    int64  `yaml:"ordersChatId"`
	ManagerUsername string `yaml:"managerUsername"`
	SiteURL         string `yaml:"siteUrl"`
	Channel         string `yaml:"channel"`
	PollTimeout     int    `yaml:"pollTimeout"`
	// MetricsPort serves /metrics from the bot process; 0 disables it.
	MetricsPort     int    `yaml:"metricsPort"`
}

type PaymentConfig struct {
	CardHolder string `yaml:"cardHolder"`
	PrivatCard string `yaml:"privatCard"`
	PUMBCard   string `yaml:"pumbCard"`
	ABankCard  string `yaml:"abankCard"`
	FOPName    string `yaml:"fopName"`
	FOPEDRPOU  string `yaml:"fopEdrpou"`
	FOPMFO     string `yaml:"fopMfo"`
	FOPAccount string `yaml:"fopAccount"`
	FOPBank    string `yaml:"fopBank"`
}

var defaults = map[string]any{
	"SERVER_PORT":            8080,
	"DB_HOST":                "localhost",
	"DB_PORT":                3306,
	"DB_USER":                "orderdesk",
	"DB_PASSWORD":            "secret",
	"DB_NAME":                "orderdesk",
	"DB_MAX_OPEN_CONNS":      25,
	"DB_MAX_IDLE_CONNS":      5,
	"DB_CONN_MAX_LIFETIME":   "5m",
	"LOG_LEVEL":              "info",
	"ORDER_STORE":            StoreFile,
	"ORDER_DIR":              "data/orders",
	"ORDER_TTL":              "168h",
	"ORDER_ID_LENGTH":        10,
	"ORDER_MAX_ID_ATTEMPTS":  5,
	"CATALOG_ENABLED":        false,
	"CATALOG_ENFORCE_PRICES": false,
	"KAFKA_BROKERS":          "",
	"KAFKA_TOPIC":            "orders.lifecycle",
	"BOT_TOKEN":              "",
	"ORDERS_CHAT_ID":         0,
	"MANAGER_USERNAME":       "",
	"SITE_URL":               "",
	"TELEGRAM_CHANNEL":       "",
	"BOT_POLL_TIMEOUT":       60,
	"BOT_METRICS_PORT":       9091,
	"PAYMENT_CARD_HOLDER":    "",
	"PAYMENT_PRIVAT_CARD":    "",
	"PAYMENT_PUMB_CARD":      "",
	"PAYMENT_ABANK_CARD":     "",
	"PAYMENT_FOP_NAME":       "",
	"PAYMENT_FOP_EDRPOU":     "",
	"PAYMENT_FOP_MFO":        "",
	"PAYMENT_FOP_ACCOUNT":    "",
	"PAYMENT_FOP_BANK":       "",
}

// Load reads the configuration from the environment. A .env file in the
// working directory, when present, is loaded first without overriding
// variables that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return fromViper(v)
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	cfg, _ := fromViper(v)
	return cfg
}

func fromViper(v *viper.Viper) (*Config, error) {
	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	orderTTL, err := time.ParseDuration(v.GetString("ORDER_TTL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Order: OrderConfig{
			Store:         strings.ToLower(v.GetString("ORDER_STORE")),
			Dir:           v.GetString("ORDER_DIR"),
			TTL:           orderTTL,
			IDLength:      v.GetInt("ORDER_ID_LENGTH"),
			MaxIDAttempts: v.GetInt("ORDER_MAX_ID_ATTEMPTS"),
		},
		Catalog: CatalogConfig{
			Enabled:       v.GetBool("CATALOG_ENABLED"),
			EnforcePrices: v.GetBool("CATALOG_ENFORCE_PRICES"),
		},
		Kafka: KafkaConfig{
			Brokers: SplitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Bot: BotConfig{
			Token:           v.GetString("BOT_TOKEN"),
			OrdersChatID:    v.GetInt64("ORDERS_CHAT_ID"),
			ManagerUsername: strings.TrimPrefix(v.GetString("MANAGER_USERNAME"), "@"),
			SiteURL:         v.GetString("SITE_URL"),
			Channel:         v.GetString("TELEGRAM_CHANNEL"),
			PollTimeout:     v.GetInt("BOT_POLL_TIMEOUT"),
			MetricsPort:     v.GetInt("BOT_METRICS_PORT"),
		},
		Payment: PaymentConfig{
			CardHolder: v.GetString("PAYMENT_CARD_HOLDER"),
			PrivatCard: v.GetString("PAYMENT_PRIVAT_CARD"),
			PUMBCard:   v.GetString("PAYMENT_PUMB_CARD"),
			ABankCard:  v.GetString("PAYMENT_ABANK_CARD"),
			FOPName:    v.GetString("PAYMENT_FOP_NAME"),
			FOPEDRPOU:  v.GetString("PAYMENT_FOP_EDRPOU"),
			FOPMFO:     v.GetString("PAYMENT_FOP_MFO"),
			FOPAccount: v.GetString("PAYMENT_FOP_ACCOUNT"),
			FOPBank:    v.GetString("PAYMENT_FOP_BANK"),
		},
	}

	return cfg, nil
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
