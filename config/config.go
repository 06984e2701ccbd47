package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Fudo     FudoConfig
	Delivery DeliveryConfig
}

type ServerConfig struct {
	AppEnv                 string
	HTTPPort               string
	GRPCPort               string
	ShutdownTimeoutSeconds int
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

type FudoConfig struct {
	BaseURL        string
	AuthURL        string
	APIKey         string
	APISecret      string
	TimeoutSeconds int
	PageSize       int
	MaxPages       int
}

type DeliveryConfig struct {
	CacheTTLSeconds int
}

var defaults = map[string]interface{}{
	"APP_ENV":                  "dev",
	"HTTP_PORT":                ":8080",
	"GRPC_PORT":                ":8082",
	"SHUTDOWN_TIMEOUT_SECONDS": 15,

	"LOGGER_LEVEL":              "debug",
	"LOGGER_ENCODING":           "console",
	"LOGGER_DISABLE_CALLER":     false,
	"LOGGER_DISABLE_STACKTRACE": true,

	"POSTGRES_HOST":               "localhost",
	"POSTGRES_PORT":               "5432",
	"POSTGRES_USER":               "catalog",
	"POSTGRES_PASSWORD":           "catalog",
	"POSTGRES_DB":                 "catalog_sync",
	"POSTGRES_SSLMODE":            "disable",
	"POSTGRES_MAX_OPEN_CONNS":     10,
	"POSTGRES_MAX_IDLE_CONNS":     5,
	"POSTGRES_CONN_MAX_LIFETIME":  300,
	"POSTGRES_CONN_MAX_IDLE_TIME": 60,

	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"KAFKA_ENABLED":           true,
	"KAFKA_BROKERS":           "localhost:9092",
	"KAFKA_TOPIC_FUDO_EVENTS": "fudo.order-events",
	"KAFKA_GROUP_RECONCILE":   "catalog-sync-reconcile",

	"ELASTICSEARCH_ADDRESSES": "http://localhost:9200",
	"ELASTICSEARCH_USERNAME":  "",
	"ELASTICSEARCH_PASSWORD":  "",

	"FUDO_BASE_URL":        "https://api.fu.do/v1alpha1",
	"FUDO_AUTH_URL":        "https://auth.fu.do/api",
	"FUDO_API_KEY":         "",
	"FUDO_API_SECRET":      "",
	"FUDO_TIMEOUT_SECONDS": 15,
	"FUDO_PAGE_SIZE":       500,
	"FUDO_MAX_PAGES":       1000,

	"DELIVERY_CACHE_TTL_SECONDS": 300,
}

// LoadEnv reads the configuration from the environment. Unset keys take
// their defaults.
func LoadEnv() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return &Config{
		Server: ServerConfig{
			AppEnv:                 v.GetString("APP_ENV"),
			HTTPPort:               v.GetString("HTTP_PORT"),
			GRPCPort:               v.GetString("GRPC_PORT"),
			ShutdownTimeoutSeconds: v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"),
		},
		Logger: LoggerConfig{
			Level:             v.GetString("LOGGER_LEVEL"),
			Encoding:          v.GetString("LOGGER_ENCODING"),
			DisableCaller:     v.GetBool("LOGGER_DISABLE_CALLER"),
			DisableStacktrace: v.GetBool("LOGGER_DISABLE_STACKTRACE"),
		},
		Postgres: PostgresConfig{
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetString("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			DBName:          v.GetString("POSTGRES_DB"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			MaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetInt("POSTGRES_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetInt("POSTGRES_CONN_MAX_IDLE_TIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC_FUDO_EVENTS"),
			GroupID: v.GetString("KAFKA_GROUP_RECONCILE"),
		},
		Elastic: ElasticsearchConfig{
			Addresses: splitList(v.GetString("ELASTICSEARCH_ADDRESSES")),
			Username:  v.GetString("ELASTICSEARCH_USERNAME"),
			Password:  v.GetString("ELASTICSEARCH_PASSWORD"),
		},
		Fudo: FudoConfig{
			BaseURL:        v.GetString("FUDO_BASE_URL"),
			AuthURL:        v.GetString("FUDO_AUTH_URL"),
			APIKey:         v.GetString("FUDO_API_KEY"),
			APISecret:      v.GetString("FUDO_API_SECRET"),
			TimeoutSeconds: v.GetInt("FUDO_TIMEOUT_SECONDS"),
			PageSize:       v.GetInt("FUDO_PAGE_SIZE"),
			MaxPages:       v.GetInt("FUDO_MAX_PAGES"),
		},
		Delivery: DeliveryConfig{
			CacheTTLSeconds: v.GetInt("DELIVERY_CACHE_TTL_SECONDS"),
		},
	}
}

// splitList splits a comma separated env value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
