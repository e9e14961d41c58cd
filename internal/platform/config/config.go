package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration. It is loaded once in cmd/* and
// the relevant sections are passed explicitly into services.
type Config struct {
	Server    Server
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Features  Features
	LogLevel  string
	LogFormat string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// PostgresConfig configures the store of record. An empty DSN selects the
// in-memory stores.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the optional distributed lock backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit outbox relay.
type KafkaConfig struct {
	Brokers       []string
	AuditTopic    string
	Partitions    int32
	Replication   int16
	RelayInterval time.Duration
	RelayBatch    int
}

// Features are the deployment-level switches that used to be global settings.
type Features struct {
	// Channels enabled for participation: any of web, booth, letter.
	Channels []string
	// Locales whose option titles are matched during dedup and backfill.
	Locales []string
	// RecountDuration is how long after a poll ends recount shifts may be scheduled.
	RecountDuration time.Duration
	// LockTTL bounds how long an aggregate lock may be held.
	LockTTL time.Duration
}

// ChannelEnabled reports whether a participation channel is switched on.
func (f Features) ChannelEnabled(channel string) bool {
	for _, c := range f.Channels {
		if strings.EqualFold(c, channel) {
			return true
		}
	}
	return false
}

// Load reads configuration from TALLY_* environment variables and an optional
// tally.yaml in the working directory or ./config.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("tally")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("TALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.readtimeout", 10*time.Second)
	v.SetDefault("server.writetimeout", 30*time.Second)
	v.SetDefault("server.shutdowntimeout", 15*time.Second)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopenconns", 20)
	v.SetDefault("postgres.maxidleconns", 5)
	v.SetDefault("postgres.connmaxlifetime", 30*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.poolsize", 10)
	v.SetDefault("redis.minidleconns", 2)
	v.SetDefault("redis.dialtimeout", 5*time.Second)
	v.SetDefault("redis.readtimeout", 3*time.Second)
	v.SetDefault("redis.writetimeout", 3*time.Second)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.audittopic", "tally.audit")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication", 1)
	v.SetDefault("kafka.relayinterval", time.Second)
	v.SetDefault("kafka.relaybatch", 100)

	v.SetDefault("features.channels", []string{"web", "booth", "letter"})
	v.SetDefault("features.locales", []string{"en"})
	v.SetDefault("features.recountduration", 7*24*time.Hour)
	v.SetDefault("features.lockttl", 10*time.Second)

	v.SetDefault("loglevel", "info")
	v.SetDefault("logformat", "json")
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	if len(c.Features.Locales) == 0 {
		return errors.New("features.locales must name at least one locale")
	}
	for _, ch := range c.Features.Channels {
		switch strings.ToLower(ch) {
		case "web", "booth", "letter":
		default:
			return fmt.Errorf("features.channels: unknown channel %q", ch)
		}
	}
	if c.Features.RecountDuration < 0 {
		return errors.New("features.recountduration must not be negative")
	}
	if c.Features.LockTTL <= 0 {
		return errors.New("features.lockttl must be positive")
	}
	return nil
}
