package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Mongo   MongoConfig   `yaml:"mongo" mapstructure:"mongo"`
	Migrate MigrateConfig `yaml:"migrate" mapstructure:"migrate"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// MongoConfig addresses the two logical migration databases.
type MongoConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	SourceDB string `yaml:"source_db" mapstructure:"source_db"`
	TargetDB string `yaml:"target_db" mapstructure:"target_db"`
}

// MigrateConfig tunes per-phase behavior.
type MigrateConfig struct {
	// SourceLabel is recorded in migratedFrom provenance on every migrated
	// project so the origin database stays identifiable after a rename.
	SourceLabel string `yaml:"source_label" mapstructure:"source_label"`
	// Fanout bounds concurrent per-record work inside a phase.
	Fanout int `yaml:"fanout" mapstructure:"fanout"`
	// LookupRPS rate-limits target-side lookups in the time-series phases.
	LookupRPS int `yaml:"lookup_rps" mapstructure:"lookup_rps"`
}

// ServerConfig configures the HTTP surface for the orchestration UI.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TALENTSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.source_db", "campaign_legacy")
	v.SetDefault("mongo.target_db", "campaign")
	v.SetDefault("migrate.source_label", "campaign_legacy")
	v.SetDefault("migrate.fanout", 8)
	v.SetDefault("migrate.lookup_rps", 50)
	v.SetDefault("server.port", 8086)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
