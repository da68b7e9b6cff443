package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load layers config.yaml (if present in configPath) and CSVGATE_* environment
// variables over DefaultConfig.
func Load(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath == "" {
		configPath = "."
	}
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("CSVGATE") // CSVGATE_PATHS_INBOX, CSVGATE_DATABASE_HOST, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config.yaml is fine; defaults and env still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if v.IsSet("paths.inbox") {
		cfg.Paths.Inbox = v.GetString("paths.inbox")
	}
	if v.IsSet("paths.processed") {
		cfg.Paths.Processed = v.GetString("paths.processed")
	}
	if v.IsSet("paths.invalid") {
		cfg.Paths.Invalid = v.GetString("paths.invalid")
	}
	if v.IsSet("paths.output") {
		cfg.Paths.Output = v.GetString("paths.output")
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		cfg.Log.Format = v.GetString("log.format")
	}
	if v.IsSet("report.enabled") {
		cfg.ReportEnabled = v.GetBool("report.enabled")
	}
	if v.IsSet("watch.schedule") {
		cfg.WatchSchedule = v.GetString("watch.schedule")
	}
	if v.IsSet("database.enabled") {
		cfg.DatabaseEnabled = v.GetBool("database.enabled")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	return cfg, nil
}

var keys = []string{
	"paths.inbox",
	"paths.processed",
	"paths.invalid",
	"paths.output",
	"log.level",
	"log.format",
	"report.enabled",
	"watch.schedule",
	"database.enabled",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.dbname",
	"database.sslmode",
}
