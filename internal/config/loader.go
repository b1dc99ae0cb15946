package config

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rpattn/restql/internal/db"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// ExportConfig holds XLSX export settings
type ExportConfig struct {
	PageSize int
}

// Config aggregates all application settings
type Config struct {
	Database db.Config
	Server   ServerConfig
	Export   ExportConfig
}

// Load reads config.yaml from configPath, with environment overrides
// prefixed RESTQL (e.g. RESTQL_DATABASE_HOST). Missing files fall back to
// defaults plus environment.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Database: db.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Export: ExportConfig{PageSize: 1000},
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("RESTQL")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")

	if err := v.ReadInConfig(); err != nil {
		zap.S().Info("no config.yaml found, using defaults and env vars")
	} else {
		zap.S().Infow("loaded config file", "file", v.ConfigFileUsed())
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
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("export.page_size") {
		cfg.Export.PageSize = v.GetInt("export.page_size")
	}

	return cfg, nil
}
