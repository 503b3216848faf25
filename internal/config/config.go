package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Fallback FallbackConfig `mapstructure:"fallback"`
	Cron     CronConfig     `mapstructure:"cron"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Legacy   LegacyConfig   `mapstructure:"legacy"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	File              string `mapstructure:"file"`
	FileMaxSizeMB     int    `mapstructure:"file_max_size_mb"`
	FileMaxBackups    int    `mapstructure:"file_max_backups"`
	FileMaxAgeDays    int    `mapstructure:"file_max_age_days"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// FallbackConfig points at a directory of CSV exports used when the
// primary MySQL source is unreachable. One file per source table, named
// <table>.csv with a header row.
type FallbackConfig struct {
	Dir string `mapstructure:"dir"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Refresh string `mapstructure:"refresh"`
}

// SourcesConfig names the deposit tables to load. The FTD and RTN tables
// each carry a single deposit type; combined tables tag every row with a
// deposit_type column instead.
type SourcesConfig struct {
	FTDTable       string   `mapstructure:"ftd_table"`
	RTNTable       string   `mapstructure:"rtn_table"`
	CombinedTables []string `mapstructure:"combined_tables"`
}

type LegacyConfig struct {
	Table     string   `mapstructure:"table"`
	SkipRows  int      `mapstructure:"skip_rows"`
	Countries []string `mapstructure:"countries"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LTV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8053")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.file_max_size_mb", 100)
	v.SetDefault("log.file_max_backups", 3)
	v.SetDefault("log.file_max_age_days", 28)
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "5m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("fallback.dir", "data")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.refresh", "@every 15m")
	v.SetDefault("sources.ftd_table", "FTD_MASTER_CLEAN")
	v.SetDefault("sources.rtn_table", "RTN_MASTER_CLEAN")
	v.SetDefault("sources.combined_tables", []string{"CMN_MASTER_MEX_CLEAN"})
	v.SetDefault("legacy.table", "general_ltv")
	// The legacy spreadsheet export carries this many header/metadata rows
	// before the first country label.
	v.SetDefault("legacy.skip_rows", 1113)
	v.SetDefault("legacy.countries", []string{
		"Argentina", "Colombia", "Costa Rica", "Ecuador", "Mexico", "Peru",
	})

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
