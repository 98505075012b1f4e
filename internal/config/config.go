package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	XTracker  XTrackerConfig  `mapstructure:"xtracker"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
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
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Reconcile       string `mapstructure:"reconcile"`
	IncompleteSweep string `mapstructure:"incomplete_sweep"`
}

type XTrackerConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DetailTimeout time.Duration `mapstructure:"detail_timeout"`
}

type SyncConfig struct {
	UserHandle   string `mapstructure:"user_handle"`
	RunOnStartup bool   `mapstructure:"run_on_startup"`
}

type NotifyConfig struct {
	SendBuffer int `mapstructure:"send_buffer"`
}

type DashboardConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	StaticDir string `mapstructure:"static_dir"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("XT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.name", "xtracker-monitor")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8085")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.reconcile", "@every 30s")
	v.SetDefault("cron.incomplete_sweep", "@every 30s")
	v.SetDefault("xtracker.base_url", "https://xtracker.polymarket.com")
	v.SetDefault("xtracker.timeout", "15s")
	v.SetDefault("xtracker.detail_timeout", "10s")
	v.SetDefault("sync.user_handle", "elonmusk")
	v.SetDefault("sync.run_on_startup", true)
	v.SetDefault("notify.send_buffer", 16)
	v.SetDefault("dashboard.enabled", true)
	v.SetDefault("dashboard.static_dir", "html")

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
