package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Calendar     CalendarConfig
	TimeTracking TimeTrackingConfig
	Session      SessionConfig
	StaleEntry   StaleEntryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file path (":memory:" for tests)
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address of the Redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// CalendarConfig holds the fixed timezone and working-day calendar
type CalendarConfig struct {
	Timezone     string
	WorkDays     []int
	Holidays     []string
	WeekStartsOn int
}

// TimeTrackingConfig holds the active overtime policy and pay settings
type TimeTrackingConfig struct {
	StandardWorkHours       float64
	OvertimeThreshold       float64
	OvertimeRate            float64
	DoubleOvertimeThreshold float64
	DoubleOvertimeRate      float64
	MaxOvertimePerDay       float64
	MaxOvertimePerWeek      float64
	RestDayRate             float64
	HolidayRate             float64
	HourlyRate              float64
}

// SessionConfig holds session engine timing settings
type SessionConfig struct {
	WorkReminderInterval   time.Duration // recurring work-progress reminder
	BreakReminderDuration  time.Duration // one-shot break-length reminder
	SyncInterval           time.Duration // periodic store resync
	CleanupInterval        time.Duration // periodic stale-entry check
	FutureClockInTolerance time.Duration
	BroadcastTopic         string
}

// StaleEntryConfig holds the abandoned-session auto-close settings
type StaleEntryConfig struct {
	Enabled       bool
	CheckInterval time.Duration // how often the sweep job runs
	Expiration    time.Duration // open entries older than this are force-closed
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with TIMECLOCK_ prefix (e.g., TIMECLOCK_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("TIMECLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Calendar: CalendarConfig{
			Timezone:     v.GetString("calendar.timezone"),
			WorkDays:     v.GetIntSlice("calendar.work_days"),
			Holidays:     v.GetStringSlice("calendar.holidays"),
			WeekStartsOn: v.GetInt("calendar.week_starts_on"),
		},
		TimeTracking: TimeTrackingConfig{
			StandardWorkHours:       v.GetFloat64("timetracking.standard_work_hours"),
			OvertimeThreshold:       v.GetFloat64("timetracking.overtime_threshold"),
			OvertimeRate:            v.GetFloat64("timetracking.overtime_rate"),
			DoubleOvertimeThreshold: v.GetFloat64("timetracking.double_overtime_threshold"),
			DoubleOvertimeRate:      v.GetFloat64("timetracking.double_overtime_rate"),
			MaxOvertimePerDay:       v.GetFloat64("timetracking.max_overtime_per_day"),
			MaxOvertimePerWeek:      v.GetFloat64("timetracking.max_overtime_per_week"),
			RestDayRate:             v.GetFloat64("timetracking.rest_day_rate"),
			HolidayRate:             v.GetFloat64("timetracking.holiday_rate"),
			HourlyRate:              v.GetFloat64("timetracking.hourly_rate"),
		},
		Session: SessionConfig{
			WorkReminderInterval:   v.GetDuration("session.work_reminder_interval"),
			BreakReminderDuration:  v.GetDuration("session.break_reminder_duration"),
			SyncInterval:           v.GetDuration("session.sync_interval"),
			CleanupInterval:        v.GetDuration("session.cleanup_interval"),
			FutureClockInTolerance: v.GetDuration("session.future_clock_in_tolerance"),
			BroadcastTopic:         v.GetString("session.broadcast_topic"),
		},
		StaleEntry: StaleEntryConfig{
			Enabled:       v.GetBool("stale_entry.enabled"),
			CheckInterval: v.GetDuration("stale_entry.check_interval"),
			Expiration:    v.GetDuration("stale_entry.expiration"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "timeclock-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "timeclock"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "timeclock.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1 MiB
	}
	if cfg.Calendar.Timezone == "" {
		cfg.Calendar.Timezone = "Local"
	}
	if len(cfg.Calendar.WorkDays) == 0 {
		cfg.Calendar.WorkDays = []int{1, 2, 3, 4, 5}
	}
	if cfg.Calendar.WeekStartsOn == 0 {
		cfg.Calendar.WeekStartsOn = 1 // Monday
	}
	if cfg.TimeTracking.StandardWorkHours == 0 {
		cfg.TimeTracking.StandardWorkHours = 8
	}
	if cfg.TimeTracking.OvertimeThreshold == 0 {
		cfg.TimeTracking.OvertimeThreshold = 8
	}
	if cfg.TimeTracking.OvertimeRate == 0 {
		cfg.TimeTracking.OvertimeRate = 1.25
	}
	if cfg.TimeTracking.HourlyRate == 0 {
		cfg.TimeTracking.HourlyRate = 100
	}
	if cfg.Session.WorkReminderInterval == 0 {
		cfg.Session.WorkReminderInterval = 60 * time.Minute
	}
	if cfg.Session.BreakReminderDuration == 0 {
		cfg.Session.BreakReminderDuration = 45 * time.Minute
	}
	if cfg.Session.SyncInterval == 0 {
		cfg.Session.SyncInterval = 5 * time.Minute
	}
	if cfg.Session.CleanupInterval == 0 {
		cfg.Session.CleanupInterval = time.Hour
	}
	if cfg.Session.FutureClockInTolerance == 0 {
		cfg.Session.FutureClockInTolerance = 5 * time.Minute
	}
	if cfg.Session.BroadcastTopic == "" {
		cfg.Session.BroadcastTopic = "timeclock.updates"
	}
	if cfg.StaleEntry.CheckInterval == 0 {
		cfg.StaleEntry.CheckInterval = time.Hour
	}
	if cfg.StaleEntry.Expiration == 0 {
		cfg.StaleEntry.Expiration = 24 * time.Hour
	}
}

// validate checks the configuration for consistency
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.TimeTracking.OvertimeThreshold < c.TimeTracking.StandardWorkHours {
		return fmt.Errorf("timetracking.overtime_threshold (%v) cannot be below standard_work_hours (%v)",
			c.TimeTracking.OvertimeThreshold, c.TimeTracking.StandardWorkHours)
	}
	if c.TimeTracking.HourlyRate < 0 {
		return fmt.Errorf("timetracking.hourly_rate cannot be negative")
	}
	if c.Session.SyncInterval < time.Second {
		return fmt.Errorf("session.sync_interval must be at least 1s")
	}
	for _, d := range c.Calendar.WorkDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("calendar.work_days entries must be 0-6, got %d", d)
		}
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
