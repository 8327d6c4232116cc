package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Report   ReportConfig   `mapstructure:"report"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the export history database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// BackendConfig points at the fleet REST backend
type BackendConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Token   string            `mapstructure:"token"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Paths   map[string]string `mapstructure:"paths"` // per entry kind overrides
}

// CacheConfig holds the Redis snapshot cache configuration
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ReportConfig holds report computation and session settings
type ReportConfig struct {
	DefaultDailyWage   float64       `mapstructure:"default_daily_wage"`
	UnidentifiedPolicy string        `mapstructure:"unidentified_policy"`
	FetchParallelism   int           `mapstructure:"fetch_parallelism"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	ReapInterval       time.Duration `mapstructure:"reap_interval"`
}

// ExportConfig holds workbook archive settings
type ExportConfig struct {
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	ArchiveDir     string `mapstructure:"archive_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file, dotenv files and
// the environment. Without envFiles, ".env" is loaded when present.
// Existing environment variables win over dotenv values.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := gotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("database.path", "data/fleet_reports.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("backend.timeout", 30*time.Second)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("report.default_daily_wage", report.DefaultDailyWage)
	v.SetDefault("report.unidentified_policy", string(report.UnidentifiedSeparate))
	v.SetDefault("report.fetch_parallelism", len(models.AllKinds))
	v.SetDefault("report.session_ttl", 12*time.Hour)
	v.SetDefault("report.reap_interval", 5*time.Minute)

	v.SetDefault("export.archive_enabled", false)
	v.SetDefault("export.archive_dir", "data/exports")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars maps the deployment variables that do not follow the
// SECTION_KEY naming
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("backend.base_url", "FLEET_API_BASE_URL")
	_ = v.BindEnv("backend.token", "FLEET_API_TOKEN")
	_ = v.BindEnv("cache.addr", "REDIS_ADDR")
	_ = v.BindEnv("cache.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	for kind := range c.Backend.Paths {
		if _, ok := kindFold(kind); !ok {
			return fmt.Errorf("backend.paths: unknown entry kind %q", kind)
		}
	}

	if c.Report.DefaultDailyWage <= 0 {
		return fmt.Errorf("report.default_daily_wage must be positive")
	}
	if _, err := report.ParseUnidentifiedPolicy(c.Report.UnidentifiedPolicy); err != nil {
		return fmt.Errorf("report.unidentified_policy: %w", err)
	}
	if c.Report.SessionTTL <= 0 {
		return fmt.Errorf("report.session_ttl must be positive")
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache.addr is required when the cache is enabled")
	}
	if c.Export.ArchiveEnabled && c.Export.ArchiveDir == "" {
		return fmt.Errorf("export.archive_dir is required when archiving is enabled")
	}

	return nil
}

// WageRules returns the wage attribution rules. Call after Validate.
func (c ReportConfig) WageRules() report.WageRules {
	policy, _ := report.ParseUnidentifiedPolicy(c.UnidentifiedPolicy)
	return report.WageRules{DefaultWage: c.DefaultDailyWage, Unidentified: policy}
}

// KindPaths returns the backend path overrides keyed by entry kind
func (c BackendConfig) KindPaths() map[models.Kind]string {
	paths := make(map[models.Kind]string, len(c.Paths))
	for k, p := range c.Paths {
		if kind, ok := kindFold(k); ok {
			paths[kind] = p
		}
	}
	return paths
}

// kindFold matches map keys, which viper lower-cases, against entry kinds
func kindFold(s string) (models.Kind, bool) {
	for _, k := range models.AllKinds {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}
