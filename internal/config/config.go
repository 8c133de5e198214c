package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Security      SecurityConfig      `yaml:"security" envconfig:"SECURITY"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Dataset       DatasetConfig       `yaml:"dataset" envconfig:"DATASET"`
	WebSocket     WebSocketConfig     `yaml:"websocket" envconfig:"WEBSOCKET"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"true"`
}

// DatasetConfig describes where the expedition archive lives and how its
// columns map onto the semantic roles the analytics pipeline needs.
type DatasetConfig struct {
	Dir         string       `yaml:"dir" envconfig:"DIR" default:"data/himalaya"`
	PreviewRows int          `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" default:"5" validate:"min=1"`
	TopPeaks    int          `yaml:"top_peaks" envconfig:"TOP_PEAKS" default:"5" validate:"min=1"`
	Files       FilesConfig  `yaml:"files" envconfig:"FILES"`
	Schema      SchemaConfig `yaml:"schema" envconfig:"SCHEMA"`
}

// FilesConfig names the five table files inside the dataset directory.
// The references file is stored in the legacy Windows-1252 code page and is
// decoded accordingly; the rest are UTF-8.
type FilesConfig struct {
	Expeditions string `yaml:"expeditions" envconfig:"EXPEDITIONS" default:"exped.csv"`
	Members     string `yaml:"members" envconfig:"MEMBERS" default:"members.csv"`
	Peaks       string `yaml:"peaks" envconfig:"PEAKS" default:"peaks.csv"`
	References  string `yaml:"references" envconfig:"REFERENCES" default:"refer.csv"`
	Dictionary  string `yaml:"dictionary" envconfig:"DICTIONARY" default:"himalayan_data_dictionary.csv"`
}

// SchemaConfig declares which column serves each semantic role per table.
// Roles are resolved once at load time; a missing declared column fails only
// the analytical outputs that depend on it.
type SchemaConfig struct {
	Expedition ExpeditionSchemaConfig `yaml:"expedition" envconfig:"EXPEDITION"`
	Member     MemberSchemaConfig     `yaml:"member" envconfig:"MEMBER"`
	Peak       PeakSchemaConfig       `yaml:"peak" envconfig:"PEAK"`
}

// ExpeditionSchemaConfig maps expedition-table roles to column names
type ExpeditionSchemaConfig struct {
	ID      string `yaml:"id" envconfig:"ID" default:"expid"`
	Year    string `yaml:"year" envconfig:"YEAR" default:"year"`
	PeakID  string `yaml:"peak_id" envconfig:"PEAK_ID" default:"peakid"`
	Outcome string `yaml:"outcome" envconfig:"OUTCOME" default:"success1"`
}

// MemberSchemaConfig maps member-table roles to column names
type MemberSchemaConfig struct {
	PeakID      string `yaml:"peak_id" envconfig:"PEAK_ID" default:"peakid"`
	Nationality string `yaml:"nationality" envconfig:"NATIONALITY" default:"citizen"`
	Name        string `yaml:"name" envconfig:"NAME" default:"fname"`
	Success     string `yaml:"success" envconfig:"SUCCESS" default:"msuccess"`
}

// PeakSchemaConfig maps peak-table roles to column names
type PeakSchemaConfig struct {
	ID   string `yaml:"id" envconfig:"ID" default:"peakid"`
	Name string `yaml:"name" envconfig:"NAME" default:"pkname"`
}

// WebSocketConfig contains reload-notification socket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// ObservabilityConfig contains OpenTelemetry configuration
type ObservabilityConfig struct {
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"stdout" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0" validate:"gte=0,lte=1"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getConfigFilePath returns the config file location, honoring the
// HIMAL_CONFIG_FILE override.
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	return DefaultConfigFile
}

// mergeFileConfig applies file values over the built-in defaults. Only
// scalar leaves that commonly appear in config files are merged; an explicit
// environment variable always wins over the file.
func mergeFileConfig(cfg, file *Config) {
	if file.Server.Port != 0 && !envSet("SERVER_PORT") {
		cfg.Server.Port = file.Server.Port
	}
	if file.Dataset.Dir != "" && !envSet("DATASET_DIR") {
		cfg.Dataset.Dir = file.Dataset.Dir
	}
	if file.Dataset.PreviewRows != 0 && !envSet("DATASET_PREVIEW_ROWS") {
		cfg.Dataset.PreviewRows = file.Dataset.PreviewRows
	}
	if file.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		cfg.Logging.Level = file.Logging.Level
	}
	if file.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		cfg.Logging.Output = file.Logging.Output
	}
	if len(file.Security.AllowedOrigins) > 0 && !envSet("SECURITY_ALLOWED_ORIGINS") {
		cfg.Security.AllowedOrigins = file.Security.AllowedOrigins
	}
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// validate checks the configuration via struct tags and a few cross-field
// rules the tags cannot express.
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	// JSON is the only supported log format; correct rather than fail
	// startup on a cosmetic setting.
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Dataset.Schema.Member.Success == "" {
		return fmt.Errorf("dataset schema: member success column must be declared")
	}
	if c.Dataset.Schema.Peak.ID == "" || c.Dataset.Schema.Peak.Name == "" {
		return fmt.Errorf("dataset schema: peak id and name columns must be declared")
	}

	return nil
}
