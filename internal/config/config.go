// internal/config/config.go
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DateLayout is the layout used for SIM_START_DATE.
const DateLayout = "2006-01-02"

type Config struct {
	Simulation SimulationConfig
	Output     OutputConfig
	Storage    StorageConfig
	Drive      DriveConfig
	Log        LogConfig
}

type SimulationConfig struct {
	Seed                   int64
	Weeks                  int
	StartDate              time.Time
	SKUCount               int
	MaxLinesPerPartnerWeek int
}

type OutputConfig struct {
	Dir           string
	WriteXLSX     bool
	WriteMetrics  bool
	ExportWorkers int
}

// StorageConfig holds S3-compatible object storage settings used by publish.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
}

type LogConfig struct {
	Level string
}

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

// Load reads configuration once from .env and the environment.
func Load() (*Config, error) {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance, loadErr = build(viper.New())
	})

	return instance, loadErr
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SIM_SEED", 42)
	v.SetDefault("SIM_WEEKS", 104)
	v.SetDefault("SIM_START_DATE", "2024-01-01")
	v.SetDefault("SIM_SKUS", 600)
	v.SetDefault("SIM_MAX_LINES_PER_PARTNER_WEEK", 2500)
	v.SetDefault("OUTPUT_DIR", "./data/output")
	v.SetDefault("OUTPUT_XLSX", false)
	v.SetDefault("OUTPUT_METRICS", true)
	v.SetDefault("EXPORT_WORKERS", 4)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_BUCKET", "retailsim")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("S3_PREFIX", "")
	v.SetDefault("DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("DRIVE_FOLDER_ID", "")
}

func build(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	start, err := time.Parse(DateLayout, v.GetString("SIM_START_DATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIM_START_DATE %q: %w", v.GetString("SIM_START_DATE"), err)
	}

	cfg := &Config{
		Simulation: SimulationConfig{
			Seed:                   v.GetInt64("SIM_SEED"),
			Weeks:                  v.GetInt("SIM_WEEKS"),
			StartDate:              start,
			SKUCount:               v.GetInt("SIM_SKUS"),
			MaxLinesPerPartnerWeek: v.GetInt("SIM_MAX_LINES_PER_PARTNER_WEEK"),
		},
		Output: OutputConfig{
			Dir:           v.GetString("OUTPUT_DIR"),
			WriteXLSX:     v.GetBool("OUTPUT_XLSX"),
			WriteMetrics:  v.GetBool("OUTPUT_METRICS"),
			ExportWorkers: v.GetInt("EXPORT_WORKERS"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
			Prefix:    v.GetString("S3_PREFIX"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("DRIVE_CREDENTIALS_JSON"),
			FolderID:        v.GetString("DRIVE_FOLDER_ID"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the simulation bounds the generators rely on.
func (s SimulationConfig) Validate() error {
	// the longest lifecycle is 61 weeks and launch needs room inside the horizon
	if s.Weeks < 62 {
		return fmt.Errorf("simulation weeks must be at least 62 to fit product lifecycles, got %d", s.Weeks)
	}
	if s.SKUCount < 3 {
		return fmt.Errorf("sku count must be at least 3, got %d", s.SKUCount)
	}
	if s.MaxLinesPerPartnerWeek < 1 {
		return fmt.Errorf("max lines per partner week must be positive, got %d", s.MaxLinesPerPartnerWeek)
	}
	return nil
}
