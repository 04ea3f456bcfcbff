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
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	AWS      AWSConfig      `yaml:"aws" mapstructure:"aws"`
	S3       S3Config       `yaml:"s3" mapstructure:"s3"`
	Privacy  PrivacyConfig  `yaml:"privacy" mapstructure:"privacy"`
	Boundary BoundaryConfig `yaml:"boundary" mapstructure:"boundary"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig describes the input coordinate table.
type SourceConfig struct {
	CSVPath    string `yaml:"csv_path" mapstructure:"csv_path"`
	LatColumn  string `yaml:"lat_column" mapstructure:"lat_column"`
	LongColumn string `yaml:"long_column" mapstructure:"long_column"`
}

// AWSConfig holds S3 access credentials.
type AWSConfig struct {
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	Region          string `yaml:"region" mapstructure:"region"`
}

// S3Config addresses the source object in S3.
type S3Config struct {
	BucketName string `yaml:"bucket_name" mapstructure:"bucket_name"`
	FileKey    string `yaml:"file_key" mapstructure:"file_key"`
}

// PrivacyConfig configures the anonymizing jitter.
type PrivacyConfig struct {
	RadiusMeters float64 `yaml:"radius_meters" mapstructure:"radius_meters"`
}

// BoundaryConfig configures the national boundary shapefile.
type BoundaryConfig struct {
	ShapefilePath string  `yaml:"shapefile_path" mapstructure:"shapefile_path"`
	DownloadURL   string  `yaml:"download_url" mapstructure:"download_url"`
	CacheDir      string  `yaml:"cache_dir" mapstructure:"cache_dir"`
	MarginMeters  float64 `yaml:"margin_meters" mapstructure:"margin_meters"`
}

// MapConfig configures the rendered heatmap output.
type MapConfig struct {
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
	HeatRadius int    `yaml:"heat_radius" mapstructure:"heat_radius"`
	HeatBlur   int    `yaml:"heat_blur" mapstructure:"heat_blur"`
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
	v.SetEnvPrefix("HEATMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credential and source keys get empty defaults so the
	// HEATMAP_* environment variables bind without a config file.
	v.SetDefault("source.csv_path", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.file_key", "")
	v.SetDefault("source.lat_column", "lat")
	v.SetDefault("source.long_column", "long")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("privacy.radius_meters", 500)
	v.SetDefault("boundary.shapefile_path", "data/cb_2018_us_nation_5m.shp")
	v.SetDefault("boundary.download_url", "https://www2.census.gov/geo/tiger/GENZ2018/shp/cb_2018_us_nation_5m.zip")
	v.SetDefault("boundary.cache_dir", "data")
	v.SetDefault("boundary.margin_meters", 5000)
	v.SetDefault("map.output_path", "public/anonymous_heatmap.html")
	v.SetDefault("map.heat_radius", 8)
	v.SetDefault("map.heat_blur", 5)
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
