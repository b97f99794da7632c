package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "PIXELCRAFT"

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Trace   TraceConfig   `mapstructure:"trace"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Output  OutputConfig  `mapstructure:"output"`
	Fonts   FontConfig    `mapstructure:"fonts"`
	Storage StorageConfig `mapstructure:"storage"`
}

type LogConfig struct {
	Level     string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format    string `mapstructure:"format" validate:"oneof=console json"`
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb" validate:"gte=1"`
}

type TraceConfig struct {
	Exporter     string `mapstructure:"exporter" validate:"oneof=none stdout otlp"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"required_if=Exporter otlp"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

type OutputConfig struct {
	JPEGQuality    int    `mapstructure:"jpeg_quality" validate:"gte=1,lte=100"`
	PNGCompression string `mapstructure:"png_compression" validate:"oneof=default none speed best"`
}

type FontConfig struct {
	Names []string `mapstructure:"names" validate:"dive,required"`
	Dirs  []string `mapstructure:"dirs"`
}

type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key" validate:"required_with=Endpoint"`
	SecretKey string `mapstructure:"secret_key" validate:"required_with=Endpoint"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether s3:// locations can be used.
func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != ""
}

// Load reads PIXELCRAFT_* environment variables over the defaults, e.g.
// PIXELCRAFT_LOG_LEVEL for log.level. List values are comma separated.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Trace.Exporter = strings.ToLower(strings.TrimSpace(cfg.Trace.Exporter))

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)

	v.SetDefault("trace.exporter", "none")
	v.SetDefault("trace.otlp_endpoint", "")
	v.SetDefault("trace.otlp_insecure", false)

	v.SetDefault("metrics.textfile_path", "")

	v.SetDefault("output.jpeg_quality", 75)
	v.SetDefault("output.png_compression", "default")

	v.SetDefault("fonts.names", []string{"DejaVuSans.ttf", "Arial.ttf", "Helvetica.ttf"})
	v.SetDefault("fonts.dirs", []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"~/.local/share/fonts",
		"~/.fonts",
		"/Library/Fonts",
		"/System/Library/Fonts",
		"~/Library/Fonts",
		`C:\Windows\Fonts`,
	})

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.use_ssl", true)
}
