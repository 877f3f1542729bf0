// Package config holds the runtime configuration for photoscan.
//
// Values come from (lowest to highest precedence) the defaults in New, an
// optional config file, PHOTOSCAN_* environment variables and command-line
// flags bound by the cli package.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. PHOTOSCAN_LOG_LEVEL.
const EnvPrefix = "PHOTOSCAN"

// Config represents the application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	HEIC    HEICConfig    `mapstructure:"heic"`
	OCR     OCRConfig     `mapstructure:"ocr"`
	Display DisplayConfig `mapstructure:"display"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HTTPConfig controls the web upload surface.
type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// HEICConfig gates the optional HEIC codecs. A codec is only used when it is
// both compiled in and allowed here.
type HEICConfig struct {
	Modern              bool   `mapstructure:"modern"`
	Legacy              bool   `mapstructure:"legacy"`
	IntermediateFormat  string `mapstructure:"intermediate_format"`
	IntermediateQuality int    `mapstructure:"intermediate_quality"`
}

// OCRConfig configures the text-recognition engine.
type OCRConfig struct {
	Languages      []string `mapstructure:"languages"`
	TessdataPrefix string   `mapstructure:"tessdata_prefix"`
	PageSegMode    int      `mapstructure:"page_seg_mode"`
}

// DisplayConfig configures re-encoding of the canonical image for display.
type DisplayConfig struct {
	Format      string `mapstructure:"format"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		HTTP: HTTPConfig{
			Addr:           ":5000",
			MaxUploadBytes: 32 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   120 * time.Second,
		},
		HEIC: HEICConfig{
			Modern:              true,
			Legacy:              true,
			IntermediateFormat:  "png",
			IntermediateQuality: 95,
		},
		OCR: OCRConfig{
			Languages:   []string{"tha", "eng"},
			PageSegMode: 3,
		},
		Display: DisplayConfig{
			Format:      "jpeg",
			JPEGQuality: 95,
		},
	}
}

// SetDefaults registers every default from New on v so that environment
// variables can override keys that were never set explicitly.
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.max_upload_bytes", d.HTTP.MaxUploadBytes)
	v.SetDefault("http.read_timeout", d.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", d.HTTP.WriteTimeout)
	v.SetDefault("heic.modern", d.HEIC.Modern)
	v.SetDefault("heic.legacy", d.HEIC.Legacy)
	v.SetDefault("heic.intermediate_format", d.HEIC.IntermediateFormat)
	v.SetDefault("heic.intermediate_quality", d.HEIC.IntermediateQuality)
	v.SetDefault("ocr.languages", d.OCR.Languages)
	v.SetDefault("ocr.tessdata_prefix", d.OCR.TessdataPrefix)
	v.SetDefault("ocr.page_seg_mode", d.OCR.PageSegMode)
	v.SetDefault("display.format", d.Display.Format)
	v.SetDefault("display.jpeg_quality", d.Display.JPEGQuality)
}

// Load reads the configuration from v. If file is non-empty it is read first;
// a missing file is an error, a missing default file is not.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	// Decode into a zero Config: decoding over New() would merge a shorter
	// list element by element into the default slice.
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// PHOTOSCAN_OCR_LANGUAGES arrives as "tha,eng" or "tha+eng".
	cfg.OCR.Languages = splitLanguages(cfg.OCR.Languages)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Display.Format) {
	case "jpeg", "jpg", "png":
	default:
		return fmt.Errorf("invalid display.format %q: want jpeg or png", c.Display.Format)
	}
	switch strings.ToLower(c.HEIC.IntermediateFormat) {
	case "jpeg", "jpg", "png":
	default:
		return fmt.Errorf("invalid heic.intermediate_format %q: want jpeg or png", c.HEIC.IntermediateFormat)
	}
	if c.Display.JPEGQuality < 1 || c.Display.JPEGQuality > 100 {
		return fmt.Errorf("invalid display.jpeg_quality %d: want 1-100", c.Display.JPEGQuality)
	}
	if c.HEIC.IntermediateQuality < 1 || c.HEIC.IntermediateQuality > 100 {
		return fmt.Errorf("invalid heic.intermediate_quality %d: want 1-100", c.HEIC.IntermediateQuality)
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid http.max_upload_bytes %d: must be positive", c.HTTP.MaxUploadBytes)
	}
	if len(c.OCR.Languages) == 0 {
		return fmt.Errorf("ocr.languages must name at least one language")
	}
	return nil
}

func splitLanguages(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, lang := range strings.FieldsFunc(item, func(r rune) bool {
			return r == ',' || r == '+' || r == ' '
		}) {
			out = append(out, lang)
		}
	}
	return out
}
