package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/barcoder/internal/export"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "BARCODER"

// Config holds the application configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Input     InputConfig     `mapstructure:"input" yaml:"input"`
	Transform TransformConfig `mapstructure:"transform" yaml:"transform"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type OutputConfig struct {
	Dir           string `mapstructure:"dir" yaml:"dir"`
	Format        string `mapstructure:"format" yaml:"format"`
	Zip           bool   `mapstructure:"zip" yaml:"zip"`
	ArchivePrefix string `mapstructure:"archive_prefix" yaml:"archive_prefix"`
	Encoding      string `mapstructure:"encoding" yaml:"encoding"`
}

type InputConfig struct {
	HeaderRows int `mapstructure:"header_rows" yaml:"header_rows"`
}

type TransformConfig struct {
	CoerceNumbers bool `mapstructure:"coerce_numbers" yaml:"coerce_numbers"`
	StrictColumns bool `mapstructure:"strict_columns" yaml:"strict_columns"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// Load reads defaults, then an optional config file, then BARCODER_*
// environment variables. An explicit configPath must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("barcoder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "barcoder"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:           ".",
			Format:        string(export.FormatCSV),
			Zip:           true,
			ArchivePrefix: export.DefaultArchivePrefix,
			Encoding:      string(export.EncodingUTF8),
		},
		Input:     InputConfig{HeaderRows: 0},
		Transform: TransformConfig{},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   "barcoder.log",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.zip", d.Output.Zip)
	v.SetDefault("output.archive_prefix", d.Output.ArchivePrefix)
	v.SetDefault("output.encoding", d.Output.Encoding)

	v.SetDefault("input.header_rows", d.Input.HeaderRows)

	v.SetDefault("transform.coerce_numbers", d.Transform.CoerceNumbers)
	v.SetDefault("transform.strict_columns", d.Transform.StrictColumns)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
}

// Validate checks values that would otherwise fail late in a run
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := export.ParseEncoding(c.Output.Encoding); err != nil {
		return err
	}
	if c.Input.HeaderRows < 0 {
		return fmt.Errorf("input.header_rows must not be negative, got %d", c.Input.HeaderRows)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// WriteDefault writes the default configuration as YAML. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
