package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Static resources loaded once at startup.
	DataPath        string `mapstructure:"data_path" yaml:"data_path"`
	TransformerPath string `mapstructure:"transformer_path" yaml:"transformer_path"`
	ModelPath       string `mapstructure:"model_path" yaml:"model_path"`

	// HTTP dashboard
	ListenAddr  string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	// Figure geometry (pixels per panel)
	FigureWidth  int `mapstructure:"figure_width" yaml:"figure_width"`
	FigureHeight int `mapstructure:"figure_height" yaml:"figure_height"`

	// Offline rendering
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.premiumlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file (cfgFile or ~/.premiumlens/config.yaml) > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PREMIUMLENS")
	v.AutomaticEnv()

	v.SetDefault("data_path", filepath.Join("data", "insurance.csv"))
	v.SetDefault("transformer_path", filepath.Join("artifacts", "transformer.yaml"))
	v.SetDefault("model_path", filepath.Join("artifacts", "model.json"))
	v.SetDefault("listen_addr", ":8501")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("figure_width", 400)
	v.SetDefault("figure_height", 340)
	v.SetDefault("output_dir", "report")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail later at render or serve time.
func (c *Global) Validate() error {
	if c.FigureWidth <= 0 || c.FigureHeight <= 0 {
		return fmt.Errorf("invalid figure size %dx%d", c.FigureWidth, c.FigureHeight)
	}
	for _, o := range c.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("invalid cors origin %q: want * or an http(s) URL", o)
		}
	}
	return nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".premiumlens"), nil
}
