package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
	} `yaml:"logger"`
	Device struct {
		Ordinal int32 `yaml:"ordinal"`
	} `yaml:"device"`
	Gemm struct {
		M         int     `yaml:"m"`
		N         int     `yaml:"n"`
		K         int     `yaml:"k"`
		Alpha     float64 `yaml:"alpha"`
		Beta      float64 `yaml:"beta"`
		Precision string  `yaml:"precision"`
		Batch     int     `yaml:"batch"`
	} `yaml:"gemm"`
	Metrics struct {
		ListenAddress string `yaml:"listenAddress"`
	} `yaml:"metrics"`
}

// DefaultConfig returns the configuration used when no file is given:
// device 0, a 256-cube double-precision GEMM, metrics on :9090.
func DefaultConfig() *Config {
	var c Config
	c.Logger.Verbosity = "info"
	c.Gemm.M = 256
	c.Gemm.N = 256
	c.Gemm.K = 256
	c.Gemm.Alpha = 1
	c.Gemm.Precision = "double"
	c.Gemm.Batch = 1
	c.Metrics.ListenAddress = ":9090"
	return &c
}

// LoadConfig reads a YAML config, layering it over the defaults. An empty
// path returns the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Gemm.M < 1 || c.Gemm.N < 1 || c.Gemm.K < 1 {
		return fmt.Errorf("gemm dimensions must be positive, got %dx%dx%d", c.Gemm.M, c.Gemm.N, c.Gemm.K)
	}
	if c.Gemm.Batch < 1 {
		return fmt.Errorf("gemm batch must be at least 1, got %d", c.Gemm.Batch)
	}
	switch c.Gemm.Precision {
	case "single", "double":
	default:
		return fmt.Errorf("unknown gemm precision %q", c.Gemm.Precision)
	}
	return nil
}
