package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	DataDir string        `yaml:"dataDir"`
	Adapter AdapterConfig `yaml:"adapter"`
}

type AdapterConfig struct {
	// PollInterval is the sleep between poll cycles. ~1ms bounds input latency
	// without busy-spinning.
	PollInterval Duration `yaml:"pollInterval"`
	// ReadTimeout bounds a single USB transfer.
	ReadTimeout Duration `yaml:"readTimeout"`
}

func DefaultConfig(configDir string) Config {
	return Config{
		DataDir: filepath.Join(configDir, "data"),
		Adapter: AdapterConfig{
			PollInterval: Duration(1 * time.Millisecond),
			ReadTimeout:  Duration(16 * time.Millisecond),
		},
	}
}

// LoadConfig reads the config file at path, falling back to defaults when the
// file does not exist. Fields absent from the file keep their defaults.
func LoadConfig(path, configDir string) (Config, error) {
	config := DefaultConfig(configDir)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return config, nil
	case err != nil:
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// Duration unmarshals from YAML strings like "1ms".
type Duration time.Duration

func (d Duration) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(data []byte) error {
	var s string
	if err := yaml.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}
