package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	UI        UIConfig        `yaml:"ui"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

type StorageConfig struct {
	// Backend is "sqlite" or "file".
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type UIConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval"`
	// ProgressWidth is the bar width in cells.
	ProgressWidth int `yaml:"progress_width"`
}

type AlertsConfig struct {
	Bell    bool `yaml:"bell"`
	Desktop bool `yaml:"desktop"`
}

type SchedulerConfig struct {
	Buffer int `yaml:"buffer"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

func Default() Config {
	dataDir := DataDir()
	return Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    filepath.Join(dataDir, "tasktimer.db"),
		},
		UI: UIConfig{
			FrameInterval: 100 * time.Millisecond,
			ProgressWidth: 32,
		},
		Alerts: AlertsConfig{
			Bell:    true,
			Desktop: false,
		},
		Scheduler: SchedulerConfig{Buffer: 64},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dataDir, "tasktimer.log"),
		},
	}
}

// DataDir honours XDG_DATA_HOME and falls back to ~/.local/share.
func DataDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dir != "" {
		return filepath.Join(dir, "tasktimer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasktimer"
	}
	return filepath.Join(home, ".local", "share", "tasktimer")
}

// DefaultPath is the config file consulted when --config is not given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tasktimer", "config.yaml")
}

// Load layers defaults, the YAML file at path and TASKTIMER_* variables. A
// missing file is only an error when the caller named it explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if !os.IsNotExist(err) || explicit {
				return Config{}, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, cfg)
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "file":
	default:
		return fmt.Errorf("%w: storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("%w: storage.path is empty", ErrInvalidConfig)
	}
	if c.UI.FrameInterval <= 0 {
		return fmt.Errorf("%w: ui.frame_interval must be positive", ErrInvalidConfig)
	}
	if c.Scheduler.Buffer <= 0 {
		return fmt.Errorf("%w: scheduler.buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func FromEnv(base Config) Config {
	cfg := base
	if v := getEnvString("TASKTIMER_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := getEnvString("TASKTIMER_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v, ok := getEnvInt("TASKTIMER_FRAME_INTERVAL_MS"); ok && v > 0 {
		cfg.UI.FrameInterval = time.Duration(v) * time.Millisecond
	}
	if v, ok := getEnvInt("TASKTIMER_PROGRESS_WIDTH"); ok && v > 0 {
		cfg.UI.ProgressWidth = v
	}
	if v, ok := getEnvBool("TASKTIMER_ALERT_BELL"); ok {
		cfg.Alerts.Bell = v
	}
	if v, ok := getEnvBool("TASKTIMER_DESKTOP_NOTIFICATIONS"); ok {
		cfg.Alerts.Desktop = v
	}
	if v, ok := getEnvInt("TASKTIMER_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.Scheduler.Buffer = v
	}
	if v := getEnvString("TASKTIMER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getEnvString("TASKTIMER_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	return cfg
}

func getEnvString(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
