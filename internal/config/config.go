package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"gitsandbox/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	Shell   ShellSettings `toml:"shell"`
	Sandbox SandboxConfig `toml:"sandbox"`
	Git     GitSettings   `toml:"git"`
	Editor  EditorConfig  `toml:"editor"`
	UI      UISettings    `toml:"ui"`
	Log     LogSettings   `toml:"log"`
}

// ShellSettings shape the prompt and the home directory
type ShellSettings struct {
	User string `toml:"user"`
	Host string `toml:"host"`
	Home string `toml:"home"`
}

// SandboxConfig picks where sandbox files live
type SandboxConfig struct {
	Backend string `toml:"backend"` // "directory" or "memory"
	Root    string `toml:"root"`    // host directory, a temp dir when empty
	Seed    bool   `toml:"seed"`
	Keep    bool   `toml:"keep"` // keep a temp root after exit
}

// GitSettings configure the git engine
type GitSettings struct {
	Binary        string   `toml:"binary"`
	AuthorName    string   `toml:"author_name"`
	AuthorEmail   string   `toml:"author_email"`
	Timeout       Duration `toml:"timeout"`
	ProbeAttempts int      `toml:"probe_attempts"`
	ProbeInterval Duration `toml:"probe_interval"`
}

// EditorConfig tunes the built-in editor
type EditorConfig struct {
	TabWidth    int  `toml:"tab_width"`
	LineNumbers bool `toml:"line_numbers"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	NoticeTimeout Duration `toml:"notice_timeout"`
	Color         bool     `toml:"color"`
}

// LogSettings say where the log goes
type LogSettings struct {
	File string `toml:"file"`
}

// Duration is a time.Duration written as "1.5s" in the file
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/gitsandbox/config.toml, falling back
// to ~/.config
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "gitsandbox", "config.toml")
}

// NewConfigService creates a config service for path, or DefaultPath when
// path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the service's file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:    cs.filePath,
			Backend: cfg.Sandbox.Backend,
		})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects values the shell cannot run with
func (c *Config) Validate() error {
	switch c.Sandbox.Backend {
	case "directory", "memory":
	default:
		return fmt.Errorf("invalid sandbox backend %q: want directory or memory", c.Sandbox.Backend)
	}
	if c.Shell.Home == "" || c.Shell.Home[0] != '/' {
		return fmt.Errorf("invalid home %q: must be an absolute sandbox path", c.Shell.Home)
	}
	if c.Git.ProbeAttempts < 1 {
		return fmt.Errorf("invalid git probe_attempts %d: must be at least 1", c.Git.ProbeAttempts)
	}
	if c.Editor.TabWidth < 1 {
		return fmt.Errorf("invalid editor tab_width %d: must be at least 1", c.Editor.TabWidth)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Shell: ShellSettings{
			User: "user",
			Host: "sandbox",
			Home: "/home/user",
		},
		Sandbox: SandboxConfig{
			Backend: "directory",
			Seed:    true,
		},
		Git: GitSettings{
			Binary:        "git",
			AuthorName:    "Sandbox User",
			AuthorEmail:   "user@sandbox.local",
			Timeout:       Duration{30 * time.Second},
			ProbeAttempts: 5,
			ProbeInterval: Duration{200 * time.Millisecond},
		},
		Editor: EditorConfig{
			TabWidth:    4,
			LineNumbers: true,
		},
		UI: UISettings{
			NoticeTimeout: Duration{1500 * time.Millisecond},
			Color:         true,
		},
		Log: LogSettings{
			File: "gitsandbox.log",
		},
	}
}
