package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Launch   LaunchConfig
	SFTP     SFTPConfig
	Legacy   LegacyConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds the log file destination.
type LogConfig struct {
	Path  string
	Level string
}

// LaunchConfig names the external programs used to open sessions.
type LaunchConfig struct {
	Terminal       string
	TerminalArgs   []string `mapstructure:"terminal_args"`
	SSHClient      string   `mapstructure:"ssh_client"`
	AuthHelper     string   `mapstructure:"auth_helper"`
	FileManagers   []string `mapstructure:"file_managers"`
	ServiceManager []string `mapstructure:"service_manager"`
	Services       []string
	CacheDir       string `mapstructure:"cache_dir"`
}

// SFTPConfig holds remote browse settings.
type SFTPConfig struct {
	KnownHosts string `mapstructure:"known_hosts"`
	Timeout    time.Duration
}

// LegacyConfig points at a servers.json written by the first release.
type LegacyConfig struct {
	JSONPath string `mapstructure:"json_path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ColumnStep int `mapstructure:"column_step"`
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func configFilePath() string {
	if p := os.Getenv("SSHMGR_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "sshmgr", "config.toml")
}

func setDefaults(v *viper.Viper) {
	dataDir := filepath.Join(home(), ".local", "share", "sshmgr")
	v.SetDefault("database.path", filepath.Join(dataDir, "connections.db"))
	v.SetDefault("log.path", filepath.Join(dataDir, "sshmgr.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("launch.terminal", "gnome-terminal")
	v.SetDefault("launch.terminal_args", []string{"--"})
	v.SetDefault("launch.ssh_client", "ssh")
	v.SetDefault("launch.auth_helper", "sshpass")
	v.SetDefault("launch.file_managers", []string{"nautilus", "nemo", "thunar", "pcmanfm"})
	v.SetDefault("launch.service_manager", []string{"systemctl", "--user", "restart"})
	v.SetDefault("launch.services", []string{
		"gvfs-daemon",
		"gvfs-ssh-volume-monitor",
		"gvfs-afc-volume-monitor",
		"gvfs-gphoto2-volume-monitor",
		"gvfs-mtp-volume-monitor",
	})
	v.SetDefault("launch.cache_dir", filepath.Join(home(), ".cache", "gvfs"))
	v.SetDefault("sftp.known_hosts", "")
	v.SetDefault("sftp.timeout", "0s")
	v.SetDefault("legacy.json_path", "")
	v.SetDefault("ui.column_step", 2)
}

// Load reads configuration from file and env. Env var overrides use prefix SSHMGR_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(configFilePath())

	v.SetEnvPrefix("SSHMGR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Launch.CacheDir = expandHome(c.Launch.CacheDir)
	c.Database.Path = expandHome(c.Database.Path)
	c.Log.Path = expandHome(c.Log.Path)
	c.SFTP.KnownHosts = expandHome(c.SFTP.KnownHosts)
	c.Legacy.JSONPath = expandHome(c.Legacy.JSONPath)
	if c.UI.ColumnStep <= 0 {
		c.UI.ColumnStep = 2
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := configFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("launch.terminal", cfg.Launch.Terminal)
	v.Set("launch.terminal_args", cfg.Launch.TerminalArgs)
	v.Set("launch.ssh_client", cfg.Launch.SSHClient)
	v.Set("launch.auth_helper", cfg.Launch.AuthHelper)
	v.Set("launch.file_managers", cfg.Launch.FileManagers)
	v.Set("launch.service_manager", cfg.Launch.ServiceManager)
	v.Set("launch.services", cfg.Launch.Services)
	v.Set("launch.cache_dir", cfg.Launch.CacheDir)
	v.Set("sftp.known_hosts", cfg.SFTP.KnownHosts)
	v.Set("sftp.timeout", cfg.SFTP.Timeout.String())
	v.Set("legacy.json_path", cfg.Legacy.JSONPath)
	v.Set("ui.column_step", cfg.UI.ColumnStep)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" {
		return home()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home(), p[2:])
	}
	return p
}
