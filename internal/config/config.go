package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level commoncode configuration.
type Config struct {
	PosixOnly      bool    `mapstructure:"posix_only"`
	PreserveSpaces bool    `mapstructure:"preserve_spaces"`
	Extract        Extract `mapstructure:"extract"`
	Walk           Walk    `mapstructure:"walk"`
}

// Extract configures the extract command.
type Extract struct {
	Output        string `mapstructure:"output"`
	Jobs          int    `mapstructure:"jobs"`
	AllowSymlinks bool   `mapstructure:"allow_symlinks"`
	MaxDictBytes  int64  `mapstructure:"max_dict_bytes"`
	PasswordFile  string `mapstructure:"password_file"`
}

// Walk configures the walk command.
type Walk struct {
	Patterns []string `mapstructure:"patterns"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from cfgFile, or from config.yaml in the default
// directory when cfgFile is empty, and applies environment overrides. A
// missing default file is not an error; a missing explicit file is.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("posix_only", false)
	v.SetDefault("preserve_spaces", false)
	v.SetDefault("extract.output", DefaultExtract.Output)
	v.SetDefault("extract.jobs", DefaultExtract.Jobs)
	v.SetDefault("extract.allow_symlinks", DefaultExtract.AllowSymlinks)
	v.SetDefault("extract.max_dict_bytes", DefaultExtract.MaxDictBytes)
	v.SetDefault("extract.password_file", DefaultExtract.PasswordFile)
	v.SetDefault("walk.patterns", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case cfgFile != "":
			return nil, fmt.Errorf("read config %q: %w", cfgFile, err)
		case errors.As(err, &notFound), os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Extract.Output = expandPath(cfg.Extract.Output)
	cfg.Extract.PasswordFile = expandPath(cfg.Extract.PasswordFile)
	if cfg.Extract.Jobs < 1 {
		cfg.Extract.Jobs = 1
	}
	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
