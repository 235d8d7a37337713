package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/tanq16/ytfetch/internal/utils"
)

const (
	KeyYtdlpPath  = "ytdlp_path"
	KeyFFmpegPath = "ffmpeg_path"
	KeyOutputDir  = "output_dir"
	KeySubLang    = "sub_lang"
	KeyTimeout    = "timeout"
	KeyDebug      = "debug"

	EnvPrefix      = "YTFETCH"
	configDirName  = "ytfetch"
	configFileName = "config.yaml"
)

type Config struct {
	YtdlpPath  string
	FFmpegPath string
	OutputDir  string
	SubLang    string
	Timeout    time.Duration
	Debug      bool
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyYtdlpPath, "")
	v.SetDefault(KeyFFmpegPath, "")
	v.SetDefault(KeyOutputDir, utils.DefaultOutputDir())
	v.SetDefault(KeySubLang, utils.DefaultSubLang)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyDebug, false)
}

// Load resolves the configuration from v. Flags bound to v win over
// YTFETCH_* variables, which win over the config file and then defaults.
// An explicit configFile must exist; the per-user file is optional.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = userConfigFile()
	} else if _, err := os.Stat(configFile); err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		log.Debug().Str("op", "config/load").Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	cfg := Config{
		YtdlpPath:  strings.TrimSpace(v.GetString(KeyYtdlpPath)),
		FFmpegPath: expandHome(strings.TrimSpace(v.GetString(KeyFFmpegPath))),
		OutputDir:  expandHome(strings.TrimSpace(v.GetString(KeyOutputDir))),
		SubLang:    strings.TrimSpace(v.GetString(KeySubLang)),
		Timeout:    v.GetDuration(KeyTimeout),
		Debug:      v.GetBool(KeyDebug),
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = utils.DefaultOutputDir()
	}
	if cfg.SubLang == "" {
		cfg.SubLang = utils.DefaultSubLang
	}
	if cfg.Timeout < 0 {
		return Config{}, errors.New("timeout must not be negative")
	}
	return cfg, nil
}

// userConfigFile returns $XDG_CONFIG_HOME/ytfetch/config.yaml when present.
func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, configDirName, configFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
