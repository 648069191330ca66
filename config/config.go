// Package config loads the client configuration: backend endpoints from
// the environment, board theme from a JSON file in the xdg config dir.
package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

var (
	cfgFile = "katagollum-tui/config.json"
	logFile = "katagollum-tui/debug.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// Endpoints are the two configurable base URLs. Both default to local
// loopback and can be overridden via environment variables.
type Endpoints struct {
	BaseURL   string `json:"api_url" env:"KATAGOLLUM_API_URL"`
	EngineURL string `json:"engine_url" env:"KATAGOLLUM_ENGINE_URL"`
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	BlackColor        int `json:"black"`
	WhiteColor        int `json:"white"`
	LineColor         int `json:"line"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	GhostColor        int `json:"ghost"`
	HoverColor        int `json:"hover"`
}

type ConfigSymbols struct {
	BlackStone rune `json:"black"`
	WhiteStone rune `json:"white"`
	GhostStone rune `json:"ghost"`
	HoverMark  rune `json:"hover"`
}

type Theme struct {
	UseGridLines bool          `json:"use_grid_lines"`
	Colors       ConfigColors  `json:"colors"`
	Symbols      ConfigSymbols `json:"symbols"`
}

type Config struct {
	Endpoints Endpoints `json:"endpoints"`
	LogLevel  string    `json:"log_level" env:"KATAGOLLUM_LOG_LEVEL"`
	SGFDir    string    `json:"sgf_dir" env:"KATAGOLLUM_SGF_DIR"`
	Theme     Theme     `json:"theme"`
}

// InitConfig builds the effective configuration: built-in defaults, then
// the user's JSON file if one exists, then environment overrides.
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Endpoints.BaseURL == "" || c.Endpoints.EngineURL == "" {
		return &InvalidConfig{"endpoint URLs must not be empty"}
	}
	for _, r := range []rune{c.Theme.Symbols.BlackStone, c.Theme.Symbols.WhiteStone, c.Theme.Symbols.GhostStone} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	return nil
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

// LogFilePath returns the debug log location under the user cache dir.
func LogFilePath() (string, error) {
	return xdg.CacheFile(logFile)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return fmt.Errorf("parse %s: %w", filePath, err)
	}
	return nil
}
