package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"golang.org/x/sys/unix"
)

// APIURLEnv overrides the configured daemon API base URL.
const APIURLEnv = "FOXD_API_URL"

type EventTypeConfig struct {
	Any          *bool `yaml:"any"`
	NewDevice    *bool `yaml:"newDevice"`
	Connected    *bool `yaml:"connected"`
	Disconnected *bool `yaml:"disconnected"`
	StatusChange *bool `yaml:"statusChange"`
}

type ExcludeConfig struct {
	IpFile  *string `yaml:"ipFile"`
	MacFile *string `yaml:"macFile"`
}

type EventsConfig struct {
	Directory           *string          `yaml:"directory"`
	AutoCleanupDelaySec *uint            `yaml:"autoCleanupDelaySec"`
	ExcludeConfig       *ExcludeConfig   `yaml:"exclude"`
	TypeConfig          *EventTypeConfig `yaml:"types"`
}

type WatchConfig struct {
	IntervalSec  *uint         `yaml:"intervalSec"`
	Ui           *bool         `yaml:"ui"`
	EventsConfig *EventsConfig `yaml:"events"`
}

type ApiConfig struct {
	Url        *string `yaml:"url"`
	TimeoutSec *uint   `yaml:"timeoutSec"`
}

type Config struct {
	ApiConfig     *ApiConfig   `yaml:"api"`
	LogFileName   *string      `yaml:"log"`
	StateFileName *string      `yaml:"stateFile"`
	WatchConfig   *WatchConfig `yaml:"watch"`
}

// GetConfig layers, from lowest to highest precedence: defaults, the YAML
// document in data, the FOXD_API_URL environment variable, and flags.
func GetConfig(data []byte, apiUrl *string, timeout *uint, log *string, state *string) (Config, error) {
	config, err := readConfig(data)
	if err != nil {
		return Config{}, err
	}
	config.applyEnv(os.Getenv(APIURLEnv))
	config.applyOverrides(apiUrl, timeout, log, state)
	err = config.applyDefaults()
	if err != nil {
		return Config{}, err
	}
	err = config.validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

func readConfig(data []byte) (Config, error) {
	config := &Config{}
	err := yaml.UnmarshalWithOptions(data, config, yaml.Strict())
	if err != nil {
		return Config{}, err
	}
	return *config, nil
}

func (cfg *Config) applyEnv(apiUrl string) {
	if apiUrl == "" {
		return
	}
	if cfg.ApiConfig == nil {
		cfg.ApiConfig = &ApiConfig{}
	}
	cfg.ApiConfig.Url = &apiUrl
}

func (cfg *Config) applyOverrides(apiUrl *string, timeout *uint, log *string, state *string) {
	if cfg.ApiConfig == nil {
		cfg.ApiConfig = &ApiConfig{}
	}
	if apiUrl != nil {
		cfg.ApiConfig.Url = apiUrl
	}
	if timeout != nil {
		cfg.ApiConfig.TimeoutSec = timeout
	}
	if log != nil {
		cfg.LogFileName = log
	}
	if state != nil {
		cfg.StateFileName = state
	}
}

func (cfg *Config) applyDefaults() error {
	defaultUrl := "http://127.0.0.1:8080/api"
	defaultLog := "foxctl.log"
	defaultTimeout := uint(10)
	defaultInterval := uint(5)
	yes := true
	no := false
	zero := uint(0)

	if cfg.ApiConfig == nil {
		cfg.ApiConfig = &ApiConfig{}
	}
	if cfg.ApiConfig.Url == nil || *cfg.ApiConfig.Url == "" {
		cfg.ApiConfig.Url = &defaultUrl
	}
	if cfg.ApiConfig.TimeoutSec == nil {
		cfg.ApiConfig.TimeoutSec = &defaultTimeout
	}
	if cfg.LogFileName == nil {
		cfg.LogFileName = &defaultLog
	}
	if cfg.WatchConfig == nil {
		cfg.WatchConfig = &WatchConfig{}
	}
	if cfg.WatchConfig.IntervalSec == nil {
		cfg.WatchConfig.IntervalSec = &defaultInterval
	}
	if cfg.WatchConfig.Ui == nil {
		cfg.WatchConfig.Ui = &yes
	}

	events := cfg.WatchConfig.EventsConfig
	if events == nil {
		events = &EventsConfig{}
		cfg.WatchConfig.EventsConfig = events
	}
	if events.AutoCleanupDelaySec == nil {
		events.AutoCleanupDelaySec = &zero
	}

	eventDirPath, err := eventDirPath(events.Directory)
	if err != nil {
		return err
	}
	events.Directory = &eventDirPath

	if events.ExcludeConfig == nil {
		events.ExcludeConfig = &ExcludeConfig{}
	}
	if events.TypeConfig == nil {
		events.TypeConfig = &EventTypeConfig{}
	}
	types := events.TypeConfig
	for _, flag := range []**bool{&types.Any, &types.NewDevice, &types.Connected, &types.Disconnected, &types.StatusChange} {
		if *flag == nil {
			*flag = &no
		}
	}
	return nil
}

func eventDirPath(eventsDirSuffix *string) (string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	var suffix string
	if eventsDirSuffix != nil {
		suffix = *eventsDirSuffix
	}
	if filepath.IsAbs(suffix) {
		return filepath.Clean(suffix), nil
	}

	eventDirPath := filepath.Join(pwd, suffix)
	absEventDirPath, err := filepath.Abs(eventDirPath)
	if err != nil {
		return "", err
	}

	return absEventDirPath, nil
}

func (cfg *Config) validate() error {
	apiUrl, err := url.Parse(*cfg.ApiConfig.Url)
	if err != nil {
		return fmt.Errorf("invalid api url %v: %v", *cfg.ApiConfig.Url, err)
	} else if apiUrl.Scheme != "http" && apiUrl.Scheme != "https" {
		return fmt.Errorf("api url should be http or https, got: %v", *cfg.ApiConfig.Url)
	} else if apiUrl.Host == "" {
		return fmt.Errorf("api url has no host: %v", *cfg.ApiConfig.Url)
	}

	if *cfg.WatchConfig.IntervalSec == 0 {
		return fmt.Errorf("watch interval should be at least 1 second")
	}

	return nil
}

// ValidateWatch checks what only the watch command touches: the events
// directory and the exclusion files.
func (cfg Config) ValidateWatch() error {
	events := cfg.WatchConfig.EventsConfig

	// we might want to make it work on Windows one day. today is not that day
	if unix.Access(*events.Directory, unix.W_OK) != nil {
		return fmt.Errorf("directory does not exist or is not writable: %v", *events.Directory)
	}

	excludeFiles := []*string{
		events.ExcludeConfig.IpFile,
		events.ExcludeConfig.MacFile,
	}
	for _, excludeFile := range excludeFiles {
		if excludeFile != nil {
			if _, err := os.Stat(*excludeFile); err != nil {
				return fmt.Errorf("file does not exist: %v", *excludeFile)
			}
		}
	}

	return nil
}

// Render returns the effective configuration as YAML.
func (cfg Config) Render() ([]byte, error) {
	return yaml.Marshal(cfg)
}
