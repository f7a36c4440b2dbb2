package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	defaultUrl  = "http://127.0.0.1:8080/api"
	customUrl   = "https://fox.lan/api"
	flagUrl     = "http://10.0.0.2:8080/api"
	defaultLog  = "foxctl.log"
	customLog   = "custom.log"
	state       = "foxstate.json"
	defaultDir  = getDir("")
	yes         = true
	no          = false
	_0          = uint(0)
	_3          = uint(3)
	_5          = uint(5)
	_10         = uint(10)
	_30         = uint(30)
	_60         = uint(60)
	defaultType = EventTypeConfig{Any: &no, NewDevice: &no, Connected: &no, Disconnected: &no, StatusChange: &no}
)

func Test_GetConfigCustom(t *testing.T) {
	t.Parallel()

	customDir := t.TempDir()
	data := []byte(`
api:
  url: https://fox.lan/api
  timeoutSec: 3
log: custom.log
stateFile: foxstate.json
watch:
  intervalSec: 30
  ui: false
  events:
    directory: ` + customDir + `
    autoCleanupDelaySec: 60
    types:
      any: true
      newDevice: true
      connected: true
      disconnected: true
      statusChange: true
`)

	c, err := GetConfig(data, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Error loading yaml: %v", err)
	}

	expC := Config{
		ApiConfig:     &ApiConfig{Url: &customUrl, TimeoutSec: &_3},
		LogFileName:   &customLog,
		StateFileName: &state,
		WatchConfig: &WatchConfig{
			IntervalSec: &_30,
			Ui:          &no,
			EventsConfig: &EventsConfig{
				Directory:           &customDir,
				AutoCleanupDelaySec: &_60,
				ExcludeConfig:       &ExcludeConfig{},
				TypeConfig: &EventTypeConfig{
					Any:          &yes,
					NewDevice:    &yes,
					Connected:    &yes,
					Disconnected: &yes,
					StatusChange: &yes,
				},
			},
		},
	}

	diff := cmp.Diff(c, expC)
	if diff != "" {
		t.Fatalf("Custom structs differ: %v", diff)
	}
}

func Test_GetConfigEmpty(t *testing.T) {
	t.Parallel()

	data := []byte(``)

	c, err := GetConfig(data, nil, nil, nil, &state)
	if err != nil {
		t.Fatalf("Error loading yaml: %v", err)
	}

	types := defaultType
	expC := Config{
		ApiConfig:     &ApiConfig{Url: &defaultUrl, TimeoutSec: &_10},
		LogFileName:   &defaultLog,
		StateFileName: &state,
		WatchConfig: &WatchConfig{
			IntervalSec: &_5,
			Ui:          &yes,
			EventsConfig: &EventsConfig{
				Directory:           &defaultDir,
				AutoCleanupDelaySec: &_0,
				ExcludeConfig:       &ExcludeConfig{},
				TypeConfig:          &types,
			},
		},
	}

	diff := cmp.Diff(c, expC)
	if diff != "" {
		t.Fatalf("Default structs differ: %v", diff)
	}
}

func Test_GetConfigOverrides(t *testing.T) {
	t.Parallel()

	data := []byte(`
api:
  url: https://fox.lan/api
  timeoutSec: 3
log: custom.log
watch:
  events:
    types:
      newDevice: true
`)

	c, err := GetConfig(data, &flagUrl, &_0, &defaultLog, nil)
	if err != nil {
		t.Fatalf("Error loading yaml: %v", err)
	}

	if *c.ApiConfig.Url != flagUrl {
		t.Fatal("flag should override api url, got:", *c.ApiConfig.Url)
	}
	if *c.ApiConfig.TimeoutSec != 0 {
		t.Fatal("flag should override timeout, got:", *c.ApiConfig.TimeoutSec)
	}
	if *c.LogFileName != defaultLog {
		t.Fatal("flag should override log file, got:", *c.LogFileName)
	}
	if c.StateFileName != nil {
		t.Fatal("state file should stay unset")
	}

	expTypes := defaultType
	expTypes.NewDevice = &yes
	if diff := cmp.Diff(*c.WatchConfig.EventsConfig.TypeConfig, expTypes); diff != "" {
		t.Fatalf("Event types differ: %v", diff)
	}
}

func Test_GetConfigEnv(t *testing.T) {
	t.Setenv(APIURLEnv, "http://192.168.1.2:8080/api")

	c, err := GetConfig([]byte(`api: {url: "https://fox.lan/api"}`), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Error loading yaml: %v", err)
	}
	if *c.ApiConfig.Url != "http://192.168.1.2:8080/api" {
		t.Fatal("env should override the config file, got:", *c.ApiConfig.Url)
	}

	c, err = GetConfig(nil, &flagUrl, nil, nil, nil)
	if err != nil {
		t.Fatalf("Error loading yaml: %v", err)
	}
	if *c.ApiConfig.Url != flagUrl {
		t.Fatal("flag should override env, got:", *c.ApiConfig.Url)
	}
}

func Test_GetConfigInvalid(t *testing.T) {
	t.Parallel()

	data := map[string]string{
		"extra property":          "extraProperty: unexpected\nlog: custom.log",
		"relative api url":        "api:\n  url: /api",
		"unsupported scheme":      "api:\n  url: ftp://fox.lan/api",
		"unparseable api url":     "api:\n  url: \"http://[::1\"",
		"zero watch interval":     "watch:\n  intervalSec: 0",
		"unknown event type flag": "watch:\n  events:\n    types:\n      newIpForMac: true",
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := GetConfig([]byte(d), nil, nil, nil, nil)
			if err == nil {
				t.Fatal("No error on invalid data")
			}
		})
	}
}

func Test_ValidateWatch(t *testing.T) {
	t.Parallel()

	macFile := filepath.Join(t.TempDir(), "macs.txt")
	if err := os.WriteFile(macFile, []byte("aa:bb:cc:dd:ee:ff\n"), 0644); err != nil {
		t.Fatal("unexpected error writing test file:", err)
	}

	data := map[string]struct {
		config string
		ok     bool
	}{
		"defaults":              {"", true},
		"existing mac file":     {"watch:\n  events:\n    exclude:\n      macFile: " + macFile, true},
		"nonexistent event dir": {"watch:\n  events:\n    directory: nonexistent", false},
		"nonexistent ip file":   {"watch:\n  events:\n    exclude:\n      ipFile: nonexistent.txt", false},
		"nonexistent mac file":  {"watch:\n  events:\n    exclude:\n      macFile: nonexistent.txt", false},
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// commands other than watch never touch these paths
			c, err := GetConfig([]byte(d.config), nil, nil, nil, nil)
			if err != nil {
				t.Fatalf("Error loading yaml: %v", err)
			}
			err = c.ValidateWatch()
			if (err == nil) != d.ok {
				t.Fatalf("unexpected result, expected ok: %v, got error: %v", d.ok, err)
			}
		})
	}
}

func Test_Render(t *testing.T) {
	t.Parallel()

	c, err := GetConfig(nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Error loading yaml: %v", err)
	}
	rendered, err := c.Render()
	if err != nil {
		t.Fatal("unexpected render error:", err)
	}

	reloaded, err := readConfig(rendered)
	if err != nil {
		t.Fatal("rendered config should be readable:", err)
	}
	if diff := cmp.Diff(c, reloaded); diff != "" {
		t.Fatalf("Rendered config differs: %v", diff)
	}
}

func getDir(path string) string {
	pwd, _ := os.Getwd()
	eventDirPath := filepath.Join(pwd, path)
	absEventDirPath, _ := filepath.Abs(eventDirPath)
	return absEventDirPath
}
