package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/P8labs/foxctl/cache"
	"github.com/P8labs/foxctl/client"
	"github.com/P8labs/foxctl/config"
	"github.com/P8labs/foxctl/event"
	"github.com/P8labs/foxctl/state"
)

// watcher polls the daemon for devices and turns differences between polls
// into events. Only the polling goroutine touches the cache.
type watcher struct {
	client  *client.Client
	cache   cache.DeviceCache
	filter  event.DeviceEventFilter
	handler event.DeviceEventHandler
	logger  *slog.Logger
	uiApp   *UIApp
	out     io.Writer
	now     func() time.Time
}

func runWatch(ctx context.Context, cfg config.Config, apiClient *client.Client, logHandler slog.Handler) error {
	logger := slog.New(logHandler)
	eventsCfg := cfg.WatchConfig.EventsConfig

	deviceCache, err := loadState(cfg.StateFileName)
	if err != nil {
		return err
	}

	filter, err := loadFilter(*eventsCfg.ExcludeConfig)
	if err != nil {
		return err
	}

	eventDir := *eventsCfg.Directory
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if delay := *eventsCfg.AutoCleanupDelaySec; delay > 0 {
		janitor, err := event.NewEventJanitor(logHandler, eventDir, delay)
		if err != nil {
			return err
		}
		janitor.Start(ctx)
	}

	w := &watcher{
		client:  apiClient,
		cache:   deviceCache,
		filter:  filter,
		handler: event.NewDeviceEventHandler(logHandler, eventDir, enabledEventTypes(*eventsCfg.TypeConfig), nil),
		logger:  logger,
		out:     os.Stdout,
		now:     time.Now,
	}

	uiDone := make(chan error, 1)
	if *cfg.WatchConfig.Ui {
		w.uiApp = newUIApp(apiClient.BaseURL())
		w.out = io.Discard
		go func() {
			uiDone <- w.uiApp.run()
			cancel()
		}()
	}

	interval := time.Duration(*cfg.WatchConfig.IntervalSec) * time.Second
	w.run(ctx, interval)

	if w.uiApp != nil {
		w.uiApp.stop()
		if err = <-uiDone; err != nil {
			logger.Error("terminal UI failed", "error", err)
		}
	}
	return saveState(cfg.StateFileName, w.cache)
}

func (w *watcher) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := w.poll(ctx); err != nil && ctx.Err() == nil {
			// the daemon may be restarting, keep polling
			w.logger.Error("poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *watcher) poll(ctx context.Context) error {
	resp, err := w.client.Devices(ctx)
	if err != nil {
		return err
	}

	w.refreshRules(ctx)

	ts := w.now().UnixMilli()
	for _, device := range resp.Devices {
		if w.filter.IsExcluded(device.IP(), device.MACAddress) {
			continue
		}

		deviceEvent, err := w.cache.Update(device, ts)
		if err != nil {
			w.logger.Warn("device skipped", "MAC", device.MACAddress, "error", err)
			continue
		}
		w.handler.Handle(&deviceEvent)
		w.print(deviceEvent)

		if w.uiApp != nil {
			w.uiApp.upsert(deviceEvent)
		}
	}

	if w.uiApp != nil {
		if health, err := w.client.Health(ctx); err == nil {
			w.uiApp.setUptime(health.UptimeSeconds)
		}
		w.uiApp.refresh()
	}
	return nil
}

// refreshRules keeps the previous rule set when the daemon cannot serve it,
// the same way a failed poll is retried on the next tick.
func (w *watcher) refreshRules(ctx context.Context) {
	resp, err := w.client.Rules(ctx)
	if err != nil {
		w.logger.Warn("unable to refresh rules", "error", err)
		return
	}
	w.handler = w.handler.WithRules(resp.Rules)
}

func (w *watcher) print(deviceEvent event.DeviceEvent) {
	for _, eventType := range deviceEvent.Types() {
		if eventType == event.DeviceSeen {
			continue
		}
		_, _ = fmt.Fprintf(w.out, "%v %v %v %v\n",
			time.UnixMilli(deviceEvent.Ts).Format(time.DateTime), eventType, deviceEvent.Device.MACAddress, deviceEvent.Device.DisplayName())
	}
}

func enabledEventTypes(types config.EventTypeConfig) map[event.Type]bool {
	return map[event.Type]bool{
		event.DeviceSeen:         *types.Any,
		event.NewDevice:          *types.NewDevice,
		event.DeviceConnected:    *types.Connected,
		event.DeviceDisconnected: *types.Disconnected,
		event.DeviceStatusChange: *types.StatusChange,
	}
}

func loadFilter(excludeCfg config.ExcludeConfig) (event.DeviceEventFilter, error) {
	var excludeIPs, excludeMACs map[string]struct{}
	if excludeCfg.IpFile != nil {
		data, err := os.ReadFile(*excludeCfg.IpFile)
		if err != nil {
			return event.DeviceEventFilter{}, err
		}
		if excludeIPs, err = event.ReadIPs(data); err != nil {
			return event.DeviceEventFilter{}, fmt.Errorf("%v: %w", *excludeCfg.IpFile, err)
		}
	}
	if excludeCfg.MacFile != nil {
		data, err := os.ReadFile(*excludeCfg.MacFile)
		if err != nil {
			return event.DeviceEventFilter{}, err
		}
		if excludeMACs, err = event.ReadMACs(data); err != nil {
			return event.DeviceEventFilter{}, fmt.Errorf("%v: %w", *excludeCfg.MacFile, err)
		}
	}
	return event.NewDeviceEventFilter(excludeIPs, excludeMACs), nil
}

// loadState restores the device cache. A missing state file is a first run.
func loadState(stateFileName *string) (cache.DeviceCache, error) {
	if stateFileName == nil || *stateFileName == "" {
		return cache.NewDeviceCache(), nil
	}

	stateBytes, err := os.ReadFile(*stateFileName)
	if errors.Is(err, os.ErrNotExist) {
		return cache.NewDeviceCache(), nil
	} else if err != nil {
		return cache.DeviceCache{}, err
	}

	if errs := state.ValidateState(stateBytes); len(errs) > 0 {
		return cache.DeviceCache{}, fmt.Errorf("invalid state file %v: %w", *stateFileName, errors.Join(errs...))
	}
	appState, err := state.FromJson(stateBytes)
	if err != nil {
		return cache.DeviceCache{}, err
	}
	return cache.FromAppState(appState)
}

func saveState(stateFileName *string, deviceCache cache.DeviceCache) error {
	if stateFileName == nil || strings.TrimSpace(*stateFileName) == "" {
		return nil
	}

	appState := deviceCache.ToAppState()
	stateBytes, err := appState.ToJson()
	if err != nil {
		return err
	}
	return os.WriteFile(*stateFileName, stateBytes, 0644)
}
