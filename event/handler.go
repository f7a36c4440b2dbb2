package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/P8labs/foxctl/model"
	"github.com/P8labs/foxctl/oui"
)

type DeviceEventHandler struct {
	logHandler slog.Handler
	eventDir   string
	enabled    map[Type]bool
	rules      []model.Rule
}

// NewDeviceEventHandler writes event files for the enabled types only. Rules
// are used to annotate each event with the names of the rules that would fire.
func NewDeviceEventHandler(logHandler slog.Handler, eventDir string, enabled map[Type]bool, rules []model.Rule) DeviceEventHandler {
	return DeviceEventHandler{
		logHandler: logHandler,
		eventDir:   eventDir,
		enabled:    enabled,
		rules:      rules,
	}
}

// WithRules returns a copy of h annotating events with rules instead.
func (h DeviceEventHandler) WithRules(rules []model.Rule) DeviceEventHandler {
	h.rules = rules
	return h
}

// Handle returns the event types written to the event directory.
func (h DeviceEventHandler) Handle(deviceEvent *DeviceEvent) []Type {
	h.lookupMacVendor(deviceEvent)
	h.handleLog(*deviceEvent)
	return h.handleEventFiles(*deviceEvent)
}

func (h DeviceEventHandler) lookupMacVendor(deviceEvent *DeviceEvent) {
	deviceEvent.MacVendor = oui.DeviceVendor(deviceEvent.Device)
}

func (h DeviceEventHandler) handleLog(deviceEvent DeviceEvent) {
	if h.logHandler == nil {
		return
	}

	for _, eventType := range deviceEvent.Types() {
		level := slog.LevelInfo
		if eventType == DeviceSeen {
			level = slog.LevelDebug
		}
		if !h.logHandler.Enabled(context.Background(), level) {
			continue
		}

		r := slog.NewRecord(time.UnixMilli(deviceEvent.Ts), level, "device event", 0)
		r.AddAttrs(
			slog.String("type", eventType.describe()),
			slog.String("MAC", deviceEvent.Device.MACAddress),
			slog.String("IP", deviceEvent.Device.IP()),
			slog.String("status", string(deviceEvent.Device.Status)),
		)
		_ = h.logHandler.Handle(context.Background(), r)
	}
}

func (h DeviceEventHandler) handleEventFiles(deviceEvent DeviceEvent) []Type {
	var written []Type
	for _, eventType := range deviceEvent.Types() {
		if !h.enabled[eventType] {
			continue
		}
		notification := deviceEvent.toNotification(eventType, h.matchingRules(eventType, deviceEvent.Device.MACAddress))
		if h.storeNotification(notification, eventType) {
			written = append(written, eventType)
		}
	}
	return written
}

func (h DeviceEventHandler) matchingRules(eventType Type, mac string) []string {
	trigger, ok := eventType.Trigger()
	if !ok {
		return nil
	}

	var names []string
	for _, rule := range h.rules {
		if rule.TriggerType == trigger && rule.Fires() && rule.Matches(mac) {
			names = append(names, rule.Name)
		}
	}
	return names
}

func (h DeviceEventHandler) storeNotification(notification Notification, eventType Type) bool {
	eventFilePath := filepath.Join(h.eventDir, eventFileName(notification.Ts, eventType, notification.Mac))
	eventBytes, err := json.Marshal(notification)
	if err != nil {
		logError(h.logHandler, err.Error())
		return false
	}
	err = syncWriteToFile(eventFilePath, eventBytes)
	if err != nil {
		logError(h.logHandler, err.Error())
		return false
	}
	return true
}

// eventFileName carries the MAC so devices reported in the same poll do not
// overwrite each other.
func eventFileName(ts int64, eventType Type, mac string) string {
	return fmt.Sprintf("foxctl-%v-%v-%v.json", ts, int(eventType), strings.ReplaceAll(mac, ":", ""))
}

func syncWriteToFile(filename string, data []byte) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_SYNC, 0644)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if err1 := f.Close(); err1 != nil && err == nil {
		err = err1
	}
	return err
}
