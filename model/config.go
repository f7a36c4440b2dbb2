package model

import (
	"fmt"
)

// Config is the daemon's full runtime configuration.
type Config struct {
	Daemon        DaemonConfig   `json:"daemon"`
	API           APIConfig      `json:"api"`
	Database      DatabaseConfig `json:"database"`
	Notifications Channels       `json:"notifications"`
}

type DaemonConfig struct {
	Interface                 string  `json:"interface"`
	NeighborCheckIntervalSecs uint64  `json:"neighbor_check_interval_secs"`
	DeviceTimeoutSecs         uint64  `json:"device_timeout_secs"`
	CaptureFilter             *string `json:"capture_filter"`
	LogCleanupEnabled         bool    `json:"log_cleanup_enabled"`
	LogRetentionDays          uint64  `json:"log_retention_days"`
}

type APIConfig struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

// ConfigUpdate is a partial Config. Omitted keys, at any nesting level,
// keep their current value on the daemon.
type ConfigUpdate struct {
	Daemon        *DaemonConfigUpdate   `json:"daemon,omitempty"`
	API           *APIConfigUpdate      `json:"api,omitempty"`
	Database      *DatabaseConfigUpdate `json:"database,omitempty"`
	Notifications *Channels             `json:"notifications,omitempty"`
}

type DaemonConfigUpdate struct {
	Interface                 *string          `json:"interface,omitempty"`
	NeighborCheckIntervalSecs *uint64          `json:"neighbor_check_interval_secs,omitempty"`
	DeviceTimeoutSecs         *uint64          `json:"device_timeout_secs,omitempty"`
	CaptureFilter             Nullable[string] `json:"capture_filter,omitzero"`
	LogCleanupEnabled         *bool            `json:"log_cleanup_enabled,omitempty"`
	LogRetentionDays          *uint64          `json:"log_retention_days,omitempty"`
}

type APIConfigUpdate struct {
	Host *string `json:"host,omitempty"`
	Port *uint16 `json:"port,omitempty"`
}

type DatabaseConfigUpdate struct {
	Path *string `json:"path,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u ConfigUpdate) IsEmpty() bool {
	return u.Daemon == nil && u.API == nil && u.Database == nil && u.Notifications == nil
}

func (u ConfigUpdate) Validate() error {
	if d := u.Daemon; d != nil {
		if d.Interface != nil && *d.Interface == "" {
			return fmt.Errorf("daemon.interface cannot be empty")
		}
		if d.NeighborCheckIntervalSecs != nil && *d.NeighborCheckIntervalSecs == 0 {
			return fmt.Errorf("daemon.neighbor_check_interval_secs must be positive")
		}
		if d.DeviceTimeoutSecs != nil && *d.DeviceTimeoutSecs == 0 {
			return fmt.Errorf("daemon.device_timeout_secs must be positive")
		}
	}
	if a := u.API; a != nil {
		if a.Host != nil && *a.Host == "" {
			return fmt.Errorf("api.host cannot be empty")
		}
		if a.Port != nil && *a.Port == 0 {
			return fmt.Errorf("api.port must be positive")
		}
	}
	if db := u.Database; db != nil && db.Path != nil && *db.Path == "" {
		return fmt.Errorf("database.path cannot be empty")
	}
	if u.Notifications != nil {
		return u.Notifications.Validate()
	}
	return nil
}

// Apply merges the update into cfg the way the daemon does and returns the
// result; cfg itself is not modified.
func (u ConfigUpdate) Apply(cfg Config) Config {
	if d := u.Daemon; d != nil {
		if d.Interface != nil {
			cfg.Daemon.Interface = *d.Interface
		}
		if d.NeighborCheckIntervalSecs != nil {
			cfg.Daemon.NeighborCheckIntervalSecs = *d.NeighborCheckIntervalSecs
		}
		if d.DeviceTimeoutSecs != nil {
			cfg.Daemon.DeviceTimeoutSecs = *d.DeviceTimeoutSecs
		}
		if !d.CaptureFilter.IsZero() {
			if filter, ok := d.CaptureFilter.Get(); ok {
				cfg.Daemon.CaptureFilter = &filter
			} else {
				cfg.Daemon.CaptureFilter = nil
			}
		}
		if d.LogCleanupEnabled != nil {
			cfg.Daemon.LogCleanupEnabled = *d.LogCleanupEnabled
		}
		if d.LogRetentionDays != nil {
			cfg.Daemon.LogRetentionDays = *d.LogRetentionDays
		}
	}
	if a := u.API; a != nil {
		if a.Host != nil {
			cfg.API.Host = *a.Host
		}
		if a.Port != nil {
			cfg.API.Port = *a.Port
		}
	}
	if db := u.Database; db != nil && db.Path != nil {
		cfg.Database.Path = *db.Path
	}
	if u.Notifications != nil {
		cfg.Notifications = append(Channels{}, *u.Notifications...)
	}
	return cfg
}
