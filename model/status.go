package model

// Metrics is a point-in-time snapshot computed by the daemon per request.
type Metrics struct {
	TotalDevices      int64  `json:"total_devices"`
	OnlineDevices     int64  `json:"online_devices"`
	OfflineDevices    int64  `json:"offline_devices"`
	TotalRules        int64  `json:"total_rules"`
	EnabledRules      int64  `json:"enabled_rules"`
	PacketsCaptured   uint64 `json:"packets_captured"`
	NotificationsSent uint64 `json:"notifications_sent"`
	UptimeSeconds     uint64 `json:"uptime_seconds"`
}

type HealthResponse struct {
	Status        string       `json:"status"`
	Service       string       `json:"service"`
	UptimeSeconds uint64       `json:"uptime_seconds"`
	System        SystemHealth `json:"system"`
}

type SystemHealth struct {
	CPUUsagePercent    float64 `json:"cpu_usage_percent"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
	TotalMemoryMB      uint64  `json:"total_memory_mb"`
	UsedMemoryMB       uint64  `json:"used_memory_mb"`
}

type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
	LogDebug   LogLevel = "debug"
)

// LogEntry is an immutable audit record written by the daemon.
type LogEntry struct {
	ID        int64    `json:"id"`
	Timestamp string   `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Category  string   `json:"category"`
	Message   string   `json:"message"`
	Details   *string  `json:"details"`
}

type LogsResponse struct {
	Logs  []LogEntry `json:"logs"`
	Count int        `json:"count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body the daemon sends along with non-2xx statuses.
type ErrorResponse struct {
	Error   string  `json:"error"`
	Details *string `json:"details"`
}
