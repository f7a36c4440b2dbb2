package event

type Notification struct {
	EventType      string   `json:"eventType"`
	Mac            string   `json:"mac"`
	Ip             string   `json:"ip"`
	DisplayName    string   `json:"displayName"`
	Status         string   `json:"status"`
	PreviousStatus string   `json:"previousStatus,omitempty"`
	FirstTs        int64    `json:"firstTs,omitempty"`
	Ts             int64    `json:"ts"`
	Count          int      `json:"count,omitempty"`
	MacVendor      string   `json:"macVendor"`
	Rules          []string `json:"rules,omitempty"`
}
