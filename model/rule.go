package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type TriggerType string

const (
	TriggerNewDevice          TriggerType = "new_device"
	TriggerDeviceConnected    TriggerType = "device_connected"
	TriggerDeviceDisconnected TriggerType = "device_disconnected"
	TriggerDeviceStatusChange TriggerType = "device_status_change"
)

var TriggerTypes = []TriggerType{
	TriggerNewDevice,
	TriggerDeviceConnected,
	TriggerDeviceDisconnected,
	TriggerDeviceStatusChange,
}

var (
	ErrEmptyRuleName  = errors.New("rule name cannot be empty")
	ErrInvalidTrigger = errors.New("invalid trigger type")
)

func (t TriggerType) Valid() bool {
	return slices.Contains(TriggerTypes, t)
}

func invalidTrigger(t TriggerType) error {
	return fmt.Errorf("%w: %q, expected one of %v", ErrInvalidTrigger, t, TriggerTypes)
}

// Rule binds a trigger condition to notification channels, referenced by
// channel name.
type Rule struct {
	ID                   int64       `json:"id"`
	Name                 string      `json:"name"`
	Description          *string     `json:"description"`
	TriggerType          TriggerType `json:"trigger_type"`
	MACFilter            *string     `json:"mac_filter"`
	Enabled              bool        `json:"enabled"`
	NotificationChannels []string    `json:"notification_channels"`
	CreatedAt            string      `json:"created_at"`
	UpdatedAt            string      `json:"updated_at"`
}

type RulesResponse struct {
	Rules []Rule `json:"rules"`
	Count int    `json:"count,omitempty"`
}

// Fires reports whether the rule can have any effect at all.
func (r Rule) Fires() bool {
	return r.Enabled && len(r.NotificationChannels) > 0
}

// Matches reports whether the rule applies to the device with the given MAC.
// A rule without a MAC filter applies to every device.
func (r Rule) Matches(mac string) bool {
	if r.MACFilter == nil || *r.MACFilter == "" {
		return true
	}
	filter, err := NormalizeMAC(*r.MACFilter)
	if err != nil {
		return strings.EqualFold(*r.MACFilter, mac)
	}
	normalized, err := NormalizeMAC(mac)
	if err != nil {
		return false
	}
	return filter == normalized
}

// RuleRequest is the create payload: a rule without id and timestamps.
type RuleRequest struct {
	Name                 string      `json:"name"`
	Description          *string     `json:"description"`
	TriggerType          TriggerType `json:"trigger_type"`
	MACFilter            *string     `json:"mac_filter"`
	Enabled              bool        `json:"enabled"`
	NotificationChannels []string    `json:"notification_channels"`
}

func (r RuleRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyRuleName
	}
	if !r.TriggerType.Valid() {
		return invalidTrigger(r.TriggerType)
	}
	if r.MACFilter != nil && *r.MACFilter != "" {
		if _, err := NormalizeMAC(*r.MACFilter); err != nil {
			return fmt.Errorf("invalid mac filter: %w", err)
		}
	}
	return nil
}

// RuleUpdate is a partial rule. Fields left unset are not sent, so the
// daemon keeps their current values.
type RuleUpdate struct {
	Name                 *string          `json:"name,omitempty"`
	Description          Nullable[string] `json:"description,omitzero"`
	TriggerType          *TriggerType     `json:"trigger_type,omitempty"`
	MACFilter            Nullable[string] `json:"mac_filter,omitzero"`
	Enabled              *bool            `json:"enabled,omitempty"`
	NotificationChannels *[]string        `json:"notification_channels,omitempty"`
}

func (u RuleUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyRuleName
	}
	if u.TriggerType != nil && !u.TriggerType.Valid() {
		return invalidTrigger(*u.TriggerType)
	}
	if mac, ok := u.MACFilter.Get(); ok && mac != "" {
		if _, err := NormalizeMAC(mac); err != nil {
			return fmt.Errorf("invalid mac filter: %w", err)
		}
	}
	return nil
}

// CheckRuleChannels returns the channel references that do not resolve to
// any configured notification channel.
func CheckRuleChannels(references []string, channels Channels) []string {
	known := map[string]struct{}{}
	for _, ch := range channels {
		known[ch.Name()] = struct{}{}
	}

	var unknown []string
	for _, ref := range references {
		if _, ok := known[ref]; !ok {
			unknown = append(unknown, ref)
		}
	}
	return unknown
}
