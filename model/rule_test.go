package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/P8labs/foxctl/model"
)

func Test_RuleUpdateMarshal(t *testing.T) {
	t.Parallel()

	no := false
	name := "renamed"
	trigger := model.TriggerDeviceConnected
	channels := []string{}

	data := map[string]struct {
		update   model.RuleUpdate
		expected string
	}{
		"empty":          {model.RuleUpdate{}, `{}`},
		"enabled only":   {model.RuleUpdate{Enabled: &no}, `{"enabled":false}`},
		"name only":      {model.RuleUpdate{Name: &name}, `{"name":"renamed"}`},
		"trigger only":   {model.RuleUpdate{TriggerType: &trigger}, `{"trigger_type":"device_connected"}`},
		"clear filter":   {model.RuleUpdate{MACFilter: model.Null[string]()}, `{"mac_filter":null}`},
		"set filter":     {model.RuleUpdate{MACFilter: model.Some("aa:bb:cc:dd:ee:ff")}, `{"mac_filter":"aa:bb:cc:dd:ee:ff"}`},
		"clear channels": {model.RuleUpdate{NotificationChannels: &channels}, `{"notification_channels":[]}`},
		"description":    {model.RuleUpdate{Description: model.Some("x"), Enabled: &no}, `{"description":"x","enabled":false}`},
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			actual, err := json.Marshal(d.update)
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			if string(actual) != d.expected {
				t.Fatalf("unexpected json, expected: %v, actual: %v", d.expected, string(actual))
			}
		})
	}
}

func Test_RuleRequestValidate(t *testing.T) {
	t.Parallel()

	validMac := "AA:BB:CC:DD:EE:FF"
	invalidMac := "not-a-mac"

	data := map[string]struct {
		request model.RuleRequest
		err     error
		ok      bool
	}{
		"valid":           {model.RuleRequest{Name: "r", TriggerType: model.TriggerNewDevice}, nil, true},
		"valid filter":    {model.RuleRequest{Name: "r", TriggerType: model.TriggerNewDevice, MACFilter: &validMac}, nil, true},
		"empty name":      {model.RuleRequest{Name: " ", TriggerType: model.TriggerNewDevice}, model.ErrEmptyRuleName, false},
		"invalid trigger": {model.RuleRequest{Name: "r", TriggerType: "whenever"}, model.ErrInvalidTrigger, false},
		"invalid filter":  {model.RuleRequest{Name: "r", TriggerType: model.TriggerNewDevice, MACFilter: &invalidMac}, nil, false},
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := d.request.Validate()
			if (err == nil) != d.ok {
				t.Fatalf("unexpected result, expected ok: %v, got error: %v", d.ok, err)
			}
			if d.err != nil && !errors.Is(err, d.err) {
				t.Fatalf("unexpected error, expected: %v, got: %v", d.err, err)
			}
		})
	}
}

func Test_RuleUpdateValidate(t *testing.T) {
	t.Parallel()

	empty := " "
	newName := "door"
	trigger := model.TriggerDeviceDisconnected
	badTrigger := model.TriggerType("whenever")

	data := map[string]struct {
		update model.RuleUpdate
		err    error
		ok     bool
	}{
		"nothing set":        {model.RuleUpdate{}, nil, true},
		"rename":             {model.RuleUpdate{Name: &newName}, nil, true},
		"trigger":            {model.RuleUpdate{TriggerType: &trigger}, nil, true},
		"clear filter":       {model.RuleUpdate{MACFilter: model.Null[string]()}, nil, true},
		"empty filter":       {model.RuleUpdate{MACFilter: model.Some("")}, nil, true},
		"dash filter":        {model.RuleUpdate{MACFilter: model.Some("aa-bb-cc-dd-ee-ff")}, nil, true},
		"empty name":         {model.RuleUpdate{Name: &empty}, model.ErrEmptyRuleName, false},
		"invalid trigger":    {model.RuleUpdate{TriggerType: &badTrigger}, model.ErrInvalidTrigger, false},
		"invalid mac filter": {model.RuleUpdate{MACFilter: model.Some("printer")}, nil, false},
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := d.update.Validate()
			if (err == nil) != d.ok {
				t.Fatalf("unexpected result, expected ok: %v, got error: %v", d.ok, err)
			}
			if d.err != nil && !errors.Is(err, d.err) {
				t.Fatalf("unexpected error, expected: %v, got: %v", d.err, err)
			}
		})
	}
}

func Test_TriggerTypeValid(t *testing.T) {
	t.Parallel()

	for _, trigger := range model.TriggerTypes {
		if !trigger.Valid() {
			t.Fatalf("%v should be valid", trigger)
		}
	}
	if model.TriggerType("").Valid() || model.TriggerType("New_Device").Valid() {
		t.Fatal("unknown trigger types should be invalid")
	}
}

func Test_RuleFiresAndMatches(t *testing.T) {
	t.Parallel()

	filter := "AA:BB:CC:DD:EE:FF"
	rule := model.Rule{Enabled: true, NotificationChannels: []string{"ntfy_lan"}, MACFilter: &filter}

	if !rule.Fires() {
		t.Fatal("enabled rule with channels should fire")
	}
	if !rule.Matches("aa:bb:cc:dd:ee:ff") {
		t.Fatal("filter should match regardless of case")
	}
	if rule.Matches("aa:bb:cc:dd:ee:00") {
		t.Fatal("filter should not match a different device")
	}

	disabled := rule
	disabled.Enabled = false
	if disabled.Fires() {
		t.Fatal("disabled rule should never fire")
	}

	silent := rule
	silent.NotificationChannels = nil
	if silent.Fires() {
		t.Fatal("rule without channels should have no effect")
	}

	all := model.Rule{Enabled: true}
	if !all.Matches("00:11:22:33:44:55") {
		t.Fatal("rule without filter should match every device")
	}
}

func Test_CheckRuleChannels(t *testing.T) {
	t.Parallel()

	channels := model.Channels{
		model.TelegramChannel{BotToken: "b", ChatID: "42"},
		model.WebhookChannel{URL: "https://x.y/hook"},
	}
	unknown := model.CheckRuleChannels([]string{"telegram_42", "ntfy_lan", "webhook_hook"}, channels)
	if diff := cmp.Diff([]string{"ntfy_lan"}, unknown); diff != "" {
		t.Fatalf("unknown channels differ: %v", diff)
	}
}

func Test_NormalizeMAC(t *testing.T) {
	t.Parallel()

	data := map[string]struct {
		mac      string
		expected string
		ok       bool
	}{
		"upper case":  {"AA:BB:CC:DD:EE:FF", "aa:bb:cc:dd:ee:ff", true},
		"dashes":      {"aa-bb-cc-dd-ee-ff", "aa:bb:cc:dd:ee:ff", true},
		"dotted":      {"aabb.ccdd.eeff", "aa:bb:cc:dd:ee:ff", true},
		"invalid":     {"aa:bb", "", false},
		"empty input": {"", "", false},
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			actual, err := model.NormalizeMAC(d.mac)
			if (err == nil) != d.ok {
				t.Fatalf("unexpected result, expected ok: %v, got error: %v", d.ok, err)
			}
			if actual != d.expected {
				t.Fatalf("unexpected mac, expected: %v, actual: %v", d.expected, actual)
			}
		})
	}
}

func Test_DeviceDisplayName(t *testing.T) {
	t.Parallel()

	nickname, hostname, empty := "printer", "hp-1234", ""
	data := map[string]struct {
		device   model.Device
		expected string
	}{
		"nickname wins":     {model.Device{MACAddress: "m", Hostname: &hostname, Nickname: &nickname}, "printer"},
		"hostname fallback": {model.Device{MACAddress: "m", Hostname: &hostname, Nickname: &empty}, "hp-1234"},
		"mac fallback":      {model.Device{MACAddress: "m"}, "m"},
	}

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if actual := d.device.DisplayName(); actual != d.expected {
				t.Fatalf("unexpected name, expected: %v, actual: %v", d.expected, actual)
			}
		})
	}
}
