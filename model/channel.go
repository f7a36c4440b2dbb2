package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type ChannelType string

const (
	ChannelTelegram ChannelType = "telegram"
	ChannelNtfy     ChannelType = "ntfy"
	ChannelWebhook  ChannelType = "webhook"
)

var (
	ErrUnknownChannelType = errors.New("unknown notification channel type")
	ErrMissingField       = errors.New("missing required field")
)

// NotificationChannel is one of TelegramChannel, NtfyChannel or
// WebhookChannel. The set is closed: the interface cannot be implemented
// outside this package, and decoding any other discriminator fails with
// ErrUnknownChannelType.
type NotificationChannel interface {
	Type() ChannelType
	// Name is the key rules use to reference the channel.
	Name() string
	Validate() error
	notificationChannel()
}

type TelegramChannel struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

func (TelegramChannel) Type() ChannelType { return ChannelTelegram }
func (TelegramChannel) notificationChannel() {}

func (c TelegramChannel) Name() string {
	return fmt.Sprintf("telegram_%v", c.ChatID)
}

func (c TelegramChannel) Validate() error {
	if c.BotToken == "" {
		return missingField(ChannelTelegram, "bot_token")
	}
	if c.ChatID == "" {
		return missingField(ChannelTelegram, "chat_id")
	}
	return nil
}

func (c TelegramChannel) MarshalJSON() ([]byte, error) {
	type alias TelegramChannel
	return json.Marshal(struct {
		Type ChannelType `json:"type"`
		alias
	}{ChannelTelegram, alias(c)})
}

type NtfyChannel struct {
	ServerURL string  `json:"server_url"`
	Topic     string  `json:"topic"`
	Token     *string `json:"token,omitempty"`
}

func (NtfyChannel) Type() ChannelType { return ChannelNtfy }
func (NtfyChannel) notificationChannel() {}

func (c NtfyChannel) Name() string {
	return fmt.Sprintf("ntfy_%v", c.Topic)
}

func (c NtfyChannel) Validate() error {
	if c.ServerURL == "" {
		return missingField(ChannelNtfy, "server_url")
	}
	if c.Topic == "" {
		return missingField(ChannelNtfy, "topic")
	}
	return validateHTTPURL(c.ServerURL)
}

func (c NtfyChannel) MarshalJSON() ([]byte, error) {
	type alias NtfyChannel
	return json.Marshal(struct {
		Type ChannelType `json:"type"`
		alias
	}{ChannelNtfy, alias(c)})
}

type WebhookChannel struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (WebhookChannel) Type() ChannelType { return ChannelWebhook }
func (WebhookChannel) notificationChannel() {}

// Name uses the last path segment of the URL, as the daemon does.
func (c WebhookChannel) Name() string {
	segments := strings.Split(c.URL, "/")
	return fmt.Sprintf("webhook_%v", segments[len(segments)-1])
}

func (c WebhookChannel) Validate() error {
	if c.URL == "" {
		return missingField(ChannelWebhook, "url")
	}
	return validateHTTPURL(c.URL)
}

func (c WebhookChannel) MarshalJSON() ([]byte, error) {
	type alias WebhookChannel
	return json.Marshal(struct {
		Type ChannelType `json:"type"`
		alias
	}{ChannelWebhook, alias(c)})
}

// DecodeChannel reads the discriminator first and decodes only the fields of
// the matching variant.
func DecodeChannel(data []byte) (NotificationChannel, error) {
	var head struct {
		Type ChannelType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case ChannelTelegram:
		var c TelegramChannel
		err := json.Unmarshal(data, &c)
		return c, err
	case ChannelNtfy:
		var c NtfyChannel
		err := json.Unmarshal(data, &c)
		return c, err
	case ChannelWebhook:
		var c WebhookChannel
		err := json.Unmarshal(data, &c)
		return c, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannelType, head.Type)
	}
}

// Channels is an ordered list of notification channels.
type Channels []NotificationChannel

func (cs *Channels) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*cs = nil
		return nil
	}

	channels := make(Channels, 0, len(raw))
	for i, item := range raw {
		ch, err := DecodeChannel(item)
		if err != nil {
			return fmt.Errorf("notification channel %d: %w", i, err)
		}
		channels = append(channels, ch)
	}
	*cs = channels
	return nil
}

// Validate checks every channel and rejects duplicate names, since rules
// could not tell such channels apart.
func (cs Channels) Validate() error {
	seen := map[string]struct{}{}
	for i, ch := range cs {
		if ch == nil {
			return fmt.Errorf("notification channel %d: %w", i, ErrUnknownChannelType)
		}
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("notification channel %d: %w", i, err)
		}
		name := ch.Name()
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate notification channel name: %v", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Names returns the channel names in order.
func (cs Channels) Names() []string {
	names := make([]string, 0, len(cs))
	for _, ch := range cs {
		names = append(names, ch.Name())
	}
	return names
}

func missingField(kind ChannelType, field string) error {
	return fmt.Errorf("%v channel: %w: %v", kind, ErrMissingField, field)
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme: %v", raw)
	}
	return nil
}
