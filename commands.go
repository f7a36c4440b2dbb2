package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/P8labs/foxctl/cli"
	"github.com/P8labs/foxctl/client"
	"github.com/P8labs/foxctl/model"
	"github.com/P8labs/foxctl/oui"
	"github.com/P8labs/foxctl/validate"
)

var errEmptyUpdate = errors.New("config update changes nothing")

type commands struct {
	client *client.Client
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

func newCommands(apiClient *client.Client, out io.Writer, errOut io.Writer, logger *slog.Logger) commands {
	return commands{
		client: apiClient,
		out:    out,
		errOut: errOut,
		logger: logger,
	}
}

// run executes one command whose arguments were already checked by
// cli.CheckArgs.
func (c commands) run(ctx context.Context, name string, args []string) error {
	switch name {
	case "health":
		return c.health(ctx)
	case "devices":
		return c.devices(ctx)
	case "device":
		device, err := c.client.Device(ctx, args[0])
		if err != nil {
			return err
		}
		return c.renderYAML(device)
	case "nickname":
		return c.nickname(ctx, args)
	case "rules":
		return c.rules(ctx)
	case "rule":
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		rule, err := c.client.Rule(ctx, id)
		if err != nil {
			return err
		}
		return c.renderYAML(rule)
	case "rule-add":
		return c.ruleAdd(ctx, args[0])
	case "rule-enable", "rule-disable":
		return c.ruleToggle(ctx, args[0], name == "rule-enable")
	case "rule-set":
		return c.ruleSet(ctx, args[0], args[1])
	case "rule-delete":
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		if err = c.client.DeleteRule(ctx, id); err != nil {
			return err
		}
		return c.printf("rule %v deleted\n", id)
	case "config":
		cfg, err := c.client.Config(ctx)
		if err != nil {
			return err
		}
		return c.renderYAML(cfg)
	case "config-set":
		return c.configSet(ctx, args[0])
	case "metrics":
		return c.metrics(ctx)
	case "restart":
		if err := c.client.RestartDaemon(ctx); err != nil {
			return err
		}
		return c.printf("restart requested\n")
	case "logs":
		return c.logs(ctx)
	default:
		return fmt.Errorf("command not available: %v", name)
	}
}

func (c commands) health(ctx context.Context) error {
	health, err := c.client.Health(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "status:\t%v\n", health.Status)
	_, _ = fmt.Fprintf(w, "service:\t%v\n", health.Service)
	_, _ = fmt.Fprintf(w, "uptime:\t%v\n", model.FormatUptime(health.UptimeSeconds))
	_, _ = fmt.Fprintf(w, "cpu:\t%.1f%%\n", health.System.CPUUsagePercent)
	_, _ = fmt.Fprintf(w, "memory:\t%.1f%% (%v / %v MB)\n", health.System.MemoryUsagePercent, health.System.UsedMemoryMB, health.System.TotalMemoryMB)
	return w.Flush()
}

func (c commands) devices(ctx context.Context) error {
	resp, err := c.client.Devices(ctx)
	if err != nil {
		return err
	}
	if len(resp.Devices) == 0 {
		return c.printf("no devices\n")
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MAC\tVENDOR\tIP\tNAME\tSTATUS\tLAST SEEN")
	for _, d := range resp.Devices {
		_, _ = fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\n",
			d.MACAddress, oui.DeviceVendor(d), orDash(d.IP()), d.DisplayName(), d.Status, d.LastSeen)
	}
	return w.Flush()
}

func (c commands) nickname(ctx context.Context, args []string) error {
	var nickname *string
	if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
		nickname = &args[1]
	}

	device, err := c.client.UpdateDeviceNickname(ctx, args[0], nickname)
	if err != nil {
		return err
	}
	if device.Nickname == nil {
		return c.printf("nickname of %v cleared\n", device.MACAddress)
	}
	return c.printf("%v is now %v\n", device.MACAddress, *device.Nickname)
}

func (c commands) rules(ctx context.Context) error {
	resp, err := c.client.Rules(ctx)
	if err != nil {
		return err
	}
	if len(resp.Rules) == 0 {
		return c.printf("no rules\n")
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTRIGGER\tMAC FILTER\tENABLED\tCHANNELS")
	for _, r := range resp.Rules {
		macFilter := "any"
		if r.MACFilter != nil && *r.MACFilter != "" {
			macFilter = *r.MACFilter
		}
		_, _ = fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\n",
			r.ID, r.Name, model.TriggerTypeLabel(r.TriggerType), macFilter, r.Enabled, orDash(strings.Join(r.NotificationChannels, ",")))
	}
	return w.Flush()
}

func (c commands) ruleAdd(ctx context.Context, fileName string) error {
	payload, err := readYAMLAsJSON(fileName)
	if err != nil {
		return err
	}
	if errs := validate.Rule(payload); len(errs) > 0 {
		return fmt.Errorf("invalid rule %v: %w", fileName, errors.Join(errs...))
	}

	var req model.RuleRequest
	if err = json.Unmarshal(payload, &req); err != nil {
		return err
	}
	if err = req.Validate(); err != nil {
		return err
	}
	c.warnUnknownChannels(ctx, req.NotificationChannels)
	if !req.Enabled || len(req.NotificationChannels) == 0 {
		_, _ = fmt.Fprintln(c.errOut, "warning: rule is disabled or has no notification channels, it will never fire")
	}

	rule, err := c.client.CreateRule(ctx, req)
	if err != nil {
		return err
	}
	return c.renderYAML(rule)
}

// warnUnknownChannels is best effort: a daemon whose config cannot be read
// still gets the rule.
func (c commands) warnUnknownChannels(ctx context.Context, references []string) {
	if len(references) == 0 {
		return
	}
	cfg, err := c.client.Config(ctx)
	if err != nil {
		c.logger.Warn("unable to check notification channels", "error", err)
		return
	}
	configured := orDash(strings.Join(cfg.Notifications.Names(), ", "))
	for _, name := range model.CheckRuleChannels(references, cfg.Notifications) {
		_, _ = fmt.Fprintf(c.errOut, "warning: notification channel %v is not configured on the daemon (configured: %v)\n", name, configured)
	}
}

// warnOrphanedRules reports rules that would reference missing channels once
// the update's notification list replaces the daemon's. Best effort, like
// warnUnknownChannels.
func (c commands) warnOrphanedRules(ctx context.Context, update model.ConfigUpdate) {
	if update.Notifications == nil {
		return
	}
	current, err := c.client.Config(ctx)
	if err != nil {
		c.logger.Warn("unable to check rules against notification channels", "error", err)
		return
	}
	rules, err := c.client.Rules(ctx)
	if err != nil {
		c.logger.Warn("unable to check rules against notification channels", "error", err)
		return
	}

	updated := update.Apply(current)
	for _, rule := range rules.Rules {
		for _, name := range model.CheckRuleChannels(rule.NotificationChannels, updated.Notifications) {
			_, _ = fmt.Fprintf(c.errOut, "warning: rule %v (%v) references notification channel %v, which will not be configured\n", rule.ID, rule.Name, name)
		}
	}
}

func (c commands) ruleToggle(ctx context.Context, arg string, enabled bool) error {
	id, err := cli.ParseID(arg)
	if err != nil {
		return err
	}
	rule, err := c.client.UpdateRule(ctx, id, model.RuleUpdate{Enabled: &enabled})
	if err != nil {
		return err
	}

	state := "disabled"
	if rule.Enabled {
		state = "enabled"
	}
	return c.printf("rule %v (%v) %v\n", rule.ID, rule.Name, state)
}

func (c commands) ruleSet(ctx context.Context, arg string, fileName string) error {
	id, err := cli.ParseID(arg)
	if err != nil {
		return err
	}
	payload, err := readYAMLAsJSON(fileName)
	if err != nil {
		return err
	}
	if errs := validate.RuleUpdate(payload); len(errs) > 0 {
		return fmt.Errorf("invalid rule update %v: %w", fileName, errors.Join(errs...))
	}

	var update model.RuleUpdate
	if err = json.Unmarshal(payload, &update); err != nil {
		return err
	}
	if err = update.Validate(); err != nil {
		return err
	}
	if update.NotificationChannels != nil {
		c.warnUnknownChannels(ctx, *update.NotificationChannels)
	}

	rule, err := c.client.UpdateRule(ctx, id, update)
	if err != nil {
		return err
	}
	return c.renderYAML(rule)
}

func (c commands) configSet(ctx context.Context, fileName string) error {
	payload, err := readYAMLAsJSON(fileName)
	if err != nil {
		return err
	}
	if errs := validate.ConfigUpdate(payload); len(errs) > 0 {
		return fmt.Errorf("invalid config update %v: %w", fileName, errors.Join(errs...))
	}

	var update model.ConfigUpdate
	if err = json.Unmarshal(payload, &update); err != nil {
		return err
	}
	if update.IsEmpty() {
		return errEmptyUpdate
	}
	if err = update.Validate(); err != nil {
		return err
	}
	if update.Daemon != nil {
		if filter, ok := update.Daemon.CaptureFilter.Get(); ok {
			if err = validate.CaptureFilter(filter); err != nil {
				return err
			}
		}
	}
	c.warnOrphanedRules(ctx, update)

	cfg, err := c.client.UpdateConfig(ctx, update)
	if err != nil {
		return err
	}
	return c.renderYAML(cfg)
}

func (c commands) metrics(ctx context.Context) error {
	metrics, err := c.client.Metrics(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "devices:\t%v (%v online, %v offline)\n", metrics.TotalDevices, metrics.OnlineDevices, metrics.OfflineDevices)
	_, _ = fmt.Fprintf(w, "rules:\t%v (%v enabled)\n", metrics.TotalRules, metrics.EnabledRules)
	_, _ = fmt.Fprintf(w, "packets captured:\t%v\n", metrics.PacketsCaptured)
	_, _ = fmt.Fprintf(w, "notifications sent:\t%v\n", metrics.NotificationsSent)
	_, _ = fmt.Fprintf(w, "uptime:\t%v\n", model.FormatUptime(metrics.UptimeSeconds))
	return w.Flush()
}

func (c commands) logs(ctx context.Context) error {
	resp, err := c.client.Logs(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, entry := range resp.Logs {
		message := entry.Message
		if entry.Details != nil && *entry.Details != "" {
			message = fmt.Sprintf("%v (%v)", message, *entry.Details)
		}
		_, _ = fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", entry.Timestamp, strings.ToUpper(string(entry.Level)), entry.Category, message)
	}
	return w.Flush()
}

// renderYAML goes through JSON first so the wire names and the channel type
// discriminator are what gets printed.
func (c commands) renderYAML(v any) error {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return err
	}
	yamlBytes, err := yaml.JSONToYAML(jsonBytes)
	if err != nil {
		return err
	}
	_, err = c.out.Write(yamlBytes)
	return err
}

func (c commands) printf(format string, a ...any) error {
	_, err := fmt.Fprintf(c.out, format, a...)
	return err
}

func readYAMLAsJSON(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	jsonBytes, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %v: %w", fileName, err)
	}
	return jsonBytes, nil
}

// describeError prefers the daemon's own error document over the raw
// response text.
func describeError(err error) string {
	resp, ok := client.ErrorResponse(err)
	if !ok {
		return err.Error()
	}
	message := fmt.Sprintf("daemon error %v: %v", client.StatusCode(err), resp.Error)
	if resp.Details != nil && *resp.Details != "" {
		message = fmt.Sprintf("%v (%v)", message, *resp.Details)
	}
	return message
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
