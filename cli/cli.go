package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	errNoCommand      = errors.New("no command provided")
	errUnknownCommand = errors.New("unknown command")
	errInvalidID      = errors.New("rule id must be a positive integer")
)

type Flags struct {
	ConfigFileName *string
	ApiUrl         *string
	TimeoutSec     *uint
	LogFileName    *string
	StateFileName  *string
	RenderConfig   *bool
	Args           []string
}

type Command struct {
	Name    string
	Args    string
	Help    string
	MinArgs int
	MaxArgs int
}

var Commands = map[string]Command{
	"health":       {"health", "", "daemon liveness and resource usage", 0, 0},
	"devices":      {"devices", "", "list observed devices", 0, 0},
	"device":       {"device", "<mac>", "show one device", 1, 1},
	"nickname":     {"nickname", "<mac> [nickname]", "set a device nickname, or clear it when omitted", 1, 2},
	"rules":        {"rules", "", "list rules", 0, 0},
	"rule":         {"rule", "<id>", "show one rule", 1, 1},
	"rule-add":     {"rule-add", "<rule.yaml>", "create a rule from a YAML file", 1, 1},
	"rule-enable":  {"rule-enable", "<id>", "enable a rule", 1, 1},
	"rule-disable": {"rule-disable", "<id>", "disable a rule", 1, 1},
	"rule-set":     {"rule-set", "<id> <update.yaml>", "apply a partial rule update from a YAML file", 2, 2},
	"rule-delete":  {"rule-delete", "<id>", "delete a rule", 1, 1},
	"config":       {"config", "", "show the daemon configuration", 0, 0},
	"config-set":   {"config-set", "<update.yaml>", "apply a partial daemon configuration update", 1, 1},
	"metrics":      {"metrics", "", "show daemon metrics", 0, 0},
	"restart":      {"restart", "", "ask the daemon to restart", 0, 0},
	"logs":         {"logs", "", "show recent daemon log entries", 0, 0},
	"watch":        {"watch", "", "poll devices, raise events and show a live table", 0, 0},
}

func GetFlags() (Flags, error) {
	return ParseFlags(flag.CommandLine, os.Args[1:])
}

// ParseFlags parses args into fs. Flags that were not given explicitly are
// left nil so they do not override the config file.
func ParseFlags(fs *flag.FlagSet, args []string) (Flags, error) {
	configFileName := fs.String("c", "", "YAML config file (default none)")
	apiUrl := fs.String("u", "", "daemon API base URL (default http://127.0.0.1:8080/api)")
	timeoutSec := fs.Uint("t", 10, "request timeout in seconds, 0 for none")
	logFileName := fs.String("l", "foxctl.log", "log file")
	stateFileName := fs.String("s", "", "state file used by watch (default none)")
	renderConfig := fs.Bool("r", false, "render config and exit (default false)")
	fs.Usage = func() {
		out := fs.Output()
		_, _ = fmt.Fprintf(out, "Usage: %v [flags] <command> [args]\n\nCommands:\n", fs.Name())
		_, _ = fmt.Fprint(out, Usage())
		_, _ = fmt.Fprintln(out, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	flags := Flags{
		RenderConfig: renderConfig,
		Args:         fs.Args(),
	}
	if set["c"] {
		flags.ConfigFileName = configFileName
	}
	if set["u"] {
		flags.ApiUrl = apiUrl
	}
	if set["t"] {
		flags.TimeoutSec = timeoutSec
	}
	if set["l"] {
		flags.LogFileName = logFileName
	}
	if set["s"] {
		flags.StateFileName = stateFileName
	}
	return flags, nil
}

// CheckArgs splits the positional arguments into a known command and its
// arguments.
func CheckArgs(args []string) (Command, []string, error) {
	if len(args) == 0 {
		return Command{}, nil, errNoCommand
	}

	cmd, ok := Commands[args[0]]
	if !ok {
		return Command{}, nil, fmt.Errorf("%w: %v", errUnknownCommand, args[0])
	}

	cmdArgs := args[1:]
	if len(cmdArgs) < cmd.MinArgs || len(cmdArgs) > cmd.MaxArgs {
		return Command{}, nil, fmt.Errorf("usage: %v %v", cmd.Name, cmd.Args)
	}
	return cmd, cmdArgs, nil
}

func ParseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w, got: %v", errInvalidID, arg)
	}
	return id, nil
}

func IsNoCommand(err error) bool {
	return errors.Is(err, errNoCommand)
}

func Usage() string {
	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		cmd := Commands[name]
		_, _ = fmt.Fprintf(&b, "  %-32v %v\n", strings.TrimSpace(cmd.Name+" "+cmd.Args), cmd.Help)
	}
	return b.String()
}
