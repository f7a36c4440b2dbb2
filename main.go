package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/P8labs/foxctl/cli"
	"github.com/P8labs/foxctl/client"
	"github.com/P8labs/foxctl/config"
)

func main() {
	flags, err := cli.GetFlags()
	exitOnError(err)

	var cfgData []byte
	if flags.ConfigFileName != nil && *flags.ConfigFileName != "" {
		cfgData, err = os.ReadFile(*flags.ConfigFileName)
		exitOnError(err)
	}

	cfg, err := config.GetConfig(cfgData, flags.ApiUrl, flags.TimeoutSec, flags.LogFileName, flags.StateFileName)
	if *flags.RenderConfig {
		renderedConfig, errRender := cfg.Render()
		fmt.Printf("%v", string(renderedConfig))
		var errs []error
		if err != nil {
			errs = append(errs, err)
		}
		if errRender != nil {
			errs = append(errs, errRender)
		}
		exitOnErrors(errs)
		os.Exit(0)
	}
	exitOnError(err)

	cmd, args, err := cli.CheckArgs(flags.Args)
	if cli.IsNoCommand(err) {
		flag.Usage()
		os.Exit(1)
	}
	exitOnError(err)
	if cmd.Name == "watch" {
		exitOnError(cfg.ValidateWatch())
	}

	logFile, err := os.OpenFile(*cfg.LogFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	exitOnError(err)
	logHandler := slog.NewJSONHandler(logFile, nil)
	logger := slog.New(logHandler)

	apiClient, err := client.New(*cfg.ApiConfig.Url,
		client.WithTimeout(time.Duration(*cfg.ApiConfig.TimeoutSec)*time.Second),
		client.WithLogger(logger),
	)
	exitOnError(err)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if cmd.Name == "watch" {
		err = runWatch(ctx, cfg, apiClient, logHandler)
	} else {
		err = newCommands(apiClient, os.Stdout, os.Stderr, logger).run(ctx, cmd.Name, args)
	}
	stop()
	if err != nil {
		logger.Error("command failed", "command", cmd.Name, "error", err)
	}
	exitOnError(err)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Println(describeError(err))
		os.Exit(1)
	}
}

func exitOnErrors(errs []error) {
	if len(errs) != 0 {
		fmt.Println(errs)
		os.Exit(1)
	}
}
