// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"wifitune/internal/adapter"
	"wifitune/logger"
)

var version = "dev"

// Option defines command line options. The positional argument selects
// the command; without one the full pipeline runs.
type Option struct {
	Config   string `short:"c" long:"config" description:"config file to read"`
	Adapter  string `short:"a" long:"adapter" description:"adapter interface name (overrides config)"`
	Snapshot string `short:"s" long:"snapshot" description:"snapshot file for the restore command"`
	Out      string `short:"o" long:"out" description:"capture file for the monitor command"`
	Pre      string `long:"pre" description:"pre-change capture file for the report command"`
	Post     string `long:"post" description:"post-change capture file for the report command"`
	Force    bool   `short:"f" long:"force-wireless-mode" description:"also change the wireless mode (PHY standard)"`
	Debug    bool   `short:"d" long:"debug" description:"debug mode"`
	Version  bool   `short:"v" long:"version" description:"display the version and exit"`

	Command string
}

func parseCLI(args []string) (*Option, error) {
	opt := &Option{}
	parser := flags.NewParser(opt, flags.Default)
	parser.Name = "wifitune"
	parser.Usage = "[OPTIONS] [backup|monitor|apply|restore|report|run]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if len(rest) > 1 {
		opt.Command = rest[1]
	} else {
		opt.Command = "run"
	}

	return opt, nil
}

func main() {
	opts, err := parseCLI(os.Args)
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("wifitune, version: %s\n", version)
		return
	}

	if lvl := os.Getenv("WIFITUNE_LOG_LEVEL"); lvl != "" {
		logger.Level.SetByName(lvl)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	log := logger.New().With(slog.String("component", "wifitune"))

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	if opts.Adapter != "" {
		cfg.Adapter = opts.Adapter
	}
	if opts.Force {
		cfg.ForceWirelessMode = true
	}
	if err := cfg.validate(); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	a := &app{Logger: log, cfg: cfg}

	log.Infof("wifitune %s: adapter '%s', command '%s'", version, cfg.Adapter, opts.Command)

	if err := a.run(opts); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func (a *app) run(opts *Option) error {
	// the report command works offline against existing captures
	if opts.Command == "report" {
		return a.cmdReport(opts.Pre, opts.Post)
	}

	sys, err := adapter.NewSystem(adapter.SystemConfig{
		Interface: a.cfg.Adapter,
		Timeout:   a.cfg.ProbeTimeout.Duration() * 5,
	}, a.Logger)
	if err != nil {
		return err
	}
	a.sys = sys

	a.prober = adapter.NewPingProber(adapter.ProbeConfig{
		Privileged: a.cfg.PrivilegedProbes,
		Interface:  a.cfg.Adapter,
		Timeout:    a.cfg.ProbeTimeout.Duration(),
	}, a.Logger)

	switch opts.Command {
	case "backup":
		return a.cmdBackup()
	case "monitor":
		return a.cmdMonitor(opts.Out)
	case "apply":
		return a.cmdApply()
	case "restore":
		return a.cmdRestore(opts.Snapshot)
	case "run":
		return a.cmdRun()
	}
	return fmt.Errorf("unknown command '%s'", opts.Command)
}
