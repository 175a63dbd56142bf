package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/1broseidon/tabletd/internal/config"
	"github.com/1broseidon/tabletd/internal/daemon"
	"github.com/1broseidon/tabletd/internal/engine"
	"github.com/1broseidon/tabletd/internal/tablet"
	"github.com/1broseidon/tabletd/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tabletd <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the tablet mapping daemon (foreground)")
	fmt.Fprintln(w, "  list                List detected tablet devices")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tabletd <command> --help' for command-specific options.")
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabletd list")
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	devices, err := tablet.NewXSetWacom().ListDevices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list devices: %v\n", err)
		return 1
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Name != devices[j].Name {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].ID < devices[j].ID
	})
	for _, dev := range devices {
		fmt.Printf("NAME: %q, ID: %s, TYPE: %s\n", dev.Name, dev.ID, dev.Category)
	}
	return 0
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "profile configuration file (required)")
	interval := fs.Duration("interval", time.Second, "poll interval")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabletd daemon --config <file> [--interval <duration>] [--debug]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "daemon requires --config")
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return 1
	}
	logger.Info("configuration loaded", "path", *configPath, "groups", len(cfg))

	conn, err := x11.NewConnection()
	if err != nil {
		logger.Error("failed to connect to X11", "error", err)
		return 1
	}
	defer conn.Close()

	ctl := tablet.NewXSetWacom()

	eng, err := engine.New(cfg, ctl, conn, logger)
	if err != nil {
		logger.Error("failed to compile configuration", "error", err)
		return 1
	}

	poller := daemon.New(daemon.PollerConfig{
		Interval: *interval,
		Logger:   logger,
	}, ctl, conn, eng)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("tabletd daemon started")
	poller.Run(ctx)
	return 0
}
