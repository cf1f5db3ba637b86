package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/goalie/pkg/config"
	"github.com/stefanpenner/goalie/pkg/logutils"
	"github.com/stefanpenner/goalie/pkg/netmon"
	"github.com/stefanpenner/goalie/pkg/notify"
	"github.com/stefanpenner/goalie/pkg/storage"
	"github.com/stefanpenner/goalie/pkg/store"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

// app holds everything wired up in the Before hook; the subcommands and
// the TUI share one instance.
type app struct {
	cfg     config.Config
	storage *storage.Storage
	store   *store.Store
	monitor *netmon.Monitor
	bus     *notify.Bus
}

type flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Offline    bool
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		a         = &app{}
		f         = &flags{}
	)

	root := &cli.Command{
		Name:      "goalie",
		Usage:     "Track goals with deadlines in your terminal",
		UsageText: "goalie [global options] [command [command options]]",
		Description: `Goalie keeps two ordered lists of goals, active and completed, in plain
JSON files. Every window watching the same data directory sees edits from
the others; reorders made while offline queue up and sync when
connectivity returns.

Run 'goalie' with no arguments to open the board.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("GOALIE_LOG_LEVEL"),
				Value:       "info",
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/goalie.log)",
				Sources:     cli.EnvVars("GOALIE_LOG_FILE"),
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("GOALIE_CONFIG"),
				Value:       config.DefaultConfigPath(),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("GOALIE_DATA_DIR"),
				Value:       store.DefaultDataDir(),
				Destination: &f.DataDir,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "force offline mode: never probe, queue all reorders",
				Sources:     cli.EnvVars("GOALIE_OFFLINE"),
				Destination: &f.Offline,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := f.LogFile
			if logFile == "" {
				logFile = filepath.Join(f.DataDir, "goalie.log")
			}

			logger, closer, err := logutils.New(f.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(f.ConfigPath, f.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			quota := cfg.QuotaBytes
			if quota <= 0 {
				quota = storage.DefaultQuota
			}
			st, err := storage.New(cfg.DataDir, quota)
			if err != nil {
				return ctx, fmt.Errorf("open data dir: %w", err)
			}

			offline := f.Offline || cfg.Offline
			monitor := netmon.New(cfg.Probe.Addr, cfg.Probe.IntervalOrZero(), offline)
			bus := notify.NewBus()

			a.cfg = cfg
			a.storage = st
			a.monitor = monitor
			a.bus = bus
			a.store = store.New(st, store.Options{
				Online: monitor.Online,
				Bus:    bus,
			})

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if a.monitor != nil {
				a.monitor.Stop()
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	registerCommands(root, a)

	// No subcommand opens the board.
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'goalie --help' for usage", c.Args().First())
		}
		return runTUI(a)
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
