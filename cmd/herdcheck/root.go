package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"herdcheck/internal/config"
	"herdcheck/internal/core"
	"herdcheck/internal/feed"
	"herdcheck/internal/platform/logger"
	"herdcheck/pkg/domain"
)

var version = "dev"

// app carries state shared by subcommands once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), in: in, out: out, errOut: errOut}
	root := &cobra.Command{
		Use:          "herdcheck",
		Short:        "Check livestock records and simulate udder changes",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		return a.init()
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./herdcheck.yaml or ~/.config/herdcheck/herdcheck.yaml)")
	flags.String("feed-driver", "", "feed driver: file, blob, sqlite or postgres")
	flags.String("feed-path", "", "CSV file or SQLite database path")
	flags.String("feed-key", "", "blob key of the CSV feed")
	flags.String("feed-dsn", "", "Postgres connection string")
	flags.String("feed-table", "", "SQL feed table name")
	flags.String("blob-driver", "", "blob driver: fs, s3 or memory")
	flags.String("blob-root", "", "filesystem blob root")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.Uint64("seed", 0, "fixed seed for udder trials (0 draws from the global source)")

	for key, flag := range map[string]string{
		"feed.driver": "feed-driver",
		"feed.path":   "feed-path",
		"feed.key":    "feed-key",
		"feed.dsn":    "feed-dsn",
		"feed.table":  "feed-table",
		"blob.driver": "blob-driver",
		"blob.root":   "blob-root",
		"log.level":   "log-level",
		"log.format":  "log-format",
		"seed":        "seed",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newCheckCmd(a),
		newListCmd(a),
		newServeCmd(a),
		newFeedCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, a.errOut)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log
	return nil
}

// newService loads the configured feed into a fresh registry. An unusable
// feed leaves the registry empty; it never fails the command.
func (a *app) newService(ctx context.Context, observer core.Observer) *core.Service {
	opts := []core.Option{core.WithLogger(a.logger)}
	if observer != nil {
		opts = append(opts, core.WithObserver(observer))
	}
	registry := core.NewRegistry(opts...)

	src, err := feed.Open(ctx, a.cfg.Feed, a.cfg.Blob)
	if err != nil {
		a.logger.Warn("feed unreadable, registry left unchanged", "driver", a.cfg.Feed.Driver, "error", err)
	} else {
		registry.LoadSource(ctx, src)
		if err := src.Close(); err != nil {
			a.logger.Warn("closing feed", "error", err)
		}
	}

	var chooser domain.Chooser
	if a.cfg.Seed != 0 {
		chooser = domain.SeededChooser(a.cfg.Seed)
	}
	return core.NewService(registry, domain.NewUdderMachine(chooser), opts...)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
