package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/gaship/internal/cliconfig"
	"github.com/bft-labs/gaship/internal/metrics"
	"github.com/bft-labs/gaship/internal/spool"
	"github.com/bft-labs/gaship/pkg/gaship"
	"github.com/bft-labs/gaship/pkg/log"
)

const longHelp = `Batch analytics hits into Measurement Protocol requests.

gaship reads hit records as JSON lines, one object per line:

  {"type":"pageview","cid":"555","host":"example.com","page":"/","title":"Home"}
  {"type":"event","cid":"555","category":"video","action":"play","label":"intro","value":3}

Records are buffered and flushed in batches of at most --batch-limit hits.
Delivery is at most once: a failed batch is logged and dropped.`

var exampleUsage = strings.TrimSpace(`
  gaship send --tracking-id UA-XXXX-Y hits.jsonl
  cat hits.jsonl | gaship send --tracking-id UA-XXXX-Y
  gaship watch --config $HOME/.gaship/config.toml --spool-dir /var/spool/gaship
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli holds state shared by the subcommands once configuration is loaded.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  *log.ZerologAdapter
}

func main() {
	root, _ := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gaship:", err)
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{cfg: cliconfig.DefaultConfig()}

	root := &cobra.Command{
		Use:           "gaship",
		Short:         "Batch analytics hits into Measurement Protocol requests",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.gaship/config.toml)")
	flags.StringVar(&c.cfg.TrackingID, "tracking-id", c.cfg.TrackingID, "property tracking id (UA-XXXX-Y)")
	flags.StringVar(&c.cfg.ServiceURL, "service-url", c.cfg.ServiceURL, "collection host; the batch path is appended")
	flags.StringVar(&c.cfg.UserAgent, "user-agent", c.cfg.UserAgent, "User-Agent header of batch requests")
	flags.IntVar(&c.cfg.BatchLimit, "batch-limit", c.cfg.BatchLimit, "maximum hits per request")
	flags.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP timeout")
	flags.DurationVar(&c.cfg.FlushInterval, "flush-interval", c.cfg.FlushInterval, "flush interval in watch mode")
	flags.StringVar(&c.cfg.SpoolDir, "spool-dir", c.cfg.SpoolDir, "directory watched for .jsonl files")
	flags.StringVar(&c.cfg.MetricsAddr, "metrics-addr", c.cfg.MetricsAddr, "listen address for /metrics (disabled when empty)")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(c.newSendCmd(), c.newWatchCmd())
	return root, c
}

// loadConfig applies file, then env, then flags, and validates the result.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.logger = log.NewZerologAdapter(c.cfg.LogLevel)
	zl := c.logger.Logger()
	zl.Info().Interface("config", c.cfg).Msg("configuration")
	return nil
}

// newTracker builds a tracker from the loaded configuration.
func (c *cli) newTracker(m gaship.Metrics) (*gaship.Tracker, error) {
	return gaship.New(c.cfg.TrackingID,
		gaship.WithBaseURI(c.cfg.ServiceURL),
		gaship.WithUserAgent(c.cfg.UserAgent),
		gaship.WithBatchLimit(c.cfg.BatchLimit),
		gaship.WithHTTPTimeout(c.cfg.HTTPTimeout),
		gaship.WithLogger(c.logger),
		gaship.WithMetrics(m),
	)
}

// startMetrics registers the recorder and, when an address is configured,
// serves it. The returned stop function is always safe to call.
func (c *cli) startMetrics() (*metrics.Recorder, func(), error) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, nil, err
	}
	if c.cfg.MetricsAddr == "" {
		return rec, func() {}, nil
	}

	srv := metrics.NewServer(c.cfg.MetricsAddr, reg, c.logger)
	srv.Start()
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			c.logger.Warn("metrics server shutdown", log.Err(err))
		}
	}
	return rec, stop, nil
}

func (c *cli) newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send [files...]",
		Short: "Send the hits of JSON-lines files (or stdin) and exit",
		Long: `Send reads every record, flushes once and exits.
With no files, or "-", records are read from stdin. The exit status is
non-zero if any batch was not delivered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, stopMetrics, err := c.startMetrics()
			if err != nil {
				return err
			}
			defer stopMetrics()

			tr, err := c.newTracker(rec)
			if err != nil {
				return err
			}
			defer tr.Close()

			return runSend(cmd.Context(), tr, args, cmd.InOrStdin(), c.logger)
		},
	}
}

func (c *cli) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch a spool directory and flush periodically",
		Long: `Watch ingests .jsonl files dropped into --spool-dir and flushes the
buffer every --flush-interval. On SIGINT or SIGTERM the buffer is flushed
one last time before exiting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.ValidateWatch(); err != nil {
				return err
			}

			rec, stopMetrics, err := c.startMetrics()
			if err != nil {
				return err
			}
			defer stopMetrics()

			tr, err := c.newTracker(rec)
			if err != nil {
				return err
			}
			defer tr.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := spool.New(spool.Config{
				Dir:           c.cfg.SpoolDir,
				FlushInterval: c.cfg.FlushInterval,
			}, tr, c.logger)
			return w.Run(ctx)
		},
	}
}
