package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	darkgraph "github.com/jondoveston/darkgraph/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "darkgraph [graphs-url]",
	Short: "Terminal traffic graphs for darkstat",
	Long: `darkgraph polls a darkstat graphs.xml endpoint and draws the inbound and
outbound traffic of every series as bar charts with min/avg/max legends.

Examples:
  darkgraph http://router.lan:667/graphs.xml
  darkgraph --probe router.lan
  DARKGRAPH_URL=http://router.lan:667/graphs.xml darkgraph`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              run,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [graphs-url]",
	Short: "Fetch once and write the graphs as a standalone HTML page",
	Args:  cobra.MaximumNArgs(1),
	RunE:  snapshot,
}

var cfg *darkgraph.Config

func init() {
	// Define flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json)")
	pf.String("url", "", "graphs.xml URL")
	pf.Bool("probe", false, "probe common ports and paths around the URL")
	pf.Duration("timeout", 0, "per-poll timeout, 0 for none")
	pf.Bool("strict-order", false, "drop responses older than the one on screen")
	pf.String("log-file", "", "write logs to this file")
	pf.String("log-level", "info", "log level")
	pf.String("metrics-listen", "", "serve Prometheus metrics on this address")

	rootCmd.Flags().Int("graph-width", darkgraph.GRAPH_WIDTH, "chart width in cells")
	rootCmd.Flags().Int("graph-height", darkgraph.GRAPH_HEIGHT, "chart height in cells")
	rootCmd.Flags().Int("bar-gap", darkgraph.BAR_GAP, "gap between bars in cells")
	rootCmd.Flags().Duration("interval", darkgraph.ReloadDuration(), "automatic reload interval")
	rootCmd.Flags().String("layout", "grid", "grid or tabs")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	snapshotCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
	snapshotCmd.Flags().Bool("print-metrics", false, "print poll metrics to stderr when done")

	// Bind flags to Viper keys
	bind := map[string]string{
		"url":               "url",
		"probe":             "probe",
		"poll.timeout":      "timeout",
		"poll.strict_order": "strict-order",
		"log.file":          "log-file",
		"log.level":         "log-level",
		"metrics.listen":    "metrics-listen",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			log.Fatalf("failed to bind %s: %v", key, err)
		}
	}
	local := map[string]string{
		"graph.width":   "graph-width",
		"graph.height":  "graph-height",
		"graph.bar_gap": "bar-gap",
		"poll.interval": "interval",
		"ui.layout":     "layout",
	}
	for key, flag := range local {
		if err := viper.BindPFlag(key, rootCmd.Flags().Lookup(flag)); err != nil {
			log.Fatalf("failed to bind %s: %v", key, err)
		}
	}

	// Configure Viper for environment variables, DARKGRAPH_GRAPH_WIDTH etc.
	viper.SetEnvPrefix("darkgraph")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	darkgraph.SetDefaults(viper.GetViper())

	rootCmd.AddCommand(snapshotCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	// --version must work whatever the configuration holds
	if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
		return nil
	}

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Positional argument only applies when nothing else set the URL
	if len(args) == 1 && viper.GetString("url") == "" {
		viper.Set("url", args[0])
	}

	c, err := darkgraph.LoadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	// Handle --version flag first
	if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "darkgraph version %s\n", version)
		return nil
	}

	logger, err := darkgraph.NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger.Infow("starting darkgraph", "version", version, "url", cfg.URL.String())

	src, err := resolveSource(cmd.Context(), logger)
	if err != nil {
		return err
	}

	metrics := darkgraph.NewMetrics()
	if cfg.MetricsAddr != "" {
		go serveMetrics(metrics, logger)
	}

	return darkgraph.Dashboard(darkgraph.DashboardOptions{
		Config:  cfg,
		Fetcher: src,
		Metrics: metrics,
		Logger:  logger,
	})
}

func snapshot(cmd *cobra.Command, args []string) error {
	logger, err := darkgraph.NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	src, err := resolveSource(cmd.Context(), logger)
	if err != nil {
		return err
	}

	out := os.Stdout
	if name, _ := cmd.Flags().GetString("out"); name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		defer f.Close()
		out = f
	}

	metrics := darkgraph.NewMetrics()
	start := time.Now()
	snap, err := src.Fetch(cmd.Context())
	if err == nil {
		snap.FetchedAt = time.Now()
		var views []darkgraph.SeriesView
		views, err = darkgraph.NewRenderer(cfg.Series, cfg.HTML).Render(snap)
		if err == nil {
			metrics.ObserveRender(views)
			err = darkgraph.WriteHTML(out, snap, views)
		}
	}
	metrics.ObserveFetch(time.Since(start), err)

	if printMetrics, _ := cmd.Flags().GetBool("print-metrics"); printMetrics {
		if merr := metrics.WriteText(os.Stderr); merr != nil {
			logger.Warnw("failed to print metrics", "error", merr)
		}
	}
	return err
}

func resolveSource(ctx context.Context, logger *zap.SugaredLogger) (*darkgraph.Source, error) {
	if !cfg.Probe {
		return darkgraph.NewSource(cfg.URL, cfg.Timeout)
	}
	probeTimeout := cfg.Timeout
	if probeTimeout == 0 {
		probeTimeout = 5 * time.Second
	}
	src, err := darkgraph.ProbeSource(ctx, cfg.URL, cfg.Series, probeTimeout, logger)
	if err != nil {
		return nil, err
	}
	// keep the probe's address but poll with the configured timeout
	return darkgraph.NewSource(src.URL(), cfg.Timeout)
}

func serveMetrics(metrics *darkgraph.Metrics, logger *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Infow("serving metrics", "addr", cfg.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("metrics server stopped", "error", err)
	}
}
