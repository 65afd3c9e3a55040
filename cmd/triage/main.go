package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/compliance"
	"github.com/wolfman30/symptom-checker/internal/config"
	"github.com/wolfman30/symptom-checker/internal/observability/metrics"
	"github.com/wolfman30/symptom-checker/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand shares.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	catalog  *catalog.Catalog
	registry *prometheus.Registry
	metrics  *metrics.TriageMetrics
	audit    *compliance.AuditService
}

type rootFlags struct {
	catalogPath string
	logLevel    string
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:   "triage",
		Short: "Scripted symptom checker",
		Long: `triage walks through a fixed symptom questionnaire and suggests
conditions that overlap with the selected symptoms.

The output is informational only and is not a medical diagnosis.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(flags, errOut)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "", "YAML catalog file (overrides CATALOG_FILE)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(newChatCmd(a), newPredictCmd(a), newCatalogCmd(a))
	return root
}

func (a *app) init(flags *rootFlags, errOut io.Writer) error {
	a.cfg = config.Load()
	if flags.logLevel != "" {
		a.cfg.LogLevel = flags.logLevel
	}
	if flags.catalogPath != "" {
		a.cfg.CatalogFile = flags.catalogPath
	}

	a.logger = logging.NewWithWriter(errOut, a.cfg.LogLevel, a.cfg.LogFormat)
	a.logger.Debug("starting triage", "env", a.cfg.Env, "catalog_file", a.cfg.CatalogFile)

	a.catalog = catalog.Default()
	if a.cfg.CatalogFile != "" {
		cat, err := catalog.LoadFile(a.cfg.CatalogFile)
		if err != nil {
			a.logger.Error("failed to load catalog", "path", a.cfg.CatalogFile, "error", err)
			return fmt.Errorf("load catalog: %w", err)
		}
		a.catalog = cat
	}

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewTriageMetrics(a.registry)
	a.audit = compliance.NewAuditService(a.logger)
	return nil
}

func (a *app) writeMetrics() error {
	if a.cfg == nil || a.cfg.MetricsTextfile == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.MetricsTextfile, a.registry); err != nil {
		a.logger.Error("failed to write metrics", "path", a.cfg.MetricsTextfile, "error", err)
		return fmt.Errorf("write metrics: %w", err)
	}
	a.logger.Debug("metrics written", "path", a.cfg.MetricsTextfile)
	return nil
}
