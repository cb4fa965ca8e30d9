package cmd

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentic-research/rdfmine/internal/config"
	"github.com/agentic-research/rdfmine/internal/ingest"
	"github.com/agentic-research/rdfmine/internal/metrics"
)

// mineFlags holds the flag values; only fields set on the command line
// override the config file.
var mineFlags config.Config

func init() {
	bindMineFlags()
	rootCmd.AddCommand(mineCmd)
}

func bindMineFlags() {
	mineFlags = config.Config{}
	f := mineCmd.Flags()
	f.StringVar(&mineFlags.LogFile, "log", "", "Error log file (default rdfmine_errors.log)")
	f.Int64Var(&mineFlags.LimitMB, "limit-mb", 0, fmt.Sprintf("Skip files larger than this many MiB (default %d)", config.DefaultLimitMB))
	f.BoolVar(&mineFlags.Resume, "resume", false, "Skip datasets already mined and append to the error log")
	f.BoolVar(&mineFlags.Dedup, "dedup", false, "Deduplicate triples and resolve labels")
	f.StringSliceVar(&mineFlags.Only, "only", nil, "Mine only datasets matching these glob patterns")
	f.StringVar(&mineFlags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	f.Int64Var(&mineFlags.Parser.MaxTriples, "max-triples", 0, "Fail files with more triples than this (0 keeps the parser default)")
}

var mineCmd = &cobra.Command{
	Use:   "mine [root]",
	Short: "Mine the vocabulary of every dataset directory under root",
	Long: `Mine walks every dataset directory under root, parses its RDF files and
writes a content snapshot plus a metadata update per dataset. File failures
are recorded in the error log and never stop the run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		flags := mineFlags
		if len(args) == 1 {
			flags.Root = args[0]
		}
		cfg.Merge(&flags)
		f := cmd.Flags()
		if f.Changed("resume") {
			cfg.Resume = flags.Resume
		}
		if f.Changed("dedup") {
			cfg.Dedup = flags.Dedup
		}

		runLogger := logger.With(slog.String("run_id", uuid.NewString()))
		batch, err := ingest.NewBatch(cfg, runLogger)
		if err != nil {
			return err
		}

		var rec *metrics.Recorder
		if cfg.MetricsFile != "" {
			rec = metrics.NewRecorder()
			batch.WithObserver(rec)
		}

		stats, runErr := batch.Run(cmd.Context())

		if rec != nil {
			rec.ObserveRun(stats.Duration)
			if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
				runLogger.Warn("metrics not written", slog.String("path", cfg.MetricsFile), slog.Any("error", err))
			}
		}
		if runErr != nil {
			return runErr
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(),
			"mined %d datasets (%d skipped, %d filtered, %d failed), %d files, %d triples, %d errors logged to %s\n",
			stats.Mined, stats.Skipped, stats.Filtered, stats.Failed, stats.Files, stats.Triples, stats.Errors, cfg.LogFile)
		return nil
	},
}
