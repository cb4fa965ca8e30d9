package cmd

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/rdfmine/internal/clean"
	"github.com/agentic-research/rdfmine/internal/config"
)

var cleanDedup bool

func init() {
	bindCleanFlags()
	rootCmd.AddCommand(cleanCmd)
}

func bindCleanFlags() {
	cleanCmd.Flags().BoolVar(&cleanDedup, "dedup", false, "Clean the deduplicated snapshots")
}

var cleanCmd = &cobra.Command{
	Use:   "clean <root>",
	Short: "Write cleaned entity and literal lists next to each snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		if err := requireDir(root); err != nil {
			return err
		}

		stats, err := clean.Run(cmd.Context(), osfs.New(root), cleanDedup, logger)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleaned %d snapshots (%d missing, %d failed)\n",
			stats.Cleaned, stats.Missing, stats.Failed)
		return nil
	},
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: root %s: %v", config.ErrInvalidConfig, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: root %s is not a directory", config.ErrInvalidConfig, path)
	}
	return nil
}
