package cmd

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/rdfmine/api"
	"github.com/agentic-research/rdfmine/internal/index"
)

var indexDedup bool

func init() {
	bindIndexFlags()
	rootCmd.AddCommand(indexCmd, lookupCmd)
}

func bindIndexFlags() {
	indexCmd.Flags().BoolVar(&indexDedup, "dedup", false, "Index the deduplicated snapshots")
}

var indexCmd = &cobra.Command{
	Use:   "index <root> <index.db>",
	Short: "Build a term search index from the dataset snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, dbPath := args[0], args[1]
		if err := requireDir(root); err != nil {
			return err
		}

		stats, err := index.Build(cmd.Context(), osfs.New(root), dbPath, indexDedup, logger)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d datasets (%d without snapshot, %d unreadable) into %s\n",
			stats.Indexed, stats.Missing, stats.Invalid, dbPath)
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <index.db> <category> <term>...",
	Short: "Print the datasets whose category holds every term",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, ok := api.ParseCategory(args[1])
		if !ok {
			names := make([]string, len(api.Categories))
			for i, c := range api.Categories {
				names[i] = string(c)
			}
			return fmt.Errorf("unknown category %q (want one of %s)", args[1], strings.Join(names, ", "))
		}

		ix, err := index.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = ix.Close() }()

		datasets, err := ix.Lookup(category, args[2:]...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, ds := range datasets {
			_, _ = fmt.Fprintln(out, ds)
		}
		return nil
	},
}
