package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/codewise/internal/core"
)

var (
	historyRoot  string
	historyLimit int
	historyShow  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled reviews of the repository (requires DB_HOST)",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	historyCmd.Flags().StringVarP(&historyRoot, "root", "r", ".", "Path to the working copy")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of reviews to list")
	historyCmd.Flags().BoolVar(&historyShow, "show", false, "Print the review text rendered as markdown")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, cleanup, err := initApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	id, records, err := a.History(ctx, historyRoot, historyLimit)
	if err != nil {
		return err
	}

	titleColor.Printf("Review history for %s\n\n", id.FullName())
	if len(records) == 0 {
		dimColor.Println("No reviews recorded yet.")
		return nil
	}
	for _, rec := range records {
		fmt.Println(formatRecord(rec))
		if historyShow {
			fmt.Println(renderMarkdown(rec.ReviewContent))
		}
	}
	return nil
}

func formatRecord(rec *core.ReviewRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  [%s]  %s", rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Language.Code(), rec.FilePath)
	if rec.PRNumber > 0 {
		fmt.Fprintf(&sb, "  → PR #%d", rec.PRNumber)
	}
	fmt.Fprintf(&sb, "\n    %s", rec.ArtifactPath)
	return sb.String()
}
