package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/devikam/paperprep/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show past paper results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		rows, err := st.EventRepo().SessionHistory(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No completed papers yet.")
			return nil
		}

		fmt.Printf("%-19s  %-32s  %-9s  %-9s  %s\n",
			"Finished", "Paper", "Marks", "Answered", "Time")
		fmt.Println(strings.Repeat("─", 84))

		for _, r := range rows {
			marks := fmt.Sprintf("%d/%d", r.ScoredMarks, r.PossibleMarks)
			answered := fmt.Sprintf("%d/%d", r.Answered, r.QuestionCount)
			mins := r.DurationSecs / 60
			secs := r.DurationSecs % 60
			fmt.Printf("%-19s  %-32s  %-9s  %-9s  %d:%02d\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.PaperName, 32),
				marks, answered, mins, secs)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of papers to show")
}
