package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		results, err := st.ResultRepo().RecentResults(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No quizzes completed yet.")
			return nil
		}

		fmt.Printf("%-19s  %-32s  %s\n", "Completed", "Topic", "Score")
		fmt.Println(strings.Repeat("─", 64))

		var correct, possible int
		for _, r := range results {
			fmt.Printf("%-19s  %-32s  %d/%d\n",
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(r.Topic, 32),
				r.Score, r.Total)
			correct += r.Score
			possible += r.Total
		}

		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%d quizzes, %d of %d answers correct\n", len(results), correct, possible)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
}
