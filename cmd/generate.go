package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/aiquiz/internal/quiz"
	"github.com/abhisek/aiquiz/internal/quizgen"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a quiz and print it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := strings.TrimSpace(strings.Join(args, " "))
		if topic == "" {
			return fmt.Errorf("topic must not be empty")
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, _ := newQuizService(cmd.Context(), st.EventRepo())
		p, err := svc.GenerateQuiz(cmd.Context(), topic)
		if err != nil {
			return fmt.Errorf("%s: %w", quizgen.UserMessage(err), err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		printQuiz(p)
		return nil
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <topic> <score>",
	Short: "Ask the AI coach for feedback on a score",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[1])
		if err != nil || score < 0 || score > quiz.MaxScore {
			return fmt.Errorf("score must be an integer from 0 to %d, got %q", quiz.MaxScore, args[1])
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, _ := newQuizService(cmd.Context(), st.EventRepo())
		fb, err := svc.GenerateFeedback(cmd.Context(), args[0], score)
		if err != nil {
			fmt.Fprintln(os.Stderr, "feedback failed:", err)
			fmt.Println(quizgen.FeedbackFallback)
			return nil
		}
		fmt.Println(fb.Message)
		return nil
	},
}

func printQuiz(p *quiz.Payload) {
	fmt.Printf("Topic: %s\n\n", p.Topic)
	for i, q := range p.Questions {
		fmt.Printf("%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			mark := " "
			if j == q.CorrectIndex {
				mark = "*"
			}
			fmt.Printf("   %s %c) %s\n", mark, 'A'+j, opt)
		}
		fmt.Println()
	}
}

func init() {
	generateCmd.Flags().Bool("json", false, "Print the validated quiz payload as JSON")
}
