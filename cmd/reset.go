package cmd

import (
	"fmt"

	"github.com/abhisek/aiquiz/internal/session"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the saved quiz session",
	Long:  "Delete the persisted topic, quiz, and answers. Quiz history and the LLM event log are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.KVRepo().Delete(cmd.Context(), session.StorageKey); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Session cleared.")
		return nil
	},
}
