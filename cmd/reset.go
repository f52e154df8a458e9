package cmd

import (
	"context"
	"fmt"

	"github.com/devikam/paperprep/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved session snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.SnapshotRepo().Clear(context.Background()); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
		fmt.Println("Saved session cleared.")
		return nil
	},
}
