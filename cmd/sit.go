package cmd

import (
	"fmt"
	"os"

	"github.com/devikam/paperprep/internal/app"
	"github.com/devikam/paperprep/internal/extract"
	"github.com/devikam/paperprep/internal/llm"
	"github.com/devikam/paperprep/internal/marking"
	"github.com/devikam/paperprep/internal/store"
	"github.com/spf13/cobra"
)

var sitCmd = &cobra.Command{
	Use:   "sit <paper.pdf>",
	Short: "Sit a past paper",
	Long: "Start an exam session over the given question paper. An insert\n" +
		"document and a mark scheme can be supplied with flags.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		opts := app.Options{
			SnapshotRepo: st.SnapshotRepo(),
			EventRepo:    st.EventRepo(),
		}
		if len(args) > 0 {
			opts.PaperPath = args[0]
			if _, err := os.Stat(opts.PaperPath); err != nil {
				return fmt.Errorf("paper: %w", err)
			}
		}
		opts.InsertPath, _ = cmd.Flags().GetString("insert")
		opts.SchemePath, _ = cmd.Flags().GetString("scheme")

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			// The upload screen explains the missing credential.
			opts.CredErr = err
		} else {
			opts.Extractor = extract.New(provider, extract.DefaultConfig())
			opts.Marker = marking.New(provider, marking.DefaultConfig())
		}

		return app.Run(opts)
	},
}

func init() {
	sitCmd.Flags().String("insert", "", "Insert document (data booklet, source texts)")
	sitCmd.Flags().String("scheme", "", "Mark scheme document for grounded marking")
}
