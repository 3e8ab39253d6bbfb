package commands

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
)

func NewCmdInit(st *cliutil.State) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new card collection",
		Long: heredoc.Doc(`
			Creates the tables of a collection in the configured database.
			Running it against an existing collection leaves the cards in place.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := st.Create(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintf(st.Out, "Created collection (%s)\n", st.Config.Adapter().CollectionID())
			return nil
		},
	}
}

func NewCmdOptimize(st *cliutil.State) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Compact and analyze the collection database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Optimize(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(st.Out, "Collection optimized")
			return nil
		},
	}
}
