package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
)

func NewCmdTag(st *cliutil.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove tags on cards",
	}
	cmd.AddCommand(
		newTagCmd(st, "add", "Attach tags to cards"),
		newTagCmd(st, "remove", "Detach tags from cards"),
	)
	return cmd
}

func newTagCmd(st *cliutil.State, verb, short string) *cobra.Command {
	var ids []string

	cmd := &cobra.Command{
		Use:   verb + " <tag>... --ids 1,2,3",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardIDs, err := cliutil.ParseIDs(ids)
			if err != nil {
				return err
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if verb == "add" {
				err = store.AddTags(cmd.Context(), cardIDs, args)
			} else {
				err = store.RemoveTags(cmd.Context(), cardIDs, args)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(st.Out, "Tagged %d cards\n", len(cardIDs))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ids, "ids", nil, "card ids")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}
