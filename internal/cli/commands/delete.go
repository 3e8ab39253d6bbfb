package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
)

func NewCmdDelete(st *cliutil.State) *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "delete <id>... | --where <query>",
		Short: "Delete cards by id or by query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (where == "") == (len(args) == 0) {
				return fmt.Errorf("pass either card ids or --where")
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			var n int
			if where != "" {
				n, err = store.DeleteWhere(cmd.Context(), where)
			} else {
				ids, perr := cliutil.ParseIDs(args)
				if perr != nil {
					return perr
				}
				n, err = store.Delete(cmd.Context(), ids...)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(st.Out, "Deleted %d cards\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&where, "where", "w", "", "delete every card matching this query")
	return cmd
}
