package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
	"github.com/nonibytes/recall/recall/ops"
)

func NewCmdDiscover(st *cliutil.State) *cobra.Command {
	var (
		where  string
		top    int
		format string
	)

	cmd := &cobra.Command{
		Use:   "discover <field>",
		Short: "Count the most common values of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cliutil.ParseOutputFormat(format)
			if err != nil {
				return err
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			values, err := store.Discover(cmd.Context(), args[0], where, top)
			if err != nil {
				return err
			}

			if out == cliutil.FormatJSON {
				cliutil.PrintJSON(st.Out, values)
				return nil
			}
			fmt.Fprintf(st.Out, "Top values for field '%s':\n", args[0])
			for _, v := range values {
				fmt.Fprintf(st.Out, "  %s: %d\n", v.Value, v.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&where, "where", "w", "", "only count cards matching this query")
	cmd.Flags().IntVar(&top, "top", ops.DefaultDiscoverTop, "number of values to return")
	cmd.Flags().StringVar(&format, "format", "pretty", "output format: pretty|json")
	return cmd
}
