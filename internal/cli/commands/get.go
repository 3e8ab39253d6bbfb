package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
	"github.com/nonibytes/recall/recall/record"
)

func NewCmdGet(st *cliutil.State) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>...",
		Short: "Print cards as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := cliutil.ParseIDs(args)
			if err != nil {
				return err
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			cards := make([]record.Record, 0, len(ids))
			for _, id := range ids {
				r, err := store.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				cards = append(cards, r)
			}
			if len(cards) == 1 {
				cliutil.PrintJSON(st.Out, cards[0])
				return nil
			}
			cliutil.PrintJSON(st.Out, cards)
			return nil
		},
	}
}

func NewCmdRender(st *cliutil.State) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Print the rendered front, back and mnemonic of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := cliutil.ParseIDs(args)
			if err != nil {
				return err
			}
			out, err := cliutil.ParseOutputFormat(format)
			if err != nil {
				return err
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rendered, err := store.Render(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			if out == cliutil.FormatJSON {
				cliutil.PrintJSON(st.Out, rendered)
				return nil
			}
			fmt.Fprintf(st.Out, "%s\n---\n%s\n", rendered.Front, rendered.Back)
			if rendered.Mnemonic != "" {
				fmt.Fprintf(st.Out, "---\n%s\n", rendered.Mnemonic)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "pretty", "output format: pretty|json")
	return cmd
}
