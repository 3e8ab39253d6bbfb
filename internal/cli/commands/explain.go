package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
	"github.com/nonibytes/recall/recall/query"
)

type explanation struct {
	Tree   any      `json:"tree"`
	Keys   []string `json:"keys"`
	Is     []string `json:"is"`
	SortBy string   `json:"sortBy,omitempty"`
	Desc   bool     `json:"desc,omitempty"`
	Failed bool     `json:"failed,omitempty"`
}

func NewCmdExplain(st *cliutil.State) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <query>",
		Short: "Show how a query is parsed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := query.Parse(args[0])

			cliutil.PrintJSON(st.Out, explanation{
				Tree:   query.Encode(parsed.Tree),
				Keys:   query.Keys(parsed.Tree),
				Is:     parsed.PseudoTags(),
				SortBy: parsed.SortBy,
				Desc:   parsed.Desc,
				Failed: parsed.Failed,
			})
			if parsed.Failed {
				fmt.Fprintln(st.Err, "warning: query did not parse and matches every card")
			}
			if err := query.Validate(parsed.Tree); err != nil {
				fmt.Fprintf(st.Err, "warning: %v\n", err)
			}
			return nil
		},
	}
}
