package commands

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
	"github.com/nonibytes/recall/recall/record"
)

func NewCmdUpdate(st *cliutil.State) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "update <id> --set key=value...",
		Short: "Change fields of a card",
		Long: heredoc.Doc(`
			Sets card fields. tag takes a comma separated list that replaces the
			current tags; @Name sets a data field and re-renders templated cards.

			Examples:
			  recall update 12 --set deck=JP/N4 --set srsLevel=3
			  recall update 12 --set @Meaning=dog --set tag=noun,animal
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := cliutil.ParseIDs(args)
			if err != nil {
				return err
			}
			patch, err := parseSets(sets)
			if err != nil {
				return err
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Update(cmd.Context(), ids[0], patch); err != nil {
				return err
			}
			fmt.Fprintf(st.Out, "Updated %d\n", ids[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "field assignment key=value (repeatable)")
	return cmd
}

func parseSets(sets []string) (record.Patch, error) {
	var (
		patch  record.Patch
		result *multierror.Error
	)
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			result = multierror.Append(result, fmt.Errorf("invalid --set %q (expected key=value)", kv))
			continue
		}
		if err := patch.Set(k, v); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return patch, err
	}
	if patch.Empty() {
		return patch, fmt.Errorf("nothing to update, pass --set key=value")
	}
	return patch, nil
}
