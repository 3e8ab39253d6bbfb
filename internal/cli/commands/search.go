package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/nonibytes/recall/internal/cliutil"
	"github.com/nonibytes/recall/recall"
	"github.com/nonibytes/recall/recall/render"
)

func NewCmdSearch(st *cliutil.State) *cobra.Command {
	var (
		offset, limit int
		sortBy        string
		desc          bool
		fields        []string
		format        string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find cards matching a query",
		Long: heredoc.Doc(`
			Filters, sorts and pages the collection. sortBy: and -sortBy: inside
			the query override --sort and --desc. A query that does not parse
			matches every card.

			Examples:
			  recall search 'deck:JP is:due' --limit 20
			  recall search '(tag=verb OR tag=adj) -sortBy:srsLevel' --format ids
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cliutil.ParseOutputFormat(format)
			if err != nil {
				return err
			}
			q := ""
			if len(args) == 1 {
				q = args[0]
			}

			opts := recall.SearchOptions{
				Offset: offset,
				Limit:  st.Config.Search.Limit,
				SortBy: sortBy,
				Desc:   desc,
				Fields: fields,
			}
			if cmd.Flags().Changed("limit") {
				opts.Limit = limit
			}
			if opts.SortBy == "" {
				opts.SortBy = st.Config.Search.SortBy
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			start := time.Now()
			page, err := store.Search(cmd.Context(), q, opts)
			if err != nil {
				return err
			}
			printSearch(st, out, page, time.Since(start))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&offset, "offset", 0, "skip this many matches")
	f.IntVar(&limit, "limit", 0, "return at most this many matches (0 for all)")
	f.StringVar(&sortBy, "sort", "", "field to sort by (default from config, deck)")
	f.BoolVar(&desc, "desc", false, "sort descending")
	f.StringSliceVar(&fields, "fields", nil, "fields to include in json output")
	f.StringVar(&format, "format", "pretty", "output format: pretty|ids|json")
	return cmd
}

func printSearch(st *cliutil.State, out cliutil.OutputFormat, page recall.Page, dur time.Duration) {
	switch out {
	case cliutil.FormatJSON:
		cliutil.PrintJSON(st.Out, page)
	case cliutil.FormatIDs:
		for _, d := range page.Data {
			if id, ok := d["id"].(float64); ok {
				fmt.Fprintf(st.Out, "%d\n", int64(id))
			}
		}
	default:
		order := "asc"
		if page.Desc {
			order = "desc"
		}
		fmt.Fprintf(st.Out, "Found %d cards in %dms, sorted by %s %s\n", page.Count, dur.Milliseconds(), page.SortBy, order)
		for _, d := range page.Data {
			front, _ := d["front"].(string)
			deck, _ := d["deck"].(string)
			id, _ := d["id"].(float64)
			fmt.Fprintf(st.Out, "- [%d] %s | %s\n", int64(id), deck, oneLine(front))
		}
		if len(page.Is) > 0 {
			fmt.Fprintf(st.Out, "\nis: %s\n", strings.Join(page.Is, ", "))
		}
	}
}

func oneLine(s string) string {
	s = render.StripDirectives(s)
	return strings.Join(strings.Fields(s), " ")
}
