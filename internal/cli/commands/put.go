package commands

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nonibytes/recall/internal/cliutil"
	"github.com/nonibytes/recall/recall/record"
)

func NewCmdPut(st *cliutil.State) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "put [--file cards.yaml]",
		Short: "Insert cards",
		Long: heredoc.Doc(`
			Inserts cards read as JSON lines from stdin, or as a YAML or JSON
			list from --file. A front or back starting with "@template" on its
			own line is stored as a template and rendered from the card data.

			Examples:
			  echo '{"front":"犬","back":"dog","deck":"JP","tag":["noun"]}' | recall put
			  recall put --file cards.yaml
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				records []record.Record
				err     error
			)
			if file != "" {
				records, err = readCardFile(file)
			} else {
				records, err = readJSONLines(st.In)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("no cards to insert")
			}

			store, err := st.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.Insert(cmd.Context(), records...)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(st.Out, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file holding a list of cards")
	return cmd
}

// readJSONLines decodes one card per non-blank line, collecting every bad line
func readJSONLines(r io.Reader) ([]record.Record, error) {
	var (
		records []record.Record
		result  *multierror.Error
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec record.Record
		if err := json.Unmarshal(b, &rec); err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		result = multierror.Append(result, fmt.Errorf("read stdin: %w", err))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return records, nil
}

// readCardFile decodes a YAML list of cards; JSON is valid YAML
func readCardFile(path string) ([]record.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []record.Record
	if err := yaml.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
