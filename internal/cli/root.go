package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nonibytes/recall/internal/cli/commands"
	"github.com/nonibytes/recall/internal/cliutil"
)

// NewRootCmd builds the command tree around st
func NewRootCmd(st *cliutil.State) *cobra.Command {
	root := &cobra.Command{
		Use:           "recall",
		Short:         "Store flashcards and search them with a query language",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.Load()
		},
	}
	root.SetIn(st.In)
	root.SetOut(st.Out)
	root.SetErr(st.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&st.ConfigFile, "config", "", "config file (default is $XDG_CONFIG_HOME/recall/config.yaml)")
	pf.String("backend", "", "storage backend: sqlite|postgres")
	pf.String("db", "", "sqlite database file")
	pf.String("driver", "", "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")
	pf.String("pg-dsn", "", "postgres connection string")
	pf.String("pg-schema", "", "postgres schema holding the collection")
	pf.String("log-level", "", "log level: debug|info|warn|error")
	pf.String("log-format", "", "log format: text|json")

	bindFlags(st.Viper, pf, map[string]string{
		"backend":         "backend",
		"sqlite.path":     "db",
		"sqlite.driver":   "driver",
		"postgres.dsn":    "pg-dsn",
		"postgres.schema": "pg-schema",
		"log.level":       "log-level",
		"log.format":      "log-format",
	})

	root.AddCommand(
		commands.NewCmdInit(st),
		commands.NewCmdOptimize(st),
		commands.NewCmdPut(st),
		commands.NewCmdGet(st),
		commands.NewCmdRender(st),
		commands.NewCmdUpdate(st),
		commands.NewCmdDelete(st),
		commands.NewCmdTag(st),
		commands.NewCmdSearch(st),
		commands.NewCmdExplain(st),
		commands.NewCmdDiscover(st),
	)
	return root
}

// bindFlags maps config keys to the flags that override them
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	st := cliutil.NewState()
	root := NewRootCmd(st)
	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(st.Err, "error:", err)
		return 1
	}
	return 0
}
