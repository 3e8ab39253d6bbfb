package cliutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/nonibytes/recall/internal/config"
	"github.com/nonibytes/recall/internal/logger"
	"github.com/nonibytes/recall/recall"
)

// State is shared by every command of one CLI invocation
type State struct {
	Viper      *viper.Viper
	ConfigFile string
	Config     *config.Config

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func NewState() *State {
	return &State{
		Viper: viper.New(),
		In:    os.Stdin,
		Out:   os.Stdout,
		Err:   os.Stderr,
	}
}

// Load reads the configuration and initializes logging
func (s *State) Load() error {
	cfg, err := config.Load(s.Viper, s.ConfigFile)
	if err != nil {
		return err
	}
	s.Config = cfg
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: s.Err})
	return nil
}

func (s *State) options() recall.Options {
	opts := recall.DefaultOptions()
	opts.Logger = logger.Get()
	return opts
}

// Open opens the configured collection
func (s *State) Open(ctx context.Context) (*recall.Store, error) {
	return recall.Open(ctx, s.Config.Adapter(), s.options())
}

// Create initializes the configured collection
func (s *State) Create(ctx context.Context) (*recall.Store, error) {
	return recall.Create(ctx, s.Config.Adapter(), s.options())
}

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatIDs    OutputFormat = "ids"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatPretty, FormatIDs, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want pretty, ids or json)", s)
	}
}

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

// ParseIDs converts card id arguments, reporting every bad one
func ParseIDs(args []string) ([]int64, error) {
	var result *multierror.Error
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				result = multierror.Append(result, fmt.Errorf("invalid card id %q", part))
				continue
			}
			ids = append(ids, id)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no card ids given")
	}
	return ids, nil
}
