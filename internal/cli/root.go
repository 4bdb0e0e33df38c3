// Package cli is the command-line front end of the card list.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/heartmarshall/myenglish-cards/internal/app"
	"github.com/heartmarshall/myenglish-cards/internal/config"
)

var validOutputFormats = []string{"table", "json", "yaml"}

// noAppCommands run without configuration or API access.
var noAppCommands = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// Env holds the process streams. Tests replace them to capture output.
type Env struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// Terminal reports whether Out is a terminal. Nil means it never is.
	Terminal func() bool
}

type cli struct {
	env     Env
	cfgPath string
	output  string
	raw     bool

	cfg *config.Config
	app *app.App
}

// NewRootCmd builds the command tree.
func NewRootCmd(env Env) *cobra.Command {
	c := &cli{env: env}

	root := &cobra.Command{
		Use:           "cards",
		Short:         "Browse and edit the cards of a flashcards deck",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(validOutputFormats, c.output) {
				return fmt.Errorf("invalid output format: %s (valid: %v)", c.output, validOutputFormats)
			}
			if noAppCommands[cmd.Name()] {
				return nil
			}
			return c.init()
		},
	}
	root.SetIn(env.In)
	root.SetOut(env.Out)
	root.SetErr(env.Err)

	root.PersistentFlags().StringVarP(&c.output, "output", "o", "table", "Output format: table, json, yaml")
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "Config file (default $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().BoolVar(&c.raw, "raw", false, "Print tables as plain markdown even on a terminal")

	root.AddCommand(
		c.newListCmd(),
		c.newAddCmd(),
		c.newEditCmd(),
		c.newRmCmd(),
		c.newGradeCmd(),
		c.newBrowseCmd(),
		c.newWhoamiCmd(),
		c.newVersionCmd(),
	)
	return root
}

func (c *cli) init() error {
	path := c.cfgPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, app.NewLogger(cfg.Log))
	if err != nil {
		return err
	}
	c.cfg, c.app = cfg, a
	return nil
}

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.printer().print(map[string]string{
				"version":    app.Version,
				"commit":     app.Commit,
				"build_time": app.BuildTime,
			}, func(w io.Writer) {
				fmt.Fprintf(w, "cards %s\n", app.BuildVersion())
			})
		},
	}
}

// Execute runs the command line against the process streams and returns the
// exit code.
func Execute(ctx context.Context) int {
	env := Env{
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Terminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
	if err := NewRootCmd(env).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
