// Command stsfctry edits a Satisfactory recipe collection and calculates the
// production needed to reach an output rate.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gvondra/StsfctryRecipes/internal/config"
	"github.com/gvondra/StsfctryRecipes/internal/logging"
	"github.com/gvondra/StsfctryRecipes/internal/recipe"
	"github.com/gvondra/StsfctryRecipes/internal/store"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil && a.log != nil {
			a.log.WithError(cerr).Warn("failed to close recipe store")
		}
	}
	if err != nil {
		return 1
	}
	return 0
}

type app struct {
	cfg   config.Config
	log   *logrus.Logger
	store store.Store
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "stsfctry",
		Short:             "Satisfactory Recipe Calculator",
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}

	flags := root.PersistentFlags()
	flags.String("file", "", "recipe collection file (default "+store.DefaultFileName+")")
	flags.String("driver", "", "recipe store driver: json, sqlite or s3")
	flags.String("db", "", "sqlite database path when --driver=sqlite")
	flags.String("log-level", "", "log level written to stderr")

	root.AddCommand(a.recipeCmd(), a.calcCmd())
	return root
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel, cmd.ErrOrStderr())

	s, err := store.Open(cmd.Context(), cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("open recipe store: %w", err)
	}
	a.store = s
	a.log.WithField("driver", cfg.StoreDriver).Debug("recipe store opened")
	return nil
}

// recoverable prints not found and duplicate errors as ordinary output so the
// command still succeeds. Any other error is returned.
func recoverable(cmd *cobra.Command, err error) error {
	if errors.Is(err, recipe.ErrRecipeNotFound) || errors.Is(err, recipe.ErrDuplicateRecipe) {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	return err
}

func parseID(raw, name string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", name, raw)
	}
	return id, nil
}

func parseRate(raw, name string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric: %q", name, raw)
	}
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be greater than 0", name)
	}
	return value, nil
}
