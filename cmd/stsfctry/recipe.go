package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gvondra/StsfctryRecipes/internal/recipe"
	"github.com/gvondra/StsfctryRecipes/internal/seed"
	"github.com/gvondra/StsfctryRecipes/internal/store"
)

func (a *app) recipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Recipe options",
	}
	cmd.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.updateCmd(),
		a.addDependencyCmd(),
		a.removeDependencyCmd(),
		a.seedCmd(),
	)
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [id]",
		Short: "List recipes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := 0
			if len(args) == 1 {
				var err error
				if id, err = parseID(args[0], "id"); err != nil {
					return err
				}
			}
			return a.show(cmd, id)
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> [production-rate]",
		Short: "Add new recipe",
		Long:  "Add new recipe. The production rate is the number of items one production unit makes per minute and defaults to 1.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate := 1.0
			if len(args) == 2 {
				var err error
				if rate, err = parseRate(args[1], "production-rate"); err != nil {
					return err
				}
			}

			if err := a.edit(cmd, "add", func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
				return recipe.Add(recipes, args[0], rate)
			}); err != nil {
				return err
			}
			return a.show(cmd, 0)
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var title string
	var productionRate float64

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update existing recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			changes := recipe.Changes{Title: title}
			if cmd.Flags().Changed("production-rate") {
				changes.ProductionRate = &productionRate
			}

			updated := false
			err = a.edit(cmd, "update", func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
				result, err := recipe.Update(recipes, id, changes)
				updated = err == nil
				return result, err
			})
			if err != nil {
				return err
			}
			if updated {
				fmt.Fprintln(cmd.OutOrStdout(), "Recipe updated")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Recipe title")
	cmd.Flags().Float64Var(&productionRate, "production-rate", 0, "Recipe production rate per minute")
	return cmd
}

func (a *app) addDependencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-dependency <id> <dependency-id> <consumption-rate>",
		Short: "Add an input recipe dependency",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			targetID, err := parseID(args[1], "dependency-id")
			if err != nil {
				return err
			}
			rate, err := parseRate(args[2], "consumption-rate")
			if err != nil {
				return err
			}

			if err := a.edit(cmd, "add-dependency", func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
				return recipe.AddDependency(recipes, id, targetID, rate)
			}); err != nil {
				return err
			}
			return a.show(cmd, id)
		},
	}
}

func (a *app) removeDependencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-dependency <id> <dependency-id>",
		Short: "Remove an input recipe dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			targetID, err := parseID(args[1], "dependency-id")
			if err != nil {
				return err
			}

			if err := a.edit(cmd, "remove-dependency", func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
				return recipe.RemoveDependency(recipes, id, targetID)
			}); err != nil {
				return err
			}
			return a.show(cmd, id)
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the starter Satisfactory recipes that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := seed.Run(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"inserts": stats.Inserts, "dependencies": stats.Dependencies}).Debug("seed finished")
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d recipe(s) and %d dependency(ies)\n", stats.Inserts, stats.Dependencies)
			return nil
		},
	}
}

// edit saves the result of fn. Not found and duplicate errors are printed and
// leave the collection untouched.
func (a *app) edit(cmd *cobra.Command, op string, fn store.EditFunc) error {
	if _, err := store.Edit(cmd.Context(), a.store, fn); err != nil {
		a.log.WithError(err).WithField("op", op).Debug("edit rejected")
		return recoverable(cmd, err)
	}
	a.log.WithField("op", op).Debug("recipes saved")
	return nil
}

// show prints the recipe with the given id, or every recipe when the id does
// not resolve.
func (a *app) show(cmd *cobra.Command, id int) error {
	recipes, err := a.store.LoadAll(cmd.Context())
	if err != nil {
		return err
	}
	if r, ok := recipe.Find(recipes, id); ok {
		return recipe.WriteDetail(cmd.OutOrStdout(), recipes, r)
	}
	return recipe.WriteList(cmd.OutOrStdout(), recipes)
}
