package main

import (
	"github.com/spf13/cobra"

	"github.com/gvondra/StsfctryRecipes/internal/calc"
)

func (a *app) calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc <id> [consumption-rate]",
		Short: "Calculate consumption rates and production units",
		Long:  "Calculate consumption rates and production units. The consumption rate is the number of items per minute to produce and defaults to the recipe's own production rate.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "id")
			if err != nil {
				return err
			}
			rate := calc.OwnRate()
			if len(args) == 2 {
				value, err := parseRate(args[1], "consumption-rate")
				if err != nil {
					return err
				}
				rate = calc.RateOf(value)
			}

			recipes, err := a.store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			result, err := calc.Propagate(recipes, id, rate)
			if err != nil {
				return recoverable(cmd, err)
			}
			_, err = result.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}
