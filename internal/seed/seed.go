package seed

import (
	"context"
	"fmt"

	"github.com/gvondra/StsfctryRecipes/internal/recipe"
	"github.com/gvondra/StsfctryRecipes/internal/store"
)

type need struct {
	Title string
	Rate  float64
}

type starter struct {
	Title string
	Rate  float64
	Needs []need
}

// Rates are per minute for one machine at 100% clock speed.
var starterRecipes = []starter{
	{Title: "Iron Ore", Rate: 60},
	{Title: "Copper Ore", Rate: 60},
	{Title: "Limestone", Rate: 60},
	{Title: "Iron Ingot", Rate: 30, Needs: []need{{"Iron Ore", 30}}},
	{Title: "Copper Ingot", Rate: 30, Needs: []need{{"Copper Ore", 30}}},
	{Title: "Iron Plate", Rate: 20, Needs: []need{{"Iron Ingot", 30}}},
	{Title: "Iron Rod", Rate: 15, Needs: []need{{"Iron Ingot", 15}}},
	{Title: "Screw", Rate: 40, Needs: []need{{"Iron Rod", 10}}},
	{Title: "Reinforced Iron Plate", Rate: 5, Needs: []need{{"Iron Plate", 30}, {"Screw", 60}}},
	{Title: "Rotor", Rate: 4, Needs: []need{{"Iron Rod", 20}, {"Screw", 100}}},
	{Title: "Modular Frame", Rate: 2, Needs: []need{{"Reinforced Iron Plate", 3}, {"Iron Rod", 12}}},
	{Title: "Wire", Rate: 30, Needs: []need{{"Copper Ingot", 15}}},
	{Title: "Cable", Rate: 30, Needs: []need{{"Wire", 60}}},
	{Title: "Concrete", Rate: 15, Needs: []need{{"Limestone", 45}}},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts      int
	Dependencies int
}

// Run adds the starter recipes that are missing, matching titles
// case-insensitively, and saves only when something changed.
func Run(ctx context.Context, s store.Store) (Stats, error) {
	recipes, err := s.LoadAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load recipes for seed: %w", err)
	}

	seeded, stats, err := Apply(recipes)
	if err != nil {
		return Stats{}, err
	}
	if stats.Inserts == 0 && stats.Dependencies == 0 {
		return stats, nil
	}

	if err := s.SaveAll(ctx, seeded); err != nil {
		return Stats{}, fmt.Errorf("save seeded recipes: %w", err)
	}
	return stats, nil
}

// Apply returns recipes with the starter set merged in. Existing recipes keep
// their rates; only missing recipes and dependencies are added.
func Apply(recipes []recipe.Recipe) ([]recipe.Recipe, Stats, error) {
	stats := Stats{}

	var err error
	for _, st := range starterRecipes {
		if _, exists := recipe.FindByTitle(recipes, st.Title); exists {
			continue
		}
		if recipes, err = recipe.Add(recipes, st.Title, st.Rate); err != nil {
			return nil, Stats{}, fmt.Errorf("add starter recipe %q: %w", st.Title, err)
		}
		stats.Inserts++
	}

	for _, st := range starterRecipes {
		owner, _ := recipe.FindByTitle(recipes, st.Title)
		for _, n := range st.Needs {
			target, _ := recipe.FindByTitle(recipes, n.Title)
			if owner.HasDependency(target.ID) {
				continue
			}
			if recipes, err = recipe.AddDependency(recipes, owner.ID, target.ID, n.Rate); err != nil {
				return nil, Stats{}, fmt.Errorf("add starter dependency %q -> %q: %w", st.Title, n.Title, err)
			}
			owner, _ = recipe.FindByTitle(recipes, st.Title)
			stats.Dependencies++
		}
	}

	return recipes, stats, nil
}
