package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvondra/StsfctryRecipes/internal/recipe"
)

func sampleRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: 1, Title: "Iron Ore", ProductionRate: 60, IsEnabled: true, Items: []recipe.Item{}},
		{ID: 2, Title: "Iron Ingot", ProductionRate: 30, IsEnabled: false, Items: []recipe.Item{{RecipeID: 1, ConsumptionRate: 30}}},
		{ID: 3, Title: "Iron Plate", ProductionRate: 20, IsEnabled: true, Items: []recipe.Item{
			{RecipeID: 2, ConsumptionRate: 30},
			{RecipeID: 7, ConsumptionRate: 1.25},
		}},
	}
}

type countingStore struct {
	recipes []recipe.Recipe
	saves   int
}

func (c *countingStore) LoadAll(context.Context) ([]recipe.Recipe, error) { return c.recipes, nil }

func (c *countingStore) SaveAll(_ context.Context, recipes []recipe.Recipe) error {
	c.saves++
	c.recipes = recipes
	return nil
}

func (c *countingStore) Close() error { return nil }

func TestEditSavesOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := &countingStore{recipes: sampleRecipes()}

	_, err := Edit(ctx, s, func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
		return recipe.Add(recipes, "iron ore", 1)
	})
	require.ErrorIs(t, err, recipe.ErrDuplicateRecipe)
	assert.Equal(t, 0, s.saves)

	updated, err := Edit(ctx, s, func(recipes []recipe.Recipe) ([]recipe.Recipe, error) {
		return recipe.Add(recipes, "Copper Ore", 60)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.saves)
	assert.Len(t, updated, 4)
	assert.Equal(t, updated, s.recipes)
}

func TestFileLoadMissingReturnsEmpty(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "none.json"))
	recipes, err := f.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	f := NewFile(path)

	require.NoError(t, f.SaveAll(ctx, sampleRecipes()))
	got, err := f.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecipes(), got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc []map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc, 3)
	for _, key := range []string{"id", "title", "productionRate", "isEnabled", "items"} {
		assert.Contains(t, doc[0], key)
	}
	item := doc[1]["items"].([]any)[0].(map[string]any)
	assert.Contains(t, item, "recipeId")
	assert.Contains(t, item, "consumptionRate")
}

func TestFileLoadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	legacy := "\xef\xbb\xbf" + `[{"Id":1,"Title":"Wire","ProductionRate":30.0,"IsEnabled":true,"Items":[{"RecipeId":2,"ConsuptionRate":15.0}]}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	got, err := NewFile(path).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []recipe.Item{{RecipeID: 2, ConsumptionRate: 15}}, got[0].Items)
}

func TestFileLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFile(path).LoadAll(context.Background())
	require.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "bogus"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, recipe.ErrRecipeNotFound))
}
