package recipe

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLegacyDocument(t *testing.T) {
	legacy := []byte(`[
  {
    "Id": 1,
    "Title": "Iron Plate",
    "ProductionRate": 20.0,
    "IsEnabled": false,
    "Items": [ { "RecipeId": 2, "ConsuptionRate": 30.0 } ]
  },
  { "Id": 2, "Title": "Iron Ingot", "ProductionRate": 30.0, "Items": [] }
]`)

	var got []Recipe
	require.NoError(t, json.Unmarshal(legacy, &got))
	require.Len(t, got, 2)

	assert.Equal(t, Recipe{
		ID:             1,
		Title:          "Iron Plate",
		ProductionRate: 20,
		IsEnabled:      false,
		Items:          []Item{{RecipeID: 2, ConsumptionRate: 30}},
	}, got[0])
	assert.True(t, got[1].IsEnabled, "missing isEnabled defaults to enabled")
}

func TestEncodeUsesDocumentFieldNames(t *testing.T) {
	data, err := json.Marshal(Recipe{ID: 3, Title: "Screw", ProductionRate: 40, IsEnabled: true, Items: []Item{{RecipeID: 4, ConsumptionRate: 10}}})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":3,"title":"Screw","productionRate":40,"isEnabled":true,"items":[{"recipeId":4,"consumptionRate":10}]}`,
		string(data))

	var back Recipe
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 10.0, back.Items[0].ConsumptionRate)
}

func TestWriteList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, sample()))
	assert.Equal(t, "Satisfactory Recipes\n001 Iron Ingot\n002 Iron Plate\n004 Iron Rod\n", buf.String())
}

func TestWriteDetailDrawsTree(t *testing.T) {
	recipes := []Recipe{
		{ID: 1, Title: "Reinforced Iron Plate", ProductionRate: 5, Items: []Item{
			{RecipeID: 2, ConsumptionRate: 30},
			{RecipeID: 3, ConsumptionRate: 1500.4},
			{RecipeID: 9, ConsumptionRate: 1},
		}},
		{ID: 2, Title: "Iron Plate", ProductionRate: 20, Items: []Item{{RecipeID: 4, ConsumptionRate: 30}}},
		{ID: 3, Title: "Screw", ProductionRate: 40, Items: []Item{{RecipeID: 4, ConsumptionRate: 10}}},
		{ID: 4, Title: "Iron Ingot", ProductionRate: 30, Items: []Item{}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, recipes, recipes[0]))

	want := "Recipe 1: Reinforced Iron Plate\n" +
		"Production Rate: 5 per minute\n" +
		"├ 30 per min Iron Plate\n" +
		"│ └ 30 per min Iron Ingot\n" +
		"├ 1,500 per min Screw\n" +
		"│ └ 10 per min Iron Ingot\n" +
		"└ 1 per min not found\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDetailStopsOnRepeatedBranch(t *testing.T) {
	recipes := []Recipe{
		{ID: 1, Title: "A", ProductionRate: 1, Items: []Item{{RecipeID: 2, ConsumptionRate: 1}}},
		{ID: 2, Title: "B", ProductionRate: 1, Items: []Item{{RecipeID: 1, ConsumptionRate: 2}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDetail(&buf, recipes, recipes[0]))
	assert.Equal(t, "Recipe 1: A\nProduction Rate: 1 per minute\n└ 1 per min B\n  └ 2 per min A\n", buf.String())
}

func TestWholeNumberGroupsBeyondInt64(t *testing.T) {
	assert.Equal(t, "0", wholeNumber(0.4))
	assert.Equal(t, "0", wholeNumber(-0.3))
	assert.Equal(t, "1,501", wholeNumber(1500.5))
	assert.Equal(t, "-2,500", wholeNumber(-2499.6))
	assert.Equal(t, "100,000,000,000,000,000,000", wholeNumber(1e20))
}
