package recipe

import (
	"encoding/json"
	"sort"
	"strings"
)

// Recipe is one production process. ProductionRate is the number of units one
// production unit outputs per minute.
type Recipe struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	ProductionRate float64 `json:"productionRate"`
	IsEnabled      bool    `json:"isEnabled"`
	Items          []Item  `json:"items"`
}

// Item is a dependency of a recipe. ConsumptionRate is expressed per minute for
// one production unit of the owning recipe.
type Item struct {
	RecipeID        int     `json:"recipeId"`
	ConsumptionRate float64 `json:"consumptionRate"`
}

// UnmarshalJSON decodes a recipe, treating a missing isEnabled as enabled.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type plain Recipe
	aux := struct {
		plain
		IsEnabled *bool `json:"isEnabled"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Recipe(aux.plain)
	r.IsEnabled = aux.IsEnabled == nil || *aux.IsEnabled
	if r.Items == nil {
		r.Items = []Item{}
	}
	return nil
}

// UnmarshalJSON accepts files written with the historical "ConsuptionRate" key.
func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	aux := struct {
		plain
		Legacy *float64 `json:"consuptionRate"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*i = Item(aux.plain)
	if i.ConsumptionRate == 0 && aux.Legacy != nil {
		i.ConsumptionRate = *aux.Legacy
	}
	return nil
}

// Clone returns a copy that shares no memory with r.
func (r Recipe) Clone() Recipe {
	items := make([]Item, len(r.Items))
	copy(items, r.Items)
	r.Items = items
	return r
}

// HasDependency reports whether r already consumes targetID.
func (r Recipe) HasDependency(targetID int) bool {
	for _, item := range r.Items {
		if item.RecipeID == targetID {
			return true
		}
	}
	return false
}

// Find returns the recipe with the given id.
func Find(recipes []Recipe, id int) (Recipe, bool) {
	idx := indexOf(recipes, id)
	if idx < 0 {
		return Recipe{}, false
	}
	return recipes[idx], true
}

// FindByTitle matches titles case-insensitively.
func FindByTitle(recipes []Recipe, title string) (Recipe, bool) {
	for _, r := range recipes {
		if strings.EqualFold(r.Title, title) {
			return r, true
		}
	}
	return Recipe{}, false
}

// Index maps recipe ids to recipes. The first recipe with a given id wins, as
// it does for Find.
func Index(recipes []Recipe) map[int]Recipe {
	byID := make(map[int]Recipe, len(recipes))
	for _, r := range recipes {
		if _, seen := byID[r.ID]; !seen {
			byID[r.ID] = r
		}
	}
	return byID
}

func indexOf(recipes []Recipe, id int) int {
	for i, r := range recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out
}

func sortByID(recipes []Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
}
