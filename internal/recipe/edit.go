package recipe

import (
	"math"
	"strings"
)

// Changes describes an update. A blank Title or a nil ProductionRate keeps the
// current value.
type Changes struct {
	Title          string
	ProductionRate *float64
}

// Add appends a new enabled recipe with the next free id and returns the
// collection ordered by id.
func Add(recipes []Recipe, title string, productionRate float64) ([]Recipe, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if !validRate(productionRate) {
		return nil, ErrInvalidRate
	}
	if _, exists := FindByTitle(recipes, title); exists {
		return nil, &DuplicateError{Title: title}
	}

	next := 1
	for _, r := range recipes {
		if r.ID >= next {
			next = r.ID + 1
		}
	}

	result := append(cloneAll(recipes), Recipe{
		ID:             next,
		Title:          title,
		ProductionRate: productionRate,
		IsEnabled:      true,
		Items:          []Item{},
	})
	sortByID(result)
	return result, nil
}

// Update applies changes to the recipe with the given id.
func Update(recipes []Recipe, id int, changes Changes) ([]Recipe, error) {
	idx := indexOf(recipes, id)
	if idx < 0 {
		return nil, &NotFoundError{ID: id}
	}

	result := cloneAll(recipes)
	updated := result[idx]

	if title := strings.TrimSpace(changes.Title); title != "" {
		if other, exists := FindByTitle(recipes, title); exists && other.ID != id {
			return nil, &DuplicateError{Title: title}
		}
		updated.Title = title
	}
	if changes.ProductionRate != nil {
		if !validRate(*changes.ProductionRate) {
			return nil, ErrInvalidRate
		}
		updated.ProductionRate = *changes.ProductionRate
	}

	result[idx] = updated
	sortByID(result)
	return result, nil
}

// AddDependency makes id consume targetID. The collection is returned
// unchanged when the dependency already exists.
func AddDependency(recipes []Recipe, id, targetID int, consumptionRate float64) ([]Recipe, error) {
	idx := indexOf(recipes, id)
	if idx < 0 {
		return nil, &NotFoundError{ID: id}
	}
	if indexOf(recipes, targetID) < 0 {
		return nil, &NotFoundError{ID: targetID}
	}
	if recipes[idx].HasDependency(targetID) {
		return recipes, nil
	}
	if !validRate(consumptionRate) {
		return nil, ErrInvalidRate
	}

	result := cloneAll(recipes)
	result[idx].Items = append(result[idx].Items, Item{RecipeID: targetID, ConsumptionRate: consumptionRate})
	sortByID(result)
	return result, nil
}

// RemoveDependency drops every item of id that references targetID. Removing a
// dependency that does not exist is not an error.
func RemoveDependency(recipes []Recipe, id, targetID int) ([]Recipe, error) {
	idx := indexOf(recipes, id)
	if idx < 0 {
		return nil, &NotFoundError{ID: id}
	}
	if !recipes[idx].HasDependency(targetID) {
		return recipes, nil
	}

	result := cloneAll(recipes)
	kept := make([]Item, 0, len(result[idx].Items))
	for _, item := range result[idx].Items {
		if item.RecipeID != targetID {
			kept = append(kept, item)
		}
	}
	result[idx].Items = kept
	sortByID(result)
	return result, nil
}

func validRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
