package recipe

import (
	"errors"
	"fmt"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrDuplicateRecipe = errors.New("duplicate recipe")
	ErrInvalidRate     = errors.New("rate must be a positive number")
	ErrInvalidTitle    = errors.New("title is required")
)

// NotFoundError names the id that could not be resolved.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Recipe %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrRecipeNotFound }

// DuplicateError names the title that already exists.
type DuplicateError struct {
	Title string
}

func (e *DuplicateError) Error() string {
	return "Duplicate recipe: " + e.Title
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicateRecipe }
