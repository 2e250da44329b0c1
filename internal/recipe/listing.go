package recipe

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
)

const (
	branchGlyph = "├ "
	lastGlyph   = "└ "
	barPadding  = "│ "
	blankPad    = "  "
)

// WriteList prints one row per recipe.
func WriteList(w io.Writer, recipes []Recipe) error {
	if _, err := fmt.Fprintln(w, "Satisfactory Recipes"); err != nil {
		return err
	}
	for _, r := range recipes {
		if _, err := fmt.Fprintf(w, "%03d %s\n", r.ID, r.Title); err != nil {
			return err
		}
	}
	return nil
}

// WriteDetail prints r followed by its dependency tree. A recipe already on the
// current branch is printed but not expanded again.
func WriteDetail(w io.Writer, recipes []Recipe, r Recipe) error {
	if _, err := fmt.Fprintf(w, "Recipe %d: %s\n", r.ID, r.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Production Rate: %s per minute\n", wholeNumber(r.ProductionRate)); err != nil {
		return err
	}

	l := lister{w: w, byID: Index(recipes), onPath: map[int]bool{r.ID: true}}
	return l.children(r, "")
}

type lister struct {
	w      io.Writer
	byID   map[int]Recipe
	onPath map[int]bool
}

func (l *lister) children(parent Recipe, padding string) error {
	for i, item := range parent.Items {
		last := i == len(parent.Items)-1
		glyph, childPadding := branchGlyph, padding+barPadding
		if last {
			glyph, childPadding = lastGlyph, padding+blankPad
		}

		if _, err := fmt.Fprintf(l.w, "%s%s%s per min ", padding, glyph, wholeNumber(item.ConsumptionRate)); err != nil {
			return err
		}

		child, ok := l.byID[item.RecipeID]
		if !ok {
			if _, err := fmt.Fprintln(l.w, "not found"); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(l.w, child.Title); err != nil {
			return err
		}
		if l.onPath[child.ID] {
			continue
		}

		l.onPath[child.ID] = true
		err := l.children(child, childPadding)
		delete(l.onPath, child.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// wholeNumber rounds half away from zero and groups thousands.
func wholeNumber(v float64) string {
	r := math.Round(v)
	if r == 0 {
		return "0"
	}
	return humanize.Commaf(r)
}
