// Package calc propagates a requested output rate down a recipe dependency
// graph and totals the demand placed on every recipe it reaches.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gvondra/StsfctryRecipes/internal/recipe"
)

const (
	branchGlyph = "├ "
	lastGlyph   = "└ "
	barPadding  = "│ "
	blankPad    = "  "
)

// ErrCycle is matched by every *CycleError.
var ErrCycle = errors.New("dependency cycle detected")

// CycleError lists the recipe ids from the root to the recipe that repeats.
type CycleError struct {
	Path []int
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(ids, " -> "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// Line is one non-root node of the dependency tree. Prefix holds the
// connector glyphs. Found is false when the item references a missing recipe.
type Line struct {
	Prefix   string  `json:"prefix"`
	Depth    int     `json:"depth"`
	RecipeID int     `json:"recipeId"`
	Title    string  `json:"title,omitempty"`
	Scale    float64 `json:"scale"`
	Rate     float64 `json:"rate"`
	Found    bool    `json:"found"`
}

// Summary is the total demand on one recipe across every branch.
type Summary struct {
	RecipeID int     `json:"recipeId"`
	Title    string  `json:"title"`
	Units    float64 `json:"units"`
	Rate     float64 `json:"rate"`
}

// Result groups the tree breakdown and the per-recipe totals of one calculation.
type Result struct {
	RootID  int       `json:"rootId"`
	Title   string    `json:"title"`
	Rate    float64   `json:"rate"`
	Units   float64   `json:"units"`
	Lines   []Line    `json:"lines"`
	Summary []Summary `json:"summary"`
	Missing []int     `json:"missing,omitempty"`

	Totals *Totals `json:"-"`
}

// Propagate computes the demand placed on every recipe reachable from rootID
// when the root is asked to produce rate. Items referencing missing recipes are
// reported as not found and their branch stops there. A recipe that repeats on
// its own branch fails the whole calculation with a *CycleError.
func Propagate(recipes []recipe.Recipe, rootID int, rate Rate) (Result, error) {
	byID := recipe.Index(recipes)
	root, ok := byID[rootID]
	if !ok {
		return Result{}, &recipe.NotFoundError{ID: rootID}
	}

	requested := rate.resolve(root.ProductionRate)
	scale := requested / root.ProductionRate

	p := &propagator{
		byID:   byID,
		totals: NewTotals(),
		lines:  []Line{},
		path:   []int{root.ID},
		onPath: map[int]bool{root.ID: true},
	}
	p.totals.Add(root.ID, requested)
	if err := p.visit(root, scale, "", 1); err != nil {
		return Result{}, err
	}

	return Result{
		RootID:  root.ID,
		Title:   root.Title,
		Rate:    requested,
		Units:   scale,
		Lines:   p.lines,
		Summary: p.summarize(),
		Missing: p.missing,
		Totals:  p.totals,
	}, nil
}

type propagator struct {
	byID    map[int]recipe.Recipe
	totals  *Totals
	lines   []Line
	missing []int
	path    []int
	onPath  map[int]bool
}

func (p *propagator) visit(parent recipe.Recipe, scale float64, padding string, depth int) error {
	for i, item := range parent.Items {
		glyph, childPadding := branchGlyph, padding+barPadding
		if i == len(parent.Items)-1 {
			glyph, childPadding = lastGlyph, padding+blankPad
		}
		demand := scale * item.ConsumptionRate

		child, ok := p.byID[item.RecipeID]
		if !ok {
			p.lines = append(p.lines, Line{Prefix: padding + glyph, Depth: depth, RecipeID: item.RecipeID, Rate: demand})
			p.missing = append(p.missing, item.RecipeID)
			continue
		}
		if p.onPath[child.ID] {
			path := append(append([]int{}, p.path...), child.ID)
			return &CycleError{Path: path}
		}

		childScale := demand / child.ProductionRate
		p.totals.Add(child.ID, demand)
		p.lines = append(p.lines, Line{
			Prefix:   padding + glyph,
			Depth:    depth,
			RecipeID: child.ID,
			Title:    child.Title,
			Scale:    childScale,
			Rate:     demand,
			Found:    true,
		})

		p.path = append(p.path, child.ID)
		p.onPath[child.ID] = true
		err := p.visit(child, childScale, childPadding, depth+1)
		p.path = p.path[:len(p.path)-1]
		delete(p.onPath, child.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *propagator) summarize() []Summary {
	summary := make([]Summary, 0, p.totals.Len())
	for _, id := range p.totals.IDs() {
		r := p.byID[id]
		total, _ := p.totals.Rate(id)
		summary = append(summary, Summary{
			RecipeID: id,
			Title:    r.Title,
			Units:    total / r.ProductionRate,
			Rate:     total,
		})
	}
	return summary
}
