package calc

// Totals accumulates the absolute demand placed on each recipe during one
// calculation. A recipe reached through several parents is summed.
type Totals struct {
	order []int
	byID  map[int]float64
}

// NewTotals returns an empty accumulator.
func NewTotals() *Totals {
	return &Totals{byID: make(map[int]float64)}
}

// Add inserts rate for id, or sums it into the existing entry.
func (t *Totals) Add(id int, rate float64) {
	if _, ok := t.byID[id]; !ok {
		t.order = append(t.order, id)
	}
	t.byID[id] += rate
}

// Rate returns the summed demand on id and whether id was reached.
func (t *Totals) Rate(id int) (float64, bool) {
	rate, ok := t.byID[id]
	return rate, ok
}

// IDs lists recipe ids in the order they were first added.
func (t *Totals) IDs() []int {
	ids := make([]int, len(t.order))
	copy(ids, t.order)
	return ids
}

// Len is the number of distinct recipes added.
func (t *Totals) Len() int { return len(t.order) }
