package calc

// Rate is a requested output rate, either explicit or the root recipe's own
// production rate.
type Rate struct {
	value float64
	set   bool
}

// RateOf requests v units per minute.
func RateOf(v float64) Rate { return Rate{value: v, set: true} }

// OwnRate requests exactly one production unit of the root recipe.
func OwnRate() Rate { return Rate{} }

func (r Rate) resolve(own float64) float64 {
	if r.set {
		return r.value
	}
	return own
}
