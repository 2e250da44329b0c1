package calc

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// WriteHeader states the requested rate and the production units it needs.
func (r Result) WriteHeader(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Calculating production of %s %s per minute.\n", formatNumber(r.Rate), r.Title); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Requires %s production unit(s)\n", formatNumber(r.Units))
	return err
}

// WriteTree prints one line per dependency in traversal order.
func (r Result) WriteTree(w io.Writer) error {
	for _, l := range r.Lines {
		var err error
		if l.Found {
			_, err = fmt.Fprintf(w, "%s%s x %s = %s per minute\n", l.Prefix, l.Title, formatNumber(l.Scale), formatNumber(l.Rate))
		} else {
			_, err = fmt.Fprintf(w, "%snot found\n", l.Prefix)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints the accumulated demand of every recipe, root included.
func (r Result) WriteSummary(w io.Writer) error {
	for _, s := range r.Summary {
		if _, err := fmt.Fprintf(w, "%s x %s total consumption %s per minute\n", s.Title, formatNumber(s.Units), formatNumber(s.Rate)); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the header, the tree and the summary.
func (r Result) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := r.WriteHeader(&buf); err != nil {
		return 0, err
	}
	if err := r.WriteTree(&buf); err != nil {
		return 0, err
	}
	if err := r.WriteSummary(&buf); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

func (r Result) String() string {
	var buf bytes.Buffer
	_, _ = r.WriteTo(&buf)
	return buf.String()
}

// formatNumber prints the shortest decimal that round-trips to v.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
