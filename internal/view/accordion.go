package view

import (
	"slices"
	"strings"
)

// OpenParam is the query parameter carrying the set of expanded cards.
const OpenParam = "open"

// Accordion tracks which sub-item cards are expanded on one page. Cards are
// keyed by romanized name and toggle independently.
type Accordion struct {
	open map[string]bool
}

// NewAccordion returns an accordion with every card collapsed.
func NewAccordion() *Accordion {
	return &Accordion{open: make(map[string]bool)}
}

// ParseAccordion restores state from a comma-separated open parameter.
func ParseAccordion(param string) *Accordion {
	a := NewAccordion()
	for _, name := range strings.Split(param, ",") {
		if name = strings.TrimSpace(name); name != "" {
			a.open[name] = true
		}
	}
	return a
}

// IsOpen reports whether the card is expanded.
func (a *Accordion) IsOpen(name string) bool {
	return a.open[name]
}

// Toggle flips one card and returns its new state.
func (a *Accordion) Toggle(name string) bool {
	if a.open[name] {
		delete(a.open, name)
		return false
	}
	a.open[name] = true
	return true
}

// Encode serializes the open set in sorted order.
func (a *Accordion) Encode() string {
	names := make([]string, 0, len(a.open))
	for name := range a.open {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}

// ToggledParam returns the encoding the page would have after toggling name,
// leaving the receiver unchanged. Used to build each card's toggle link.
func (a *Accordion) ToggledParam(name string) string {
	next := &Accordion{open: make(map[string]bool, len(a.open)+1)}
	for k := range a.open {
		next.open[k] = true
	}
	next.Toggle(name)
	return next.Encode()
}
