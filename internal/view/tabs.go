package view

import "github.com/haneulgyeol/cloud-atlas/internal/domain"

// Tabs holds the active category tab of one page.
type Tabs struct {
	active domain.Category
}

// NewTabs activates the named category, falling back to species for unknown values.
func NewTabs(active string) *Tabs {
	c, err := domain.ParseCategory(active)
	if err != nil {
		c = domain.CategorySpecies
	}
	return &Tabs{active: c}
}

// Active returns the selected category.
func (t *Tabs) Active() domain.Category { return t.active }

// Select switches tabs.
func (t *Tabs) Select(c domain.Category) { t.active = c }

// Tab is one rendered tab header.
type Tab struct {
	Category domain.Category
	Label    string
	Anchor   string
	Active   bool
}

// Items lists the tabs in fixed category order.
func (t *Tabs) Items() []Tab {
	cats := domain.Categories()
	out := make([]Tab, 0, len(cats))
	for _, c := range cats {
		out = append(out, Tab{Category: c, Label: c.NativeLabel(), Anchor: "#" + string(c), Active: c == t.active})
	}
	return out
}
