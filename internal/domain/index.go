package domain

import (
	"fmt"
	"sort"
)

// IndexEntry is one unique sub-item across all genera of a category.
type IndexEntry struct {
	NativeName    string     `json:"name_ko"`
	RomanizedName string     `json:"name_en"`
	Code          string     `json:"code"`
	InGenera      []GenusRef `json:"in_genera"`
}

// BuildIndex collects the unique sub-items of a category, keyed by romanized name.
// The first occurrence in catalog order supplies the native name and code; later
// occurrences only extend InGenera. Entries are ordered by the number of containing
// genera, descending, with ties kept in first-seen order.
func BuildIndex(genera []Genus, c Category) []IndexEntry {
	entries := make([]IndexEntry, 0)
	pos := make(map[string]int)

	for _, g := range genera {
		for _, it := range g.Items(c) {
			i, ok := pos[it.RomanizedName]
			if !ok {
				i = len(entries)
				pos[it.RomanizedName] = i
				entries = append(entries, IndexEntry{
					NativeName:    it.NativeName,
					RomanizedName: it.RomanizedName,
					Code:          it.Code,
				})
			}
			entries[i].InGenera = append(entries[i].InGenera, g.Ref())
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].InGenera) > len(entries[j].InGenera)
	})
	return entries
}

// SubEntry is a sub-item summary used by the related navigation panel.
type SubEntry struct {
	NativeName    string `json:"name_ko"`
	RomanizedName string `json:"name_en"`
	Code          string `json:"code"`
}

// UniqueSubItems lists each sub-item of a category once, in first-seen order.
func UniqueSubItems(genera []Genus, c Category) []SubEntry {
	seen := make(map[string]struct{})
	out := make([]SubEntry, 0)
	for _, g := range genera {
		for _, it := range g.Items(c) {
			if _, ok := seen[it.RomanizedName]; ok {
				continue
			}
			seen[it.RomanizedName] = struct{}{}
			out = append(out, SubEntry{NativeName: it.NativeName, RomanizedName: it.RomanizedName, Code: it.Code})
		}
	}
	return out
}

// Occurrence is one genus in which a sub-item appears.
type Occurrence struct {
	Genus     GenusRef `json:"genus"`
	GenusName string   `json:"genus_name_en"`
	ItemCode  string   `json:"item_code"`
	FullLabel string   `json:"full_label"`
	Item      SubItem  `json:"item"`
}

// FindOccurrences returns every genus, in catalog order, whose category list holds
// a sub-item with exactly this romanized name.
func FindOccurrences(genera []Genus, c Category, romanizedName string) []Occurrence {
	out := make([]Occurrence, 0)
	for _, g := range genera {
		it, ok := g.Item(c, romanizedName)
		if !ok {
			continue
		}
		out = append(out, Occurrence{
			Genus:     g.Ref(),
			GenusName: g.RomanizedName,
			ItemCode:  it.Code,
			FullLabel: fmt.Sprintf("%s %s (%s %s)", g.RomanizedName, romanizedName, g.Symbol, it.Code),
			Item:      it,
		})
	}
	return out
}

// MergedGallery concatenates the sub-item galleries of all occurrences.
func MergedGallery(occs []Occurrence) []Image {
	var out []Image
	for _, o := range occs {
		out = append(out, o.Item.Gallery...)
	}
	return out
}
