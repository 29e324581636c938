package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// LevelFilter narrows results to one altitude tier, or none with LevelAll.
type LevelFilter string

const (
	LevelAll  LevelFilter = "all"
	LevelHigh LevelFilter = LevelFilter(TierHigh)
	LevelMid  LevelFilter = LevelFilter(TierMid)
	LevelLow  LevelFilter = LevelFilter(TierLow)
)

// ParseLevelFilter parses a filter value. The empty string means LevelAll.
func ParseLevelFilter(s string) (LevelFilter, error) {
	switch f := LevelFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return LevelAll, nil
	case LevelAll, LevelHigh, LevelMid, LevelLow:
		return f, nil
	default:
		return "", fmt.Errorf("unknown level filter %q", s)
	}
}

// Admits reports whether an item of the given tier passes the filter.
func (f LevelFilter) Admits(t Tier) bool {
	return f == LevelAll || f == "" || Tier(f) == t
}

// Searchable is anything the search engine can match and tier-filter.
type Searchable interface {
	SearchKeys() []string
	InTier(f LevelFilter) bool
}

// SearchKeys returns native name, romanized name and symbol.
func (g Genus) SearchKeys() []string {
	return []string{g.NativeName, g.RomanizedName, g.Symbol}
}

// InTier reports whether the genus passes the level filter.
func (g Genus) InTier(f LevelFilter) bool {
	return f.Admits(g.Tier)
}

// SearchKeys returns the entry's own names and code plus the native name and
// symbol of every containing genus.
func (e IndexEntry) SearchKeys() []string {
	keys := make([]string, 0, 3+2*len(e.InGenera))
	keys = append(keys, e.NativeName, e.RomanizedName, e.Code)
	for _, g := range e.InGenera {
		keys = append(keys, g.NativeName, g.Symbol)
	}
	return keys
}

// InTier reports whether any containing genus passes the level filter.
func (e IndexEntry) InTier(f LevelFilter) bool {
	for _, g := range e.InGenera {
		if f.Admits(g.Tier) {
			return true
		}
	}
	return f == LevelAll || f == ""
}

// NormalizeQuery folds text for matching: NFC composition, lower case, and no
// whitespace anywhere. Queries and keys go through the same rule.
func NormalizeQuery(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Search returns the entries that pass the level filter and whose keys contain the
// normalized query, preserving input order. An empty query matches everything.
func Search[T Searchable](entries []T, query string, level LevelFilter) []T {
	q := NormalizeQuery(query)
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if !e.InTier(level) {
			continue
		}
		if q == "" || matchesAny(e.SearchKeys(), q) {
			out = append(out, e)
		}
	}
	return out
}

func matchesAny(keys []string, q string) bool {
	for _, k := range keys {
		if k != "" && strings.Contains(NormalizeQuery(k), q) {
			return true
		}
	}
	return false
}
