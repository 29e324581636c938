package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Tier is the altitude level a cloud genus belongs to.
type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// Tiers returns the altitude tiers in display order (high to low).
func Tiers() []Tier {
	return []Tier{TierHigh, TierMid, TierLow}
}

// ParseTier converts a raw tier string into a Tier.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierHigh, TierMid, TierLow:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// TierInfo carries the display metadata of an altitude tier section.
type TierInfo struct {
	Tier           Tier
	NativeName     string
	Title          string
	Subtitle       string
	Altitude       string
	AltitudeDetail string
	Icon           string
}

// Info returns the section metadata for the tier.
func (t Tier) Info() TierInfo {
	switch t {
	case TierHigh:
		return TierInfo{
			Tier:           t,
			NativeName:     "고층운",
			Title:          "고층운 (High Clouds)",
			Subtitle:       "얼음 결정으로 이루어진 높은 구름",
			Altitude:       "5-13 km",
			AltitudeDetail: "극지방: 3-8km | 온대: 5-13km | 열대: 6-18km",
			Icon:           "☁️",
		}
	case TierMid:
		return TierInfo{
			Tier:           t,
			NativeName:     "중층운",
			Title:          "중층운 (Middle Clouds)",
			Subtitle:       "물방울과 얼음 결정이 혼재된 중간 고도의 구름",
			Altitude:       "2-7 km",
			AltitudeDetail: "극지방: 2-4km | 온대: 2-7km | 열대: 2-8km",
			Icon:           "⛅",
		}
	case TierLow:
		return TierInfo{
			Tier:           t,
			NativeName:     "저층운",
			Title:          "저층운 (Low Clouds)",
			Subtitle:       "주로 물방울로 이루어진 낮은 고도의 구름 (적운, 적란운 포함)",
			Altitude:       "0-2 km",
			AltitudeDetail: "지표면 근처부터 2km 이하 고도 (적운/적란운은 수직 발달)",
			Icon:           "🌤️",
		}
	default:
		return TierInfo{Tier: t}
	}
}

// Image is a reference to a gallery picture. Src is a public asset path such as
// "/clouds/ci/gallery/01.jpg".
type Image struct {
	Src    string `yaml:"src" json:"src"`
	Alt    string `yaml:"alt,omitempty" json:"alt,omitempty"`
	Credit string `yaml:"credit,omitempty" json:"credit,omitempty"`
}

// SubItem is a species, variety or supplementary feature as listed under one genus.
// RomanizedName is the identity key: unique within one genus list, shared across
// genera when the same phenomenon occurs in several of them.
type SubItem struct {
	NativeName    string  `yaml:"name_ko" json:"name_ko"`
	RomanizedName string  `yaml:"name_en" json:"name_en"`
	Code          string  `yaml:"code" json:"code"`
	Description   string  `yaml:"description,omitempty" json:"description"`
	Formation     string  `yaml:"formation,omitempty" json:"formation"`
	Gallery       []Image `yaml:"images,omitempty" json:"images"`
}

// Genus is one of the ten WMO cloud genera.
type Genus struct {
	Code          string    `yaml:"id" json:"id"`
	Symbol        string    `yaml:"symbol" json:"symbol"`
	NativeName    string    `yaml:"name_ko" json:"name_ko"`
	RomanizedName string    `yaml:"name_en" json:"name_en"`
	Tier          Tier      `yaml:"level" json:"level"`
	Composition   string    `yaml:"composition" json:"composition"`
	Summary       string    `yaml:"summary,omitempty" json:"summary"`
	Definition    string    `yaml:"definition,omitempty" json:"definition"`
	Formation     string    `yaml:"formation,omitempty" json:"formation"`
	Physical      string    `yaml:"physical,omitempty" json:"physical"`
	Observation   string    `yaml:"observation,omitempty" json:"observation"`
	Image         string    `yaml:"image,omitempty" json:"image,omitempty"`
	ImageCredit   string    `yaml:"image_credit,omitempty" json:"image_credit,omitempty"`
	Gallery       []Image   `yaml:"images,omitempty" json:"images"`
	Species       []SubItem `yaml:"species,omitempty" json:"species"`
	Varieties     []SubItem `yaml:"varieties,omitempty" json:"varieties"`
	Supplementary []SubItem `yaml:"supplementary,omitempty" json:"supplementary"`
}

// Items returns the genus's sub-item list for a category.
func (g Genus) Items(c Category) []SubItem {
	switch c {
	case CategorySpecies:
		return g.Species
	case CategoryVarieties:
		return g.Varieties
	case CategorySupplementary:
		return g.Supplementary
	default:
		return nil
	}
}

// Item finds a sub-item by romanized name within a category.
func (g Genus) Item(c Category, romanizedName string) (SubItem, bool) {
	for _, it := range g.Items(c) {
		if it.RomanizedName == romanizedName {
			return it, true
		}
	}
	return SubItem{}, false
}

// Clone returns a copy of g that shares no slices with it.
func (g Genus) Clone() Genus {
	g.Gallery = slices.Clone(g.Gallery)
	g.Species = cloneItems(g.Species)
	g.Varieties = cloneItems(g.Varieties)
	g.Supplementary = cloneItems(g.Supplementary)
	return g
}

func cloneItems(items []SubItem) []SubItem {
	if items == nil {
		return nil
	}
	out := make([]SubItem, len(items))
	for i, it := range items {
		it.Gallery = slices.Clone(it.Gallery)
		out[i] = it
	}
	return out
}

// Ref returns the short reference used in "appears in" chips.
func (g Genus) Ref() GenusRef {
	return GenusRef{Code: g.Code, Symbol: g.Symbol, NativeName: g.NativeName, Tier: g.Tier}
}

// GenusRef identifies a genus without its nested lists.
type GenusRef struct {
	Code       string `json:"id"`
	Symbol     string `json:"symbol"`
	NativeName string `json:"name_ko"`
	Tier       Tier   `json:"level"`
}
