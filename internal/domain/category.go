package domain

import "fmt"

// Category selects one of the three sub-item lists of a genus.
type Category string

const (
	CategorySpecies       Category = "species"
	CategoryVarieties     Category = "varieties"
	CategorySupplementary Category = "supplementary"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategorySpecies, CategoryVarieties, CategorySupplementary}
}

// ParseCategory converts a route segment into a Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategorySpecies, CategoryVarieties, CategorySupplementary:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// NativeLabel is the Korean section title.
func (c Category) NativeLabel() string {
	switch c {
	case CategorySpecies:
		return "종"
	case CategoryVarieties:
		return "변종"
	case CategorySupplementary:
		return "부속 구름 및 보조 특징"
	default:
		return string(c)
	}
}

// Label is the English section title.
func (c Category) Label() string {
	switch c {
	case CategorySpecies:
		return "Species"
	case CategoryVarieties:
		return "Varieties"
	case CategorySupplementary:
		return "SFAC"
	default:
		return string(c)
	}
}

// Description is the one-line section blurb.
func (c Category) Description() string {
	switch c {
	case CategorySpecies:
		return "구름의 형태와 구조적 특징에 따른 세부 분류"
	case CategoryVarieties:
		return "투명도와 배열 패턴에 따른 추가 분류"
	case CategorySupplementary:
		return "보조 특징, 부속 구름 및 특수 구름 형태"
	default:
		return ""
	}
}
