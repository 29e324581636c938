// Package catalog loads the static cloud taxonomy and answers lookups against it.
// The catalog is built once and never mutated afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

// GenusCount is the number of WMO cloud genera.
const GenusCount = 10

var (
	//go:embed catalog.yaml
	embeddedCatalog []byte

	//go:embed catalog.schema.json
	schemaJSON string
)

// ErrInvalidCatalog wraps every load-time validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// ValidationError lists schema violations found in catalog data.
type ValidationError struct {
	Errors []string
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// Unwrap lets errors.Is match ErrInvalidCatalog.
func (e ValidationError) Unwrap() error { return ErrInvalidCatalog }

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("catalog.schema.json", schemaJSON)
})

type document struct {
	Genera []domain.Genus `yaml:"genera"`
}

// Catalog is the immutable table of genera.
type Catalog struct {
	genera []domain.Genus
	byCode map[string]int
}

// Load parses and validates YAML catalog data.
func Load(data []byte) (*Catalog, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		genera: doc.Genera,
		byCode: make(map[string]int, len(doc.Genera)),
	}
	if len(c.genera) != GenusCount {
		return nil, fmt.Errorf("%w: want %d genera, got %d", ErrInvalidCatalog, GenusCount, len(c.genera))
	}
	for i, g := range c.genera {
		if _, err := domain.ParseTier(string(g.Tier)); err != nil {
			return nil, fmt.Errorf("%w: genus %s: %w", ErrInvalidCatalog, g.Code, err)
		}
		if _, dup := c.byCode[g.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate genus code %q", ErrInvalidCatalog, g.Code)
		}
		c.byCode[g.Code] = i
		for _, cat := range domain.Categories() {
			if err := checkUniqueNames(g.Items(cat)); err != nil {
				return nil, fmt.Errorf("%w: genus %s %s: %w", ErrInvalidCatalog, g.Code, cat, err)
			}
		}
	}
	return c, nil
}

func validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse yaml: %w", ErrInvalidCatalog, err)
	}

	if err := schema.Validate(raw); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			var msgs []string
			for _, cause := range verr.Causes {
				msgs = append(msgs, cause.InstanceLocation+": "+cause.Message)
			}
			if len(msgs) == 0 {
				msgs = append(msgs, verr.Message)
			}
			return ValidationError{Errors: msgs}
		}
		return ValidationError{Errors: []string{err.Error()}}
	}
	return nil
}

func checkUniqueNames(items []domain.SubItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.RomanizedName]; dup {
			return fmt.Errorf("duplicate sub-item %q", it.RomanizedName)
		}
		seen[it.RomanizedName] = struct{}{}
	}
	return nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(embeddedCatalog)
})

// Default returns the catalog embedded in the binary. It panics if the embedded
// data is invalid, which the package tests rule out.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Genera returns every genus in catalog order.
// Callers may modify the result freely.
func (c *Catalog) Genera() []domain.Genus {
	out := make([]domain.Genus, len(c.genera))
	for i, g := range c.genera {
		out[i] = g.Clone()
	}
	return out
}

// Lookup returns the genus for a code such as "ci". Codes match exactly; "CI"
// and " ci" are unknown. Unknown codes return false; callers render a not-found view.
func (c *Catalog) Lookup(code string) (domain.Genus, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return domain.Genus{}, false
	}
	return c.genera[i].Clone(), true
}

// Index builds the deduplicated cross-reference for a category.
func (c *Catalog) Index(cat domain.Category) []domain.IndexEntry {
	return domain.BuildIndex(c.genera, cat)
}

// Occurrences lists the genera containing a sub-item. An empty result means the
// sub-item does not exist.
func (c *Catalog) Occurrences(cat domain.Category, romanizedName string) []domain.Occurrence {
	return domain.FindOccurrences(c.genera, cat, romanizedName)
}

// Unique lists the sub-items of a category once each, in first-seen order.
func (c *Catalog) Unique(cat domain.Category) []domain.SubEntry {
	return domain.UniqueSubItems(c.genera, cat)
}
