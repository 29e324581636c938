package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

func TestDefault_LoadsTenGenera(t *testing.T) {
	c := Default()
	genera := c.Genera()
	require.Len(t, genera, GenusCount)

	symbols := make([]string, 0, len(genera))
	for _, g := range genera {
		symbols = append(symbols, g.Symbol)
	}
	assert.Equal(t, []string{"Ci", "Cc", "Cs", "As", "Ac", "Ns", "Cu", "Cb", "St", "Sc"}, symbols)
}

func TestDefault_EveryGenusHasOneValidTier(t *testing.T) {
	for _, g := range Default().Genera() {
		_, err := domain.ParseTier(string(g.Tier))
		assert.NoError(t, err, g.Code)
	}
}

func TestLookup_EveryCatalogCode(t *testing.T) {
	c := Default()
	for _, g := range c.Genera() {
		got, ok := c.Lookup(g.Code)
		require.True(t, ok, g.Code)
		assert.Equal(t, g.Symbol, got.Symbol)
	}
}

func TestLookup_ExactCode(t *testing.T) {
	got, ok := Default().Lookup("ci")
	require.True(t, ok)
	assert.Equal(t, "권운", got.NativeName)
	assert.Equal(t, domain.TierHigh, got.Tier)
}

func TestLookup_UnknownReturnsNotFound(t *testing.T) {
	c := Default()
	for _, code := range []string{"", "xx", "cirrus", "c", "../ci", "Ci", "CI", " ci", "ci "} {
		_, ok := c.Lookup(code)
		assert.False(t, ok, "code %q", code)
	}
}

func TestGenera_ReturnsCopy(t *testing.T) {
	c := Default()
	g := c.Genera()
	g[0].Symbol = "XX"
	g[0].Gallery[0].Src = "/tampered.jpg"
	g[0].Species[0].NativeName = "변조"
	g[0].Species[0].Gallery[0].Src = "/tampered.jpg"

	again, _ := c.Lookup("ci")
	assert.Equal(t, "Ci", again.Symbol)
	assert.Equal(t, "/clouds/ci/gallery/01.jpg", again.Gallery[0].Src)
	assert.Equal(t, "섬유상", again.Species[0].NativeName)
	assert.Equal(t, "/clouds/ci/species/fibratus/01.jpg", again.Species[0].Gallery[0].Src)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := Default()
	g, ok := c.Lookup("ci")
	require.True(t, ok)
	g.Species[0].NativeName = "변조"
	g.Species[0].Gallery = append(g.Species[0].Gallery[:0], domain.Image{Src: "/tampered.jpg"})
	g.Varieties[0].Code = "zz"

	again, _ := c.Lookup("ci")
	assert.Equal(t, "섬유상", again.Species[0].NativeName)
	assert.Equal(t, "/clouds/ci/species/fibratus/01.jpg", again.Species[0].Gallery[0].Src)
	assert.NotEqual(t, "zz", again.Varieties[0].Code)
	assert.Len(t, c.Occurrences(domain.CategorySpecies, "fibratus")[0].Item.Gallery, 2)
}

func TestDefault_EmptyFieldsAreValid(t *testing.T) {
	g, ok := Default().Lookup("ns")
	require.True(t, ok)
	assert.Empty(t, g.Species)
	assert.Empty(t, g.Varieties)
	assert.Empty(t, g.Definition)
	assert.Empty(t, g.Gallery)
}

func TestOccurrences(t *testing.T) {
	occs := Default().Occurrences(domain.CategorySpecies, "fibratus")
	require.Len(t, occs, 2)
	assert.Equal(t, "Ci", occs[0].Genus.Symbol)
	assert.Equal(t, "Cs", occs[1].Genus.Symbol)
	assert.Equal(t, "Cirrus fibratus (Ci fib)", occs[0].FullLabel)

	assert.Empty(t, Default().Occurrences(domain.CategorySpecies, "Fibratus"))
}

func TestLoad_SchemaViolation(t *testing.T) {
	data := []byte(`
genera:
  - id: ci
    symbol: Ci
    name_ko: 권운
    name_en: Cirrus
    level: stratosphere
    composition: ice
`)
	_, err := Load(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCatalog))

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Errors)
}

func TestLoad_WrongGenusCount(t *testing.T) {
	data := []byte(`
genera:
  - id: ci
    symbol: Ci
    name_ko: 권운
    name_en: Cirrus
    level: high
    composition: ice
`)
	_, err := Load(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "want 10 genera")
}

func TestLoad_DuplicateSubItem(t *testing.T) {
	dup := strings.Replace(string(embeddedCatalog),
		`{name_ko: 갈고리상, name_en: uncinus, code: "unc"}`,
		`{name_ko: 갈고리상, name_en: spissatus, code: "unc"}`, 1)
	require.NotEqual(t, string(embeddedCatalog), dup)

	_, err := Load([]byte(dup))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "spissatus")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load([]byte("genera: [unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
