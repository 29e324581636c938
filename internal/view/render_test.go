package view

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneulgyeol/cloud-atlas/internal/catalog"
	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

func render(t *testing.T, name, title string, data any) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, title, data))
	return buf.String()
}

func TestRender_Atlas(t *testing.T) {
	html := render(t, PageAtlas, "구름 도감", BuildAtlasPage(catalog.Default().Genera(), "", domain.LevelAll, 200))

	assert.Contains(t, html, "권운")
	assert.Contains(t, html, `href="/atlas/ci"`)
	assert.Contains(t, html, "고층운 (5-13km)")
	assert.Contains(t, html, `data-debounce-ms="200"`)
	assert.Contains(t, html, "© 2026 하늘결 (HaneulGyeol)")
	assert.NotContains(t, html, "검색 결과가 없습니다")
}

func TestRender_AtlasNoResults(t *testing.T) {
	html := render(t, PageAtlas, "", BuildAtlasPage(catalog.Default().Genera(), "<없음>", domain.LevelAll, 200))
	assert.Contains(t, html, "검색 결과가 없습니다")
	assert.Contains(t, html, "&lt;없음&gt;")
	assert.NotContains(t, html, "<없음>")
}

func TestRender_Genus(t *testing.T) {
	g, ok := catalog.Default().Lookup("ci")
	require.True(t, ok)
	page := BuildGenusPage(catalog.Default(), g, g.Gallery, url.Values{OpenParam: {"uncinus"}, LightboxParam: {"0"}})
	html := render(t, PageGenus, g.NativeName, page)

	assert.Contains(t, html, PromptDefinition)
	assert.Contains(t, html, TaxonomyHeading)
	assert.Contains(t, html, "갈고리상 사진을 추가하세요", "open card shows its empty gallery")
	assert.NotContains(t, html, "섬유상 사진을 추가하세요")
	assert.Contains(t, html, `class="lightbox-counter">1 / 3<`)
	assert.Contains(t, html, RelatedTitle)
	assert.Contains(t, html, CurrentChip)
}

func TestRender_Sub(t *testing.T) {
	page, ok := BuildSubPage(catalog.Default(), domain.CategorySupplementary, "virga", url.Values{})
	require.True(t, ok)
	html := render(t, PageSub, page.Item.NativeName, page)

	assert.Contains(t, html, "Cirrocumulus virga (Cc vir)")
	assert.Contains(t, html, "구멍 사진을 추가하세요")
}

func TestRender_Taxonomy(t *testing.T) {
	html := render(t, PageTaxonomy, "분류", BuildTaxonomyPage(catalog.Default(), "", domain.LevelAll, "", 200))
	for _, anchor := range []string{`id="species"`, `id="varieties"`, `id="supplementary"`} {
		assert.Contains(t, html, anchor)
	}
	assert.Contains(t, html, `action="/atlas/taxonomy" data-debounce-ms="200"`)
	assert.Contains(t, html, "form.dataset.debounceMs")
}

func TestRender_NotFound(t *testing.T) {
	html := render(t, PageNotFound, "", GenusNotFound("xx"))
	assert.Contains(t, html, "요청하신 구름(xx)이 존재하지 않습니다.")
	assert.Contains(t, html, `href="/atlas"`)
	assert.Contains(t, html, "← 구름 도감으로 돌아가기")
}

func TestRender_HomeWithResult(t *testing.T) {
	snap := Snapshot{
		State:           StateResult,
		Top:             &PredictionView{Rank: 1, Code: "Cu", Name: "적운", Percent: "92.0%", AtlasPath: "/atlas/cu"},
		Others:          []PredictionView{{Rank: 2, Code: "Sc", Name: "층적운", Percent: "5.0%"}},
		ConfidenceLevel: "high",
		ConfidenceText:  "높은 확신도",
	}
	html := render(t, PageHome, "", BuildHomePage(catalog.Default().Genera(), SkyAt(23), snap, "10 MB"))

	assert.Contains(t, html, "92.0%")
	assert.Contains(t, html, `href="/atlas/cu"`)
	assert.Contains(t, html, "층적운")
	assert.Contains(t, html, "sky-night")
	assert.Contains(t, html, `class="moon"`)
	assert.NotContains(t, html, `class="sun"`)
}

func TestRender_HomeFailure(t *testing.T) {
	snap := Snapshot{State: StateFailed, Error: MsgFailed, Guidance: MsgReupload}
	html := render(t, PageHome, "", BuildHomePage(catalog.Default().Genera(), SkyAt(12), snap, "10 MB"))
	assert.Contains(t, html, MsgFailed)
	assert.Contains(t, html, MsgReupload)
	assert.NotContains(t, html, MsgLoading)
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "missing", "", nil))
	assert.Zero(t, buf.Len())
}
