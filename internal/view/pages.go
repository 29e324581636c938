package view

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/haneulgyeol/cloud-atlas/internal/catalog"
	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

// Placeholder prompts for unwritten text.
const (
	PromptDefinition  = "여기에 구름의 정의를 작성하세요..."
	PromptFormation   = "여기에 구름의 생성 원리를 작성하세요..."
	PromptPhysical    = "여기에 물리적 구성을 작성하세요..."
	PromptObservation = "여기에 관측 팁을 작성하세요..."
	PromptSubDesc     = "여기에 설명을 작성하세요..."
	PromptSubForm     = "여기에 생성 원리를 작성하세요..."
	PromptSummary     = "여기에 요약을 작성하세요..."

	SearchPlaceholder = "구름 이름으로 검색... (예: 적운, Cumulus, Cu)"
	TaxonomyHeading   = "종 · 변종 · 부속 구름"
	RelatedTitle      = "🗺️ 구름 탐색"
	CurrentChip       = "현재"
)

// GenusPath is the detail route of a genus.
func GenusPath(code string) string {
	return "/atlas/" + strings.ToLower(code)
}

// SubPath is the detail route of a sub-item.
func SubPath(c domain.Category, romanizedName string) string {
	return "/atlas/sub/" + string(c) + "/" + url.PathEscape(romanizedName)
}

func anchorFor(romanizedName string) string {
	return "sub-" + strings.ToLower(strings.Join(strings.Fields(romanizedName), "-"))
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// FilterOption is one button of the level filter bar.
type FilterOption struct {
	Value  domain.LevelFilter
	Label  string
	Active bool
	URL    string
}

func levelFilters(path, query string, active domain.LevelFilter) []FilterOption {
	if active == "" {
		active = domain.LevelAll
	}
	opts := []FilterOption{{Value: domain.LevelAll, Label: "전체"}}
	for _, t := range domain.Tiers() {
		info := t.Info()
		opts = append(opts, FilterOption{
			Value: domain.LevelFilter(t),
			Label: fmt.Sprintf("%s (%s)", info.NativeName, strings.ReplaceAll(info.Altitude, " ", "")),
		})
	}
	for i := range opts {
		opts[i].Active = opts[i].Value == active
		q := url.Values{}
		if query != "" {
			q.Set("q", query)
		}
		if opts[i].Value != domain.LevelAll {
			q.Set("level", string(opts[i].Value))
		}
		opts[i].URL = withQuery(path, q)
	}
	return opts
}

// GenusCard is a genus tile on the atlas list.
type GenusCard struct {
	Genus   domain.Genus
	Path    string
	Summary Field
}

// TierSection groups the cards of one altitude tier.
type TierSection struct {
	Info   domain.TierInfo
	Genera []GenusCard
}

// AtlasPage is the searchable list of all genera.
type AtlasPage struct {
	Query       string
	Level       domain.LevelFilter
	Filters     []FilterOption
	Sections    []TierSection
	Total       int
	NoResults   bool
	DebounceMS  int64
	Placeholder string
}

// BuildAtlasPage filters the genera and groups the matches by tier. Tiers without
// matches are omitted.
func BuildAtlasPage(genera []domain.Genus, query string, level domain.LevelFilter, debounceMS int64) AtlasPage {
	if level == "" {
		level = domain.LevelAll
	}
	matches := domain.Search(genera, query, level)
	p := AtlasPage{
		Query:       query,
		Level:       level,
		Filters:     levelFilters("/atlas", query, level),
		Total:       len(matches),
		NoResults:   len(matches) == 0,
		DebounceMS:  debounceMS,
		Placeholder: SearchPlaceholder,
	}
	for _, t := range domain.Tiers() {
		sec := TierSection{Info: t.Info()}
		for _, g := range matches {
			if g.Tier == t {
				sec.Genera = append(sec.Genera, GenusCard{Genus: g, Path: GenusPath(g.Code), Summary: Placeholder(g.Summary, PromptSummary)})
			}
		}
		if len(sec.Genera) > 0 {
			p.Sections = append(p.Sections, sec)
		}
	}
	return p
}

// LightboxView is the open viewer as rendered server-side.
type LightboxView struct {
	Image    domain.Image
	Counter  string
	PrevURL  string
	NextURL  string
	CloseURL string
}

// buildLightbox opens the viewer when the lb parameter names a valid image.
// base carries the other query parameters the links must preserve.
func buildLightbox(images []domain.Image, path string, base url.Values, idPrefix string) *LightboxView {
	raw := base.Get(LightboxParam)
	if raw == "" {
		return nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	lb := NewLightbox(images)
	if err := lb.Open(i, fmt.Sprintf("%s-%d", idPrefix, i)); err != nil {
		return nil
	}
	img, _ := lb.Current()

	link := func(n int) string {
		q := cloneValues(base)
		q.Set(LightboxParam, strconv.Itoa(n))
		return withQuery(path, q)
	}
	v := &LightboxView{
		Image:   img,
		Counter: lb.Counter(),
		PrevURL: link(lb.PrevIndex()),
		NextURL: link(lb.NextIndex()),
	}
	q := cloneValues(base)
	q.Del(LightboxParam)
	v.CloseURL = withQuery(path, q) + "#" + lb.Close()
	return v
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// RelatedLink is one chip of the related navigation panel.
type RelatedLink struct {
	Code    string
	Name    string
	URL     string
	Current bool
}

// RelatedColumn is one column of the related navigation panel.
type RelatedColumn struct {
	Title string
	Count string
	Links []RelatedLink
}

// RelatedPanel lets the reader jump between genera and sub-items.
type RelatedPanel struct {
	Title   string
	Columns []RelatedColumn
}

// BuildRelated lists all genera and every unique sub-item, marking the page
// being viewed. Pass an empty currentCode or currentCategory when not applicable.
func BuildRelated(cat *catalog.Catalog, currentCode string, currentCategory domain.Category, currentName string) RelatedPanel {
	genera := cat.Genera()
	gen := RelatedColumn{Title: "운형 (Genera)", Count: fmt.Sprintf("%d종", len(genera))}
	for _, g := range genera {
		gen.Links = append(gen.Links, RelatedLink{
			Code:    g.Symbol,
			Name:    g.NativeName,
			URL:     GenusPath(g.Code),
			Current: strings.EqualFold(g.Code, currentCode),
		})
	}
	p := RelatedPanel{Title: RelatedTitle, Columns: []RelatedColumn{gen}}
	for _, c := range domain.Categories() {
		entries := cat.Unique(c)
		col := RelatedColumn{
			Title: fmt.Sprintf("%s (%s)", c.NativeLabel(), c.Label()),
			Count: fmt.Sprintf("%d종", len(entries)),
		}
		for _, e := range entries {
			col.Links = append(col.Links, RelatedLink{
				Code:    e.Code,
				Name:    e.NativeName,
				URL:     SubPath(c, e.RomanizedName),
				Current: c == currentCategory && e.RomanizedName == currentName,
			})
		}
		p.Columns = append(p.Columns, col)
	}
	return p
}

// SubCard is an expandable sub-item card on the genus page.
type SubCard struct {
	Item        domain.SubItem
	Anchor      string
	Open        bool
	ToggleURL   string
	DetailURL   string
	Description Field
	Formation   Field
	Gallery     Gallery
}

// SubSection is one category block of the genus page.
type SubSection struct {
	Category    domain.Category
	Title       string
	Description string
	Cards       []SubCard
}

// GenusPage is the detail view of one genus.
type GenusPage struct {
	Genus           domain.Genus
	Tier            domain.TierInfo
	Gallery         Gallery
	Lightbox        *LightboxView
	Definition      Field
	Formation       Field
	Physical        Field
	Observation     Field
	TaxonomyHeading string
	Sections        []SubSection
	Related         RelatedPanel
}

// BuildGenusPage assembles the genus detail view. images is the genus gallery,
// which the caller may have discovered from the asset store. q carries the
// accordion and lightbox state.
func BuildGenusPage(cat *catalog.Catalog, g domain.Genus, images []domain.Image, q url.Values) GenusPage {
	path := GenusPath(g.Code)
	acc := ParseAccordion(q.Get(OpenParam))

	p := GenusPage{
		Genus:           g,
		Tier:            g.Tier.Info(),
		Gallery:         NewGallery("gallery", images, ""),
		Lightbox:        buildLightbox(images, path, q, "gallery"),
		Definition:      Placeholder(g.Definition, PromptDefinition),
		Formation:       Placeholder(g.Formation, PromptFormation),
		Physical:        Placeholder(g.Physical, PromptPhysical),
		Observation:     Placeholder(g.Observation, PromptObservation),
		TaxonomyHeading: TaxonomyHeading,
		Related:         BuildRelated(cat, g.Code, "", ""),
	}

	for _, c := range domain.Categories() {
		items := g.Items(c)
		if len(items) == 0 {
			continue
		}
		sec := SubSection{Category: c, Title: fmt.Sprintf("%s (%s)", c.NativeLabel(), c.Label()), Description: c.Description()}
		for _, it := range items {
			anchor := anchorFor(it.RomanizedName)
			toggle := url.Values{}
			if next := acc.ToggledParam(it.RomanizedName); next != "" {
				toggle.Set(OpenParam, next)
			}
			sec.Cards = append(sec.Cards, SubCard{
				Item:        it,
				Anchor:      anchor,
				Open:        acc.IsOpen(it.RomanizedName),
				ToggleURL:   withQuery(path, toggle) + "#" + anchor,
				DetailURL:   SubPath(c, it.RomanizedName),
				Description: Placeholder(it.Description, PromptSubDesc),
				Formation:   Placeholder(it.Formation, PromptSubForm),
				Gallery: NewGallery(anchor, it.Gallery, it.NativeName+" 사진을 추가하세요").
					LinkTo(SubPath(c, it.RomanizedName), mergedOffset(cat, c, it.RomanizedName, g.Code)),
			})
		}
		p.Sections = append(p.Sections, sec)
	}
	return p
}

// mergedOffset is the position of code's images within the merged gallery of a
// sub-item page, which lists every occurrence in catalog order.
func mergedOffset(cat *catalog.Catalog, c domain.Category, romanizedName, code string) int {
	n := 0
	for _, o := range cat.Occurrences(c, romanizedName) {
		if o.Genus.Code == code {
			break
		}
		n += len(validImages(o.Item.Gallery))
	}
	return n
}

// OccurrenceLink is a genus in which a sub-item appears.
type OccurrenceLink struct {
	domain.Occurrence
	URL string
}

// SubPage is the detail view of a species, variety or supplementary feature.
type SubPage struct {
	Category    domain.Category
	Title       string
	Item        domain.SubItem
	Occurrences []OccurrenceLink
	Description Field
	Formation   Field
	Gallery     Gallery
	Lightbox    *LightboxView
	Related     RelatedPanel
}

// BuildSubPage assembles the sub-item detail view. The first occurrence in
// catalog order supplies the text; galleries of all occurrences are merged.
// It reports false when no genus lists the item.
func BuildSubPage(cat *catalog.Catalog, c domain.Category, romanizedName string, q url.Values) (SubPage, bool) {
	occs := cat.Occurrences(c, romanizedName)
	if len(occs) == 0 {
		return SubPage{}, false
	}
	first := occs[0].Item
	images := domain.MergedGallery(occs)
	path := SubPath(c, romanizedName)

	p := SubPage{
		Category:    c,
		Title:       fmt.Sprintf("%s (%s)", c.NativeLabel(), c.Label()),
		Item:        first,
		Description: Placeholder(first.Description, PromptSubDesc),
		Formation:   Placeholder(first.Formation, PromptSubForm),
		Gallery:     NewGallery("gallery", images, first.NativeName+" 사진을 추가하세요"),
		Lightbox:    buildLightbox(images, path, q, "gallery"),
		Related:     BuildRelated(cat, "", c, romanizedName),
	}
	for _, o := range occs {
		p.Occurrences = append(p.Occurrences, OccurrenceLink{Occurrence: o, URL: GenusPath(o.Genus.Code)})
	}
	return p, true
}

// NotFoundPage is shown for unknown genera and sub-items.
type NotFoundPage struct {
	Title     string
	Message   string
	BackURL   string
	BackLabel string
}

// GenusNotFound is the page for an unknown genus code.
func GenusNotFound(code string) NotFoundPage {
	return NotFoundPage{
		Title:     "구름을 찾을 수 없습니다",
		Message:   fmt.Sprintf("요청하신 구름(%s)이 존재하지 않습니다.", code),
		BackURL:   "/atlas",
		BackLabel: "← 구름 도감으로 돌아가기",
	}
}

// SubNotFound is the page for an unknown sub-item or category.
func SubNotFound(name string) NotFoundPage {
	return NotFoundPage{
		Title:     "항목을 찾을 수 없습니다",
		Message:   fmt.Sprintf("요청하신 항목(%s)이 존재하지 않습니다.", name),
		BackURL:   "/atlas",
		BackLabel: "← 구름 도감으로 돌아가기",
	}
}

// TaxonomyEntry is one row of the taxonomy index.
type TaxonomyEntry struct {
	domain.IndexEntry
	URL string
}

// TaxonomySection is one anchored category block of the taxonomy index.
type TaxonomySection struct {
	Category    domain.Category
	Anchor      string
	Title       string
	Description string
	Total       int
	Entries     []TaxonomyEntry
}

// TaxonomyPage lists every unique sub-item grouped by category.
type TaxonomyPage struct {
	Heading     string
	Query       string
	Level       domain.LevelFilter
	Filters     []FilterOption
	Tabs        []Tab
	Sections    []TaxonomySection
	NoResults   bool
	Placeholder string
	DebounceMS  int64
}

// BuildTaxonomyPage builds the index of all three categories, each filtered by
// the same query and level. debounceMS is the search input delay.
func BuildTaxonomyPage(cat *catalog.Catalog, query string, level domain.LevelFilter, tab string, debounceMS int64) TaxonomyPage {
	if level == "" {
		level = domain.LevelAll
	}
	p := TaxonomyPage{
		Heading:     TaxonomyHeading,
		Query:       query,
		Level:       level,
		Filters:     levelFilters("/atlas/taxonomy", query, level),
		Tabs:        NewTabs(tab).Items(),
		Placeholder: SearchPlaceholder,
		NoResults:   true,
		DebounceMS:  debounceMS,
	}
	for _, c := range domain.Categories() {
		all := cat.Index(c)
		matches := domain.Search(all, query, level)
		sec := TaxonomySection{
			Category:    c,
			Anchor:      string(c),
			Title:       fmt.Sprintf("%s (%s)", c.NativeLabel(), c.Label()),
			Description: c.Description(),
			Total:       len(all),
			Entries:     make([]TaxonomyEntry, 0, len(matches)),
		}
		for _, e := range matches {
			sec.Entries = append(sec.Entries, TaxonomyEntry{IndexEntry: e, URL: SubPath(c, e.RomanizedName)})
		}
		if len(matches) > 0 {
			p.NoResults = false
		}
		p.Sections = append(p.Sections, sec)
	}
	return p
}

// TierSummary is a tier tile on the home page.
type TierSummary struct {
	Info  domain.TierInfo
	Count int
	URL   string
}

// HomePage is the landing page with the sky hero and the identify panel.
type HomePage struct {
	Sky       Sky
	Panel     Snapshot
	MaxUpload string
	Tiers     []TierSummary
}

// BuildHomePage assembles the landing page for the given sky and panel state.
func BuildHomePage(genera []domain.Genus, sky Sky, panel Snapshot, maxUpload string) HomePage {
	p := HomePage{Sky: sky, Panel: panel, MaxUpload: maxUpload}
	for _, t := range domain.Tiers() {
		n := 0
		for _, g := range genera {
			if g.Tier == t {
				n++
			}
		}
		p.Tiers = append(p.Tiers, TierSummary{Info: t.Info(), Count: n, URL: "/atlas?level=" + string(t)})
	}
	return p
}
