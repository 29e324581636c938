package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/view"
)

func newGeneraCmd(o *options) *cobra.Command {
	var level, query string
	cmd := &cobra.Command{
		Use:   "genera",
		Short: "List the cloud genera",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenusSearch(cmd, o, query, level)
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "", "altitude filter: all, high, mid or low")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only genera whose name or symbol contains this text")
	return cmd
}

func newSearchCmd(o *options) *cobra.Command {
	var level, category string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search genera, or one sub-item index with --category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if category == "" {
				return runGenusSearch(cmd, o, args[0], level)
			}
			return runIndex(cmd, o, category, args[0], level)
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "", "altitude filter: all, high, mid or low")
	cmd.Flags().StringVarP(&category, "category", "c", "", "search species, varieties or supplementary instead of genera")
	return cmd
}

func newIndexCmd(o *options) *cobra.Command {
	var level, query string
	cmd := &cobra.Command{
		Use:       "index <category>",
		Short:     "Print the cross-genus index of species, varieties or supplementary features",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.CategorySpecies), string(domain.CategoryVarieties), string(domain.CategorySupplementary)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, o, args[0], query, level)
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "", "altitude filter: all, high, mid or low")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only entries matching this text")
	return cmd
}

func newSubCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sub <category> <name>",
		Short: "Show every genus a sub-item appears in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := o.loadCatalog()
			if err != nil {
				return err
			}
			c, err := domain.ParseCategory(args[0])
			if err != nil {
				return err
			}
			occs := cat.Occurrences(c, args[1])
			if len(occs) == 0 {
				return fmt.Errorf("no %s named %q", c, args[1])
			}
			return o.emit(cmd, subResult{category: c, name: args[1], occurrences: occs})
		},
	}
}

func newShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show one genus in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := o.loadCatalog()
			if err != nil {
				return err
			}
			g, ok := cat.Lookup(strings.ToLower(strings.TrimSpace(args[0])))
			if !ok {
				return fmt.Errorf("unknown genus %q", args[0])
			}
			return o.emit(cmd, genusResult{g})
		},
	}
}

func runGenusSearch(cmd *cobra.Command, o *options, query, level string) error {
	cat, err := o.loadCatalog()
	if err != nil {
		return err
	}
	lvl, err := domain.ParseLevelFilter(level)
	if err != nil {
		return err
	}
	return o.emit(cmd, generaResult{genera: domain.Search(cat.Genera(), query, lvl)})
}

func runIndex(cmd *cobra.Command, o *options, category, query, level string) error {
	cat, err := o.loadCatalog()
	if err != nil {
		return err
	}
	c, err := domain.ParseCategory(category)
	if err != nil {
		return err
	}
	lvl, err := domain.ParseLevelFilter(level)
	if err != nil {
		return err
	}
	return o.emit(cmd, indexResult{category: c, entries: domain.Search(cat.Index(c), query, lvl)})
}

type genusSummary struct {
	domain.GenusRef
	RomanizedName string `json:"name_en"`
	Species       int    `json:"species"`
	Varieties     int    `json:"varieties"`
	Supplementary int    `json:"supplementary"`
}

type generaResult struct {
	genera []domain.Genus
}

func (r generaResult) data() any {
	out := make([]genusSummary, 0, len(r.genera))
	for _, g := range r.genera {
		out = append(out, genusSummary{
			GenusRef:      g.Ref(),
			RomanizedName: g.RomanizedName,
			Species:       len(g.Species),
			Varieties:     len(g.Varieties),
			Supplementary: len(g.Supplementary),
		})
	}
	return out
}

func (r generaResult) text(w io.Writer, st styles) {
	if len(r.genera) == 0 {
		fmt.Fprintln(w, st.dim.Render(noResults))
		return
	}
	rows := make([][]string, 0, len(r.genera))
	for _, g := range r.genera {
		rows = append(rows, []string{
			g.Symbol,
			g.NativeName,
			g.RomanizedName,
			g.Tier.Info().NativeName,
			strconv.Itoa(len(g.Species)),
			strconv.Itoa(len(g.Varieties)),
			strconv.Itoa(len(g.Supplementary)),
		})
	}
	fmt.Fprintln(w, st.table([]string{"기호", "이름", "Name", "고도", "종", "변종", "부속"}, rows))
	fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("%d개 운형", len(r.genera))))
}

type indexResult struct {
	category domain.Category
	entries  []domain.IndexEntry
}

func (r indexResult) data() any {
	return struct {
		Category domain.Category     `json:"category"`
		Count    int                 `json:"count"`
		Entries  []domain.IndexEntry `json:"entries"`
	}{r.category, len(r.entries), r.entries}
}

func (r indexResult) text(w io.Writer, st styles) {
	fmt.Fprintln(w, st.title.Render(r.category.NativeLabel()+" · "+r.category.Label()))
	fmt.Fprintln(w, st.dim.Render(r.category.Description()))
	if len(r.entries) == 0 {
		fmt.Fprintln(w, st.dim.Render(noResults))
		return
	}
	rows := make([][]string, 0, len(r.entries))
	for _, e := range r.entries {
		symbols := make([]string, 0, len(e.InGenera))
		for _, g := range e.InGenera {
			symbols = append(symbols, g.Symbol)
		}
		rows = append(rows, []string{
			e.NativeName,
			e.RomanizedName,
			orDash(e.Code),
			strconv.Itoa(len(e.InGenera)),
			strings.Join(symbols, " "),
		})
	}
	fmt.Fprintln(w, st.table([]string{"이름", "Name", "코드", "운형 수", "나타나는 운형"}, rows))
	fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("%d개 항목", len(r.entries))))
}

type subResult struct {
	category    domain.Category
	name        string
	occurrences []domain.Occurrence
}

func (r subResult) data() any {
	return struct {
		Category    domain.Category     `json:"category"`
		Item        string              `json:"item"`
		Occurrences []domain.Occurrence `json:"occurrences"`
		Images      []domain.Image      `json:"images"`
	}{r.category, r.name, r.occurrences, domain.MergedGallery(r.occurrences)}
}

func (r subResult) text(w io.Writer, st styles) {
	first := r.occurrences[0].Item
	fmt.Fprintf(w, "%s %s\n", st.title.Render(first.NativeName), first.RomanizedName)
	fmt.Fprintln(w, st.dim.Render(r.category.NativeLabel()))
	fmt.Fprintln(w, view.Placeholder(first.Description, view.PromptSubDesc).Text)
	fmt.Fprintln(w)
	for _, occ := range r.occurrences {
		fmt.Fprintf(w, "  %s %s  %s\n", st.accent.Render(occ.Genus.Symbol), occ.Genus.NativeName, occ.FullLabel)
	}
	gallery := view.NewGallery("sub", domain.MergedGallery(r.occurrences), "")
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("사진 %d장", gallery.Count())))
}

type genusResult struct {
	genus domain.Genus
}

func (r genusResult) data() any { return r.genus }

func (r genusResult) text(w io.Writer, st styles) {
	g := r.genus
	info := g.Tier.Info()
	fmt.Fprintf(w, "%s %s %s\n", st.title.Render(g.Symbol), st.title.Render(g.NativeName), g.RomanizedName)
	fmt.Fprintf(w, "%s %s · %s\n", info.Icon, info.Title, info.Altitude)
	if g.Composition != "" {
		fmt.Fprintf(w, "구성: %s\n", g.Composition)
	}
	fmt.Fprintln(w)

	fields := []struct {
		label string
		field view.Field
	}{
		{"정의", view.Placeholder(g.Definition, view.PromptDefinition)},
		{"생성 원리", view.Placeholder(g.Formation, view.PromptFormation)},
		{"물리적 구성", view.Placeholder(g.Physical, view.PromptPhysical)},
		{"관측 팁", view.Placeholder(g.Observation, view.PromptObservation)},
	}
	for _, f := range fields {
		text := f.field.Text
		if f.field.Placeholder {
			text = st.dim.Render(text)
		}
		fmt.Fprintf(w, "%s\n  %s\n", st.header.Render(f.label), text)
	}
	fmt.Fprintln(w)

	for _, c := range domain.Categories() {
		items := g.Items(c)
		names := make([]string, 0, len(items))
		for _, it := range items {
			names = append(names, it.NativeName+" "+it.RomanizedName)
		}
		list := strings.Join(names, ", ")
		if len(names) == 0 {
			list = st.dim.Render("없음")
		}
		fmt.Fprintf(w, "%s (%d): %s\n", st.header.Render(c.NativeLabel()), len(items), list)
	}

	gallery := view.NewGallery(g.Code, g.Gallery, "")
	fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("사진 %d장", gallery.Count())))
}
