package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/view"
)

func newWatchCmd(o *options) *cobra.Command {
	var level string
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Search genera as you type",
		Long: `watch reads queries from standard input, one per line. Results are printed
once input has been quiet for the debounce delay, so only the last of a quick
series of lines is searched. End input with Ctrl-D.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := o.loadCatalog()
			if err != nil {
				return err
			}
			lvl, err := domain.ParseLevelFilter(level)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := o.styles(cmd)
			genera := cat.Genera()

			var mu sync.Mutex
			d := view.NewDebouncer(delay, func(q string) {
				mu.Lock()
				defer mu.Unlock()
				printMatches(out, st, q, domain.Search(genera, q, lvl))
			})
			defer d.Stop()

			in := cmd.InOrStdin()
			if isTerminalReader(in) {
				fmt.Fprintln(out, st.dim.Render("검색어를 입력하세요 (Ctrl-D 종료)"))
			}
			sc := bufio.NewScanner(in)
			for sc.Scan() {
				d.Trigger(sc.Text())
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			d.Flush()
			d.Stop()

			// A timer-driven print may still be writing.
			mu.Lock()
			defer mu.Unlock()
			return nil
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "", "altitude filter: all, high, mid or low")
	cmd.Flags().DurationVar(&delay, "debounce", view.DefaultDebounce, "quiet period before a query runs")
	return cmd
}

func printMatches(w io.Writer, st styles, query string, genera []domain.Genus) {
	fmt.Fprintf(w, "%s %s (%d)\n", st.accent.Render("»"), query, len(genera))
	if len(genera) == 0 {
		fmt.Fprintln(w, "  "+st.dim.Render(noResults))
		return
	}
	for _, g := range genera {
		fmt.Fprintf(w, "  %-3s %s %s %s\n", g.Symbol, g.NativeName, g.RomanizedName, st.dim.Render(g.Tier.Info().NativeName))
	}
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
